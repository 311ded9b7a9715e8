package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunHandler_RunURL(t *testing.T) {
	h := NewRunHandler(nil, nil, nil, "https://coffee.example.com/")
	assert.Equal(t, "https://coffee.example.com/api/v1/runs/7", h.runURL(7))

	h = NewRunHandler(nil, nil, nil, "http://localhost:8080")
	assert.Equal(t, "http://localhost:8080/api/v1/runs/12", h.runURL(12))
}
