package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncss/coffeerun/internal/pkg/jwthelper"
)

func TestVerifyJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.GET("/me", NewAuthenticator("secret").VerifyJWT(), func(ctx *gin.Context) {
		id, ok := UserID(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, gin.H{"id": id})
	})

	token, err := jwthelper.GenerateToken([]byte("secret"), jwthelper.Subject{UserID: 5}, "test")
	require.NoError(t, err)
	other, err := jwthelper.GenerateToken([]byte("other"), jwthelper.Subject{UserID: 5}, "test")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"header", "Bearer " + token, "", http.StatusOK},
		{"query", "", "?token=" + token, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong key", "Bearer " + other, "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"id":5}`, rec.Body.String())
			}
		})
	}
}
