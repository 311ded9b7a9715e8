package observability

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSentry(t *testing.T) {
	flush, err := InitSentry("", "test", "")
	require.NoError(t, err)
	assert.NotPanics(t, flush)

	_, err = InitSentry("not-a-dsn", "test", "")
	assert.Error(t, err)
}

func TestCaptureRequestErr(t *testing.T) {
	var events []*sentry.Event
	require.NoError(t, sentry.Init(sentry.ClientOptions{
		Dsn: "https://public@example.com/1",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, event)
			return nil
		},
	}))
	t.Cleanup(func() { _ = sentry.Init(sentry.ClientOptions{}) })

	CaptureRequestErr(nil, "GET", "/api/v1/runs", "req-1")
	CaptureRequestErr(errors.New("db down"), "POST", "/api/v1/runs/:runID/close", "req-2")
	CaptureErr(errors.New("plain"))

	require.Len(t, events, 2)
	assert.Equal(t, "POST", events[0].Tags["http.method"])
	assert.Equal(t, "/api/v1/runs/:runID/close", events[0].Tags["http.route"])
	assert.Equal(t, "req-2", events[0].Tags["request_id"])
	assert.Empty(t, events[1].Tags["request_id"])
}
