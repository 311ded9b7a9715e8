package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry is a no-op when dsn is empty. The returned func flushes
// buffered events and should be deferred by the caller.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: env,
		Release:     release,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}

// CaptureRequestErr tags the error with the route it happened on.
func CaptureRequestErr(err error, method, path, requestID string) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("http.method", method)
		scope.SetTag("http.route", path)
		if requestID != "" {
			scope.SetTag("request_id", requestID)
		}
		sentry.CaptureException(err)
	})
}
