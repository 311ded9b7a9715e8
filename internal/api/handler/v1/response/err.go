package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/ncss/coffeerun/internal/observability"
)

// Err is the body of every failed request.
type Err struct {
	Err            error             `json:"-"`
	HTTPStatusCode int               `json:"-"`
	StatusText     string            `json:"status"`
	ErrorText      string            `json:"error,omitempty"`
	Fields         map[string]string `json:"fields,omitempty"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.StatusText
	}

	return e.Err.Error()
}

// RenderErr aborts the request with e. Server errors are logged and reported
// to Sentry, client errors only at debug level.
func RenderErr(ctx *gin.Context, e *Err) {
	reqID := requestid.Get(ctx)
	fields := []zap.Field{
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.FullPath()),
		zap.String("request_id", reqID),
		zap.Int("status", e.HTTPStatusCode),
		zap.Error(e.Err),
	}

	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed", fields...)
		observability.CaptureRequestErr(e.Err, ctx.Request.Method, ctx.FullPath(), reqID)
	} else {
		zap.L().Debug("request rejected", fields...)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	e := &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request.",
		ErrorText:      err.Error(),
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		e.Fields = make(map[string]string, len(verrs))
		for field, ferr := range verrs {
			e.Fields[field] = ferr.Error()
		}
		e.ErrorText = "invalid input"
	}

	return e
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Wrong credentials.",
		ErrorText:      "email or password is incorrect",
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthorized.",
		ErrorText:      err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Permission denied.",
		ErrorText:      err.Error(),
	}
}

func ErrNotFound(resource, field string, value any) *Err {
	return &Err{
		Err:            fmt.Errorf("%s not found with %s = %v", resource, field, value),
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorText:      fmt.Sprintf("%s with %s %v does not exist", resource, field, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Conflict.",
		ErrorText:      err.Error(),
	}
}

// ErrInternalServerError hides err from the client.
func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      "something went wrong, please try again later",
	}
}
