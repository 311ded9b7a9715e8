package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ncss/coffeerun/internal/api/handler/v1/response"
	"github.com/ncss/coffeerun/internal/pkg/jwthelper"
)

const CtxKeyUserID = "userID"

var errMissingToken = errors.New("missing bearer token")

type Authenticator struct {
	key []byte
}

func NewAuthenticator(key string) *Authenticator {
	return &Authenticator{key: []byte(key)}
}

// VerifyJWT rejects requests without a valid bearer token and stores the
// caller's id under CtxKeyUserID.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx)
		if token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			return
		}

		userID, err := jwthelper.ParseToken(a.key, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(CtxKeyUserID, userID)
		ctx.Next()
	}
}

// bearerToken falls back to the token query parameter, used by websocket
// clients.
func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ctx.Query("token")
}

func UserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(CtxKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)

	return id, ok
}
