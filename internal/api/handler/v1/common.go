package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ncss/coffeerun/internal/api/handler/v1/response"
	"github.com/ncss/coffeerun/internal/api/middleware"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/service"
)

var errNoUserInContext = errors.New("no authenticated user")

// UserGetter is the part of the user service every authenticated handler
// needs.
type UserGetter interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200      {object}   response.HealthResponse
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.HealthResponse{Status: "ok"})
}

func getUserFromContext(ctx *gin.Context, uSvc UserGetter) (domain.User, *response.Err) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNoUserInContext)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(err)
		}

		err = fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err)
		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", name, ctx.Param(name)))
	}

	return uint(id), nil
}

// checkPerson makes sure a user named in a form exists. The caller is known
// to exist already.
func checkPerson(ctx *gin.Context, uSvc UserGetter, personID, callerID uint) *response.Err {
	if personID == callerID {
		return nil
	}

	if _, err := uSvc.GetUser(ctx.Request.Context(), personID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return response.ErrBadRequest(validation.Errors{"person": fmt.Errorf("user %d does not exist", personID)})
		}

		err = fmt.Errorf("checkPerson -> uSvc.GetUser -> %w", err)
		return response.ErrInternalServerError(err)
	}

	return nil
}
