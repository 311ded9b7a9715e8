package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncss/coffeerun/internal/api/handler/v1/request"
	"github.com/ncss/coffeerun/internal/api/handler/v1/response"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/service"
)

type UserService interface {
	UserGetter
	ListUsers(ctx context.Context) ([]domain.User, error)
	Balance(ctx context.Context, userID uint) (domain.Balance, error)
	Exchanges(ctx context.Context, userID uint) ([]domain.MoneyExchange, error)
	UpdateProfile(ctx context.Context, user domain.User) (domain.User, error)
	RegisterDevice(ctx context.Context, userID uint, regID string) (domain.RegistrationID, error)
	Devices(ctx context.Context, userID uint) ([]domain.RegistrationID, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200      {array}    domain.User
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users [get]
// @Security BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	users, err := h.svc.ListUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleGetUser godoc
// @Summary      Get a user with what they are owed and owe
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true  "user ID"
// @Success      200      {object}   response.UserResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.renderUser(ctx, user)
}

// HandleGetMe godoc
// @Summary      Get the logged in user
// @Tags         users
// @Produce      json
// @Success      200      {object}   response.UserResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	h.renderUser(ctx, user)
}

func (h *UserHandler) renderUser(ctx *gin.Context, user domain.User) {
	balance, err := h.svc.Balance(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.renderUser -> h.svc.Balance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.UserResponse{User: user, Balance: balance})
}

// HandleUpdateMe godoc
// @Summary      Update the logged in user's profile
// @Tags         users
// @Produce      json
// @Param        request  body       request.ProfileRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me [patch]
// @Security BearerAuth
func (h *UserHandler) HandleUpdateMe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateProfile(ctx.Request.Context(), req.Apply(user))
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateMe -> h.svc.UpdateProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleRegisterDevice godoc
// @Summary      Register a push notification token
// @Tags         users
// @Produce      json
// @Param        request  body       request.DeviceRequest true "request body"
// @Success      201      {object}   domain.RegistrationID
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me/devices [post]
// @Security BearerAuth
func (h *UserHandler) HandleRegisterDevice(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.DeviceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reg, err := h.svc.RegisterDevice(ctx.Request.Context(), user.ID, req.RegID)
	if err != nil {
		err = fmt.Errorf("v1.HandleRegisterDevice -> h.svc.RegisterDevice -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, reg)
}

// HandleListDevices godoc
// @Summary      List the logged in user's push tokens
// @Tags         users
// @Produce      json
// @Success      200      {array}    domain.RegistrationID
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/me/devices [get]
// @Security BearerAuth
func (h *UserHandler) HandleListDevices(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	devices, err := h.svc.Devices(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListDevices -> h.svc.Devices -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, devices)
}

// HandleListExchanges godoc
// @Summary      List money exchanges a user is part of
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true  "user ID"
// @Success      200      {array}    domain.MoneyExchange
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/exchanges [get]
// @Security BearerAuth
func (h *UserHandler) HandleListExchanges(ctx *gin.Context) {
	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.svc.GetUser(ctx.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleListExchanges -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	exchanges, err := h.svc.Exchanges(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListExchanges -> h.svc.Exchanges -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, exchanges)
}
