package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ncss/coffeerun/internal/api/handler/v1/request"
	"github.com/ncss/coffeerun/internal/api/handler/v1/response"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/service"
)

type CafeService interface {
	CreateCafe(ctx context.Context, userID uint, cafe domain.Cafe) (domain.Cafe, error)
	GetCafe(ctx context.Context, id uint) (domain.Cafe, error)
	ListCafes(ctx context.Context) ([]domain.Cafe, error)
	DeleteCafe(ctx context.Context, userID, id uint) error
	AddPrice(ctx context.Context, userID uint, price domain.Price) (domain.Price, error)
	AddModifier(ctx context.Context, userID uint, modifier domain.PriceModifier) (domain.PriceModifier, error)
}

type CafeHandler struct {
	svc  CafeService
	uSvc UserGetter
}

func NewCafeHandler(svc CafeService, uSvc UserGetter) *CafeHandler {
	return &CafeHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListCafes godoc
// @Summary      List cafes
// @Tags         cafes
// @Produce      json
// @Success      200      {array}    domain.Cafe
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /cafes [get]
// @Security BearerAuth
func (h *CafeHandler) HandleListCafes(ctx *gin.Context) {
	cafes, err := h.svc.ListCafes(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCafes -> h.svc.ListCafes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cafes)
}

// HandleCreateCafe godoc
// @Summary      Add a cafe
// @Tags         cafes
// @Produce      json
// @Param        request  body       request.CafeForm true "request body"
// @Success      201      {object}   domain.Cafe
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /cafes [post]
// @Security BearerAuth
func (h *CafeHandler) HandleCreateCafe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var form request.CafeForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := form.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cafe, err := h.svc.CreateCafe(ctx.Request.Context(), user.ID, form.ToCafe())
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCafe -> h.svc.CreateCafe -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, cafe)
}

// HandleGetCafe godoc
// @Summary      Get a cafe with its prices and modifiers
// @Tags         cafes
// @Produce      json
// @Param        cafeID   path       int  true  "cafe ID"
// @Success      200      {object}   domain.Cafe
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /cafes/{cafeID} [get]
// @Security BearerAuth
func (h *CafeHandler) HandleGetCafe(ctx *gin.Context) {
	cafeID, respErr := parseIDParam(ctx, "cafeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	cafe, err := h.svc.GetCafe(ctx.Request.Context(), cafeID)
	if err != nil {
		if errors.Is(err, service.ErrCafeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("cafe", "ID", cafeID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCafe -> h.svc.GetCafe -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, cafe)
}

// HandleDeleteCafe godoc
// @Summary      Delete a cafe and its prices
// @Description  Runs that went to the cafe are kept without one.
// @Tags         cafes
// @Param        cafeID   path       int  true  "cafe ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /cafes/{cafeID} [delete]
// @Security BearerAuth
func (h *CafeHandler) HandleDeleteCafe(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	cafeID, respErr := parseIDParam(ctx, "cafeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteCafe(ctx.Request.Context(), user.ID, cafeID); err != nil {
		if errors.Is(err, service.ErrCafeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("cafe", "ID", cafeID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteCafe -> h.svc.DeleteCafe -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAddPrice godoc
// @Summary      Add a size price to a cafe
// @Tags         cafes
// @Produce      json
// @Param        request  body       request.PriceForm true "request body"
// @Success      201      {object}   domain.Price
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /prices [post]
// @Security BearerAuth
func (h *CafeHandler) HandleAddPrice(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var form request.PriceForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := form.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	price, err := h.svc.AddPrice(ctx.Request.Context(), user.ID, form.ToPrice())
	if err != nil {
		if errors.Is(err, service.ErrCafeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("cafe", "ID", form.CafeID))
			return
		}
		if errors.Is(err, service.ErrNegativePrice) {
			response.RenderErr(ctx, response.ErrBadRequest(validation.Errors{"amount": err}))
			return
		}

		err = fmt.Errorf("v1.HandleAddPrice -> h.svc.AddPrice -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, price)
}

// HandleAddModifier godoc
// @Summary      Add a surcharge such as soy milk to a cafe
// @Tags         cafes
// @Produce      json
// @Param        request  body       request.PriceModifierForm true "request body"
// @Success      201      {object}   domain.PriceModifier
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /price-modifiers [post]
// @Security BearerAuth
func (h *CafeHandler) HandleAddModifier(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var form request.PriceModifierForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := form.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	mod, err := h.svc.AddModifier(ctx.Request.Context(), user.ID, form.ToModifier())
	if err != nil {
		if errors.Is(err, service.ErrCafeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("cafe", "ID", form.CafeID))
			return
		}
		if errors.Is(err, service.ErrNegativePrice) {
			response.RenderErr(ctx, response.ErrBadRequest(validation.Errors{"amount": err}))
			return
		}

		err = fmt.Errorf("v1.HandleAddModifier -> h.svc.AddModifier -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, mod)
}
