package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/ncss/coffeerun/internal/api/handler/v1/request"
	"github.com/ncss/coffeerun/internal/api/handler/v1/response"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
	"github.com/ncss/coffeerun/internal/service"
)

type CoffeeService interface {
	Order(ctx context.Context, personID, runID uint, request string, price decimal.Decimal) (domain.Coffee, error)
	GetCoffee(ctx context.Context, id uint) (domain.Coffee, error)
}

type CoffeeHandler struct {
	svc  CoffeeService
	uSvc UserGetter
	f    *timefmt.Formatter
}

func NewCoffeeHandler(svc CoffeeService, uSvc UserGetter, f *timefmt.Formatter) *CoffeeHandler {
	return &CoffeeHandler{
		svc:  svc,
		uSvc: uSvc,
		f:    f,
	}
}

// HandleOrderCoffee godoc
// @Summary      Order a coffee on an open run
// @Description  coffee is free text such as "large soy flat white, 1 sugar". A positive price overrides the computed one.
// @Tags         coffees
// @Produce      json
// @Param        request  body       request.CoffeeForm true "request body"
// @Success      201      {object}   response.CoffeeResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /coffees [post]
// @Security BearerAuth
func (h *CoffeeHandler) HandleOrderCoffee(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var form request.CoffeeForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := form.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	personID := form.PersonOr(user.ID)
	if respErr = checkPerson(ctx, h.uSvc, personID, user.ID); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	coffee, err := h.svc.Order(ctx.Request.Context(), personID, form.RunID, form.Coffee, form.PriceAmount())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyRequest),
			errors.Is(err, service.ErrUnknownCoffee),
			errors.Is(err, service.ErrTooMuchSugar):
			response.RenderErr(ctx, response.ErrBadRequest(validation.Errors{"coffee": err}))
		case errors.Is(err, service.ErrRunNotFound):
			response.RenderErr(ctx, response.ErrNotFound("run", "ID", form.RunID))
		case errors.Is(err, service.ErrRunClosed):
			response.RenderErr(ctx, response.ErrConflict(err))
		default:
			err = fmt.Errorf("v1.HandleOrderCoffee -> h.svc.Order -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, h.coffeeResponse(coffee))
}

// HandleGetCoffee godoc
// @Summary      Get a coffee order
// @Tags         coffees
// @Produce      json
// @Param        coffeeID path       int  true  "coffee ID"
// @Success      200      {object}   response.CoffeeResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /coffees/{coffeeID} [get]
// @Security BearerAuth
func (h *CoffeeHandler) HandleGetCoffee(ctx *gin.Context) {
	coffeeID, respErr := parseIDParam(ctx, "coffeeID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	coffee, err := h.svc.GetCoffee(ctx.Request.Context(), coffeeID)
	if err != nil {
		if errors.Is(err, service.ErrCoffeeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("coffee", "ID", coffeeID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCoffee -> h.svc.GetCoffee -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, h.coffeeResponse(coffee))
}

func (h *CoffeeHandler) coffeeResponse(c domain.Coffee) response.CoffeeResponse {
	return response.CoffeeResponse{
		Coffee: c.ToJSON(h.f),
		Pretty: c.PrettyPrint(),
	}
}
