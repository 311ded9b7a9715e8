package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ncss/coffeerun/internal/api/handler/v1/response"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
)

type EventService interface {
	Recent(ctx context.Context, limit int) ([]domain.Event, error)
	ByUser(ctx context.Context, userID uint, limit int) ([]domain.Event, error)
	DescribeAll(ctx context.Context, events []domain.Event) []string
}

type EventHandler struct {
	svc EventService
	f   *timefmt.Formatter
}

func NewEventHandler(svc EventService, f *timefmt.Formatter) *EventHandler {
	return &EventHandler{
		svc: svc,
		f:   f,
	}
}

// HandleListEvents godoc
// @Summary      Recent activity, newest first
// @Tags         events
// @Produce      json
// @Param        limit    query      int  false  "max events (default 50)"
// @Param        user     query      int  false  "only events by this user"
// @Success      200      {array}    domain.EventJSON
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid limit: %w", err)))
		return
	}

	var (
		events []domain.Event
		call   string
	)
	if user := ctx.Query("user"); user != "" {
		userID, perr := strconv.ParseUint(user, 10, 64)
		if perr != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid user: %w", perr)))
			return
		}
		call = "h.svc.ByUser"
		events, err = h.svc.ByUser(ctx.Request.Context(), uint(userID), limit)
	} else {
		call = "h.svc.Recent"
		events, err = h.svc.Recent(ctx.Request.Context(), limit)
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> %s -> %w", call, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	descriptions := h.svc.DescribeAll(ctx.Request.Context(), events)
	out := make([]domain.EventJSON, len(events))
	for i, e := range events {
		out[i] = e.ToJSON(h.f, descriptions[i])
	}

	ctx.JSON(http.StatusOK, out)
}
