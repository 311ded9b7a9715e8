package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ncss/coffeerun/internal/api/handler/v1/request"
	"github.com/ncss/coffeerun/internal/api/handler/v1/response"
	"github.com/ncss/coffeerun/internal/domain"
	"github.com/ncss/coffeerun/internal/export"
	"github.com/ncss/coffeerun/internal/pkg/timefmt"
	"github.com/ncss/coffeerun/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RunService interface {
	CreateRun(ctx context.Context, fetcherID uint, cafeID uint, at time.Time, pickup string) (domain.Run, error)
	GetRun(ctx context.Context, id uint) (domain.Run, error)
	ListRuns(ctx context.Context) ([]domain.Run, error)
	CloseRun(ctx context.Context, userID, id uint, totalCost int) (domain.Run, []domain.MoneyExchange, error)
}

type RunHandler struct {
	svc     RunService
	uSvc    UserGetter
	f       *timefmt.Formatter
	baseURL string
}

// NewRunHandler takes the public base URL, scheme included, that run links
// are built from.
func NewRunHandler(svc RunService, uSvc UserGetter, f *timefmt.Formatter, baseURL string) *RunHandler {
	return &RunHandler{
		svc:     svc,
		uSvc:    uSvc,
		f:       f,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (h *RunHandler) runURL(id uint) string {
	return fmt.Sprintf("%s/api/v1/runs/%d", h.baseURL, id)
}

// HandleListRuns godoc
// @Summary      List runs, open ones first
// @Tags         runs
// @Produce      json
// @Success      200      {array}    domain.RunJSON
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /runs [get]
// @Security BearerAuth
func (h *RunHandler) HandleListRuns(ctx *gin.Context) {
	runs, err := h.svc.ListRuns(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListRuns -> h.svc.ListRuns -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	out := make([]domain.RunJSON, len(runs))
	for i, r := range runs {
		out[i] = r.ToJSON(h.f)
	}

	ctx.JSON(http.StatusOK, out)
}

// HandleCreateRun godoc
// @Summary      Schedule a coffee run
// @Tags         runs
// @Produce      json
// @Param        request  body       request.RunForm true "request body"
// @Success      201      {object}   domain.RunJSON
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /runs [post]
// @Security BearerAuth
func (h *RunHandler) HandleCreateRun(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var form request.RunForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := form.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	at, err := form.ParsedTime(h.f)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	fetcherID := form.PersonOr(user.ID)
	if respErr = checkPerson(ctx, h.uSvc, fetcherID, user.ID); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	run, err := h.svc.CreateRun(ctx.Request.Context(), fetcherID, form.CafeID, at, form.Pickup)
	if err != nil {
		if errors.Is(err, service.ErrCafeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("cafe", "ID", form.CafeID))
			return
		}

		err = fmt.Errorf("v1.HandleCreateRun -> h.svc.CreateRun -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, run.ToJSON(h.f))
}

// HandleGetRun godoc
// @Summary      Get a run with its orders and total
// @Tags         runs
// @Produce      json
// @Param        runID    path       int  true  "run ID"
// @Success      200      {object}   response.RunResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /runs/{runID} [get]
// @Security BearerAuth
func (h *RunHandler) HandleGetRun(ctx *gin.Context) {
	run, ok := h.findRun(ctx, "v1.HandleGetRun")
	if !ok {
		return
	}

	coffees := make([]domain.CoffeeJSON, len(run.Coffees))
	for i, c := range run.Coffees {
		coffees[i] = c.ToJSON(h.f)
	}

	ctx.JSON(http.StatusOK, response.RunResponse{
		Run:     run.ToJSON(h.f),
		Coffees: coffees,
		Total:   run.TotalCost(),
	})
}

// HandleCloseRun godoc
// @Summary      Close a run and settle who owes the fetcher
// @Description  total_cost is what the fetcher actually paid. Leave it blank to charge the listed prices.
// @Tags         runs
// @Produce      json
// @Param        runID    path       int  true  "run ID"
// @Param        request  body       request.CloseRunForm false "request body"
// @Success      200      {object}   response.CloseRunResponse
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /runs/{runID}/close [post]
// @Security BearerAuth
func (h *RunHandler) HandleCloseRun(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	runID, respErr := parseIDParam(ctx, "runID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var form request.CloseRunForm
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&form); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	if err := form.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	run, exchanges, err := h.svc.CloseRun(ctx.Request.Context(), user.ID, runID, form.TotalCents())
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("run", "ID", runID))
			return
		}
		if errors.Is(err, service.ErrRunClosed) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}

		err = fmt.Errorf("v1.HandleCloseRun -> h.svc.CloseRun -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.CloseRunResponse{
		Run:       run.ToJSON(h.f),
		Exchanges: exchanges,
	})
}

// HandleExportOrders godoc
// @Summary      Download a run's orders as a spreadsheet
// @Tags         runs
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        runID    path       int  true  "run ID"
// @Success      200      {file}     file
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /runs/{runID}/orders.xlsx [get]
// @Security BearerAuth
func (h *RunHandler) HandleExportOrders(ctx *gin.Context) {
	run, ok := h.findRun(ctx, "v1.HandleExportOrders")
	if !ok {
		return
	}

	buf, err := export.RunOrders(run, h.f)
	if err != nil {
		err = fmt.Errorf("v1.HandleExportOrders -> export.RunOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="run-%d-orders.xlsx"`, run.ID))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// HandleRunQR godoc
// @Summary      QR code linking to a run so people can add their order
// @Tags         runs
// @Produce      png
// @Param        runID    path       int  true  "run ID"
// @Success      200      {file}     file
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /runs/{runID}/qr.png [get]
// @Security BearerAuth
func (h *RunHandler) HandleRunQR(ctx *gin.Context) {
	run, ok := h.findRun(ctx, "v1.HandleRunQR")
	if !ok {
		return
	}

	png, err := qrcode.Encode(h.runURL(run.ID), qrcode.Medium, 256)
	if err != nil {
		err = fmt.Errorf("v1.HandleRunQR -> qrcode.Encode -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Data(http.StatusOK, "image/png", png)
}

func (h *RunHandler) findRun(ctx *gin.Context, op string) (domain.Run, bool) {
	runID, respErr := parseIDParam(ctx, "runID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return domain.Run{}, false
	}

	run, err := h.svc.GetRun(ctx.Request.Context(), runID)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("run", "ID", runID))
			return domain.Run{}, false
		}

		err = fmt.Errorf("%s -> h.svc.GetRun -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return domain.Run{}, false
	}

	return run, true
}
