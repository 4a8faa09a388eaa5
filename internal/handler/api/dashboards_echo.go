package api

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	models "SteelPulse/internal/domain/models"
	"SteelPulse/internal/service/annotate"
	"SteelPulse/internal/service/eia"
	"SteelPulse/internal/service/metrics"
	"SteelPulse/internal/service/routes"
	"SteelPulse/internal/service/stream"
	"SteelPulse/internal/usecase"
	xhttp "SteelPulse/pkg/http"
	xlogger "SteelPulse/pkg/logger"
)

// DashboardsHandler exposes the dashboard HTTP API: route mix, market
// proxies, oil production, the annotated overlay, event windows, manual
// event CRUD and the WebSocket refresh feed.
type DashboardsHandler struct {
	logger  *xlogger.Logger
	overlay *usecase.OverlayBuilder
	markets *usecase.MarketsViewer
	routes  *routes.Loader
	oil     *eia.Client
	hub     *stream.Hub
}

func NewDashboardsHandler(
	logger *xlogger.Logger,
	overlay *usecase.OverlayBuilder,
	marketsView *usecase.MarketsViewer,
	routesLoader *routes.Loader,
	oil *eia.Client,
	hub *stream.Hub,
) *DashboardsHandler {
	metrics.Register()
	return &DashboardsHandler{
		logger:  logger,
		overlay: overlay,
		markets: marketsView,
		routes:  routesLoader,
		oil:     oil,
		hub:     hub,
	}
}

func (h *DashboardsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/routes", h.Routes)
	g.GET("/markets", h.Markets)
	g.GET("/oil", h.Oil)
	g.GET("/overlay", h.Overlay)
	g.GET("/window", h.Window)
	g.GET("/events", h.ListEvents)
	g.POST("/events", h.UpsertEvent)
	g.DELETE("/events", h.DeleteEvent)
	e.GET("/ws", h.Stream)
}

func (h *DashboardsHandler) observe(endpoint string, start time.Time) {
	metrics.DashboardLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *DashboardsHandler) Routes(c echo.Context) error {
	defer h.observe("routes", time.Now())

	mix, err := h.routes.Load(c.Request().Context())
	if err != nil {
		h.logger.Error("routes load error", xlogger.Error(err))
		metrics.DashboardErrors.WithLabelValues("routes").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=3600")
	return xhttp.SuccessResponse(c, mix)
}

func (h *DashboardsHandler) Markets(c echo.Context) error {
	defer h.observe("markets", time.Now())

	req := &models.MarketsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.markets.Snapshot(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("markets usecase error", xlogger.Error(err))
		metrics.DashboardErrors.WithLabelValues("markets").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, snap)
}

func (h *DashboardsHandler) Oil(c echo.Context) error {
	defer h.observe("oil", time.Now())

	pts, err := h.oil.FetchProduction(c.Request().Context())
	if err != nil {
		h.logger.Error("oil usecase error", xlogger.Error(err))
		metrics.DashboardErrors.WithLabelValues("oil").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, models.Series{Name: "US crude production (Mbbl/d)", Points: pts})
}

func (h *DashboardsHandler) Overlay(c echo.Context) error {
	defer h.observe("overlay", time.Now())

	req := &models.OverlayRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.overlay.Build(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("overlay usecase error", xlogger.Error(err))
		metrics.DashboardErrors.WithLabelValues("overlay").Inc()
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardsHandler) Window(c echo.Context) error {
	defer h.observe("window", time.Now())

	req := &models.WindowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.overlay.Window(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("window usecase error", xlogger.Error(err))
		metrics.DashboardErrors.WithLabelValues("window").Inc()
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardsHandler) ListEvents(c echo.Context) error {
	defer h.observe("events_list", time.Now())

	req := &models.ListEventsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	events, err := h.overlay.ListEvents(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("list events error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, events)
}

func (h *DashboardsHandler) UpsertEvent(c echo.Context) error {
	defer h.observe("events_upsert", time.Now())

	req := &models.UpsertEventRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	e, err := h.overlay.UpsertEvent(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("upsert event error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, e)
}

func (h *DashboardsHandler) DeleteEvent(c echo.Context) error {
	defer h.observe("events_delete", time.Now())

	req := &models.DeleteEventRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.overlay.DeleteEvent(c.Request().Context(), req); err != nil {
		h.logger.Error("delete event error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}

func (h *DashboardsHandler) Stream(c echo.Context) error {
	return h.hub.ServeWS(c.Response(), c.Request())
}

// domainError maps annotation core errors to 400s; everything else is a 500.
func (h *DashboardsHandler) domainError(c echo.Context, err error) error {
	if errors.Is(err, annotate.ErrUnsortedReference) || errors.Is(err, annotate.ErrNegativeRadius) {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	return xhttp.AppErrorResponse(c, err)
}
