package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/studyspot/backend/api/transport"
	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/pkg/httpcontext"
	"github.com/studyspot/backend/repository"
	"github.com/studyspot/backend/usecase/proximity"
	statusUC "github.com/studyspot/backend/usecase/status"
)

type LocationHandler struct {
	baseHandler
	locations    repository.LocationRepository
	engine       *proximity.Engine
	aggregator   *statusUC.Aggregator
	reportsLimit int
}

func NewLocationHandler(
	locations repository.LocationRepository,
	engine *proximity.Engine,
	aggregator *statusUC.Aggregator,
	reportsLimit int,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) *LocationHandler {
	return &LocationHandler{
		baseHandler:  newBaseHandler(adapter, logger),
		locations:    locations,
		engine:       engine,
		aggregator:   aggregator,
		reportsLimit: reportsLimit,
	}
}

type locationListResponse struct {
	Locations []domain.Location            `json:"locations"`
	Distances []proximity.LocationDistance `json:"distances,omitempty"`
	Nearest   *proximity.Candidate         `json:"nearest,omitempty"`
}

// @Summary List study spots with cached statuses
// @Tags locations
// @Router /api/v1/locations [get]
func (h *LocationHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	locations, err := h.locations.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	resp := locationListResponse{Locations: locations}

	// Optional device position enriches the list with distances and the
	// nearest-spot hint for the map view.
	if position, ok := parsePosition(ctx); ok {
		distances, err := h.engine.Distances(stdCtx, position)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		nearest, err := h.engine.Nearest(stdCtx, position)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		resp.Distances = distances
		resp.Nearest = nearest
	}

	h.respondSuccess(ctx, http.StatusOK, resp)
}

// @Summary Cached status per location
// @Tags locations
// @Router /api/v1/statuses [get]
func (h *LocationHandler) Statuses(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	statuses, err := h.aggregator.AllStatuses(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, statuses)
}

// @Summary Recent reports for a location, newest first
// @Tags locations
// @Router /api/v1/locations/{id}/reports [get]
func (h *LocationHandler) Reports(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing location id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.locations.GetByID(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}

	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), h.reportsLimit)
	reports, err := h.aggregator.RecentReports(stdCtx, id, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, reports)
}

func parsePosition(ctx *fasthttp.RequestCtx) (domain.Coordinates, bool) {
	latRaw := string(ctx.QueryArgs().Peek("lat"))
	lonRaw := string(ctx.QueryArgs().Peek("lon"))
	if latRaw == "" || lonRaw == "" {
		return domain.Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Latitude: lat, Longitude: lon}, true
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
