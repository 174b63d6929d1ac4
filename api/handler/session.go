package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/studyspot/backend/api/transport"
	"github.com/studyspot/backend/domain"
	"github.com/studyspot/backend/pkg/httpcontext"
	sessionUC "github.com/studyspot/backend/usecase/session"
)

type SessionHandler struct {
	baseHandler
	machine *sessionUC.Machine
}

func NewSessionHandler(machine *sessionUC.Machine, adapter *httpcontext.Adapter, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		machine:     machine,
	}
}

// @Summary Current prompt state machine snapshot
// @Tags session
// @Router /api/v1/session [get]
func (h *SessionHandler) Snapshot(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.machine.Snapshot(stdCtx, sessionID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, session)
}

// @Summary Report device coordinates and run a proximity scan
// @Tags session
// @Router /api/v1/session/location [post]
func (h *SessionHandler) UpdateLocation(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		return
	}

	// A malformed body counts as "position unavailable", same as a device
	// that declined geolocation. The session drops to Idle instead of
	// erroring out.
	var position *domain.Coordinates
	var req transport.LocationUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err == nil {
		if req.Latitude != nil && req.Longitude != nil {
			position = &domain.Coordinates{
				Latitude:  *req.Latitude,
				Longitude: *req.Longitude,
			}
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.machine.UpdateLocation(stdCtx, sessionID, position)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, session)
}

// @Summary Answer the active prompt with a crowd level
// @Tags session
// @Router /api/v1/session/report [post]
func (h *SessionHandler) SubmitReport(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		return
	}

	var req transport.ReportRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	crowd, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, buffered, err := h.machine.SubmitReport(stdCtx, sessionID, crowd)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if buffered {
		// Queued, not yet recorded; the client may show a pending state.
		h.respondJSON(ctx, http.StatusAccepted, transport.NewSuccess(session, map[string]bool{"buffered": true}))
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, session)
}
