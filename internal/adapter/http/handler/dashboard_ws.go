package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/taxi-pulse/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/taxi-pulse/internal/domain/models"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
	"github.com/Temutjin2k/taxi-pulse/pkg/metrics"
	"github.com/Temutjin2k/taxi-pulse/pkg/uuid"
	"github.com/Temutjin2k/taxi-pulse/pkg/validator"
	ws "github.com/Temutjin2k/taxi-pulse/pkg/wsHub"
)

// Websocket message types.
const (
	wsTypeFilter = "filter"
	wsTypeView   = "view"
	wsTypeError  = "error"

	wsTypeDatasetRefreshed = "dataset_refreshed"
)

// DashboardWS pushes recomputed views to connected dashboard clients. Each
// client sends filter messages and receives the matching view; dataset
// refreshes are broadcast to everyone.
type DashboardWS struct {
	hub     *ws.ConnectionHub
	service DashboardService

	upgrader websocket.Upgrader
	log      logger.Logger
}

func NewDashboardWS(hub *ws.ConnectionHub, service DashboardService, log logger.Logger) *DashboardWS {
	return &DashboardWS{
		hub:     hub,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard clients come from anywhere; auth is not this layer's job.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Handle godoc
// @Summary      Dashboard WebSocket
// @Description  Bidirectional channel: filter messages in, recomputed views out
// @Tags         Dashboard
// @Router       /ws/dashboard [get]
func (h *DashboardWS) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "dashboard_ws")

	clientID, err := uuid.New()
	if err != nil {
		h.log.Error(ctx, "failed to issue client id", err)
		internalErrorResponse(w, "the server encountered a problem")
		return
	}
	ctx = wrap.WithClientID(ctx, clientID.String())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(ctx, "websocket upgrade failed", err)
		return
	}

	c := ws.NewConn(ctx, clientID, conn)
	if err := h.hub.Add(c); err != nil {
		h.log.Error(ctx, "failed to register connection", err)
		c.Close()
		return
	}

	metrics.WebSocketConnectionsGauge.WithLabelValues("dashboard").Inc()
	h.log.Info(ctx, "dashboard client connected")

	defer func() {
		metrics.WebSocketConnectionsGauge.WithLabelValues("dashboard").Dec()
		if err := h.hub.Delete(clientID); err != nil {
			h.log.Warn(ctx, "failed to remove connection", "error", err.Error())
		}
		h.log.Info(ctx, "dashboard client disconnected")
	}()

	err = c.Listen(func(msg map[string]any) error {
		h.handleMessage(wrap.WithAction(ctx, "dashboard_ws_message"), c, msg)
		return nil
	})
	if err != nil {
		h.log.Debug(ctx, "listen finished", "reason", err.Error())
	}
}

func (h *DashboardWS) handleMessage(ctx context.Context, c *ws.Conn, msg map[string]any) {
	msgType, _ := msg["type"].(string)
	if msgType != wsTypeFilter {
		h.sendError(ctx, c, "unsupported message type")
		return
	}

	var fm dto.FilterMessage
	if raw, err := json.Marshal(msg["filter"]); err == nil {
		if err := json.Unmarshal(raw, &fm); err != nil {
			h.sendError(ctx, c, "malformed filter payload")
			return
		}
	}

	v := validator.New()
	f := fm.ToSpec(v)
	if !v.Valid() {
		h.sendError(ctx, c, v.Errors)
		return
	}

	view, err := h.service.View(ctx, f)
	if err != nil {
		h.log.Error(ctx, "ws view failed", err)
		h.sendError(ctx, c, err.Error())
		return
	}

	resp, err := toMap(dto.NewViewResponse(view))
	if err != nil {
		h.log.Error(ctx, "failed to encode view", err)
		h.sendError(ctx, c, "the server encountered a problem")
		return
	}

	if err := c.Send(map[string]any{"type": wsTypeView, "view": resp}); err != nil {
		h.log.Warn(ctx, "failed to push view", "error", err.Error())
	}
}

// BroadcastRefresh notifies every connected client that the dataset changed.
// Registered as a refresh callback, so it must not block.
func (h *DashboardWS) BroadcastRefresh(event models.RefreshEvent) {
	msg, err := toMap(event)
	if err != nil {
		return
	}
	go h.hub.Broadcast(map[string]any{"type": wsTypeDatasetRefreshed, "event": msg})
}

func (h *DashboardWS) sendError(ctx context.Context, c *ws.Conn, message any) {
	if err := c.Send(map[string]any{"type": wsTypeError, "error": message}); err != nil {
		h.log.Warn(ctx, "failed to send error message", "error", err.Error())
	}
}

// toMap преобразует структуру в map через JSON.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
