package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
	wrap "github.com/Temutjin2k/taxi-pulse/pkg/logger/wrapper"
	"github.com/Temutjin2k/taxi-pulse/pkg/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub хранит и управляет всеми активными WebSocket соединениями
type ConnectionHub struct {
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add добавляет новое соединение в хаб.
// Если соединение с этим clientID уже существует — оно закрывается.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "add_ws_connection")

	if existing, ok := h.clients[newConn.clientID]; ok {
		h.l.Warn(ctx,
			"replacing existing connection",
			"client_id", existing.clientID,
		)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx,
				"failed to close existing conn",
				"client_id", existing.clientID,
				"err", err.Error(),
			)
		}
	}

	h.clients[newConn.clientID] = newConn

	return nil
}

// Delete удаляет и закрывает соединение по ID
func (h *ConnectionHub) Delete(clientID uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "ws_connection_delete")

	conn, ok := h.clients[clientID]
	if !ok {
		h.l.Warn(ctx,
			"delete called for unknown client",
			"client_id", clientID,
		)
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		h.l.Warn(ctx,
			"failed to close connection",
			"client_id", clientID,
			"err", err.Error(),
		)
	}
	delete(h.clients, clientID)

	return nil
}

// GetConn возвращает соединение по ID
func (h *ConnectionHub) GetConn(clientID uuid.UUID) (*Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[clientID]
	if !ok {
		return nil, ErrConnIsNotFound
	}
	return conn, nil
}

// Count возвращает число активных соединений
func (h *ConnectionHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast отправляет сообщение всем активным клиентам.
// Мертвые соединения удаляются по пути.
func (h *ConnectionHub) Broadcast(msg map[string]any) {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.clients))
	for _, c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "ws_broadcast")

	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			h.l.Debug(ctx,
				"dropping dead connection on broadcast",
				"client_id", c.clientID,
				"err", err.Error(),
			)
			_ = h.Delete(c.clientID)
		}
	}
}

// CloseAll закрывает все соединения (graceful shutdown)
func (h *ConnectionHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		_ = c.Close()
		delete(h.clients, id)
	}
}
