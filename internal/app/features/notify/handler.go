package notify

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades /ws requests and runs the per-connection pumps.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler constructs the socket handler. allowedOrigins gates the
// upgrade handshake (CORS middleware does not cover websockets); an
// empty list allows any origin, matching a blank CORS config.
func NewHandler(hub *Hub, allowedOrigins []string, logger *zap.Logger) *Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				return origins[r.Header.Get("Origin")]
			},
		},
		log: logger,
	}
}

// Serve handles GET /ws: upgrade, assign a connection id, and pump
// frames until the peer goes away. The connection only enters the hub
// registry once it sends a join event.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newConn(uuid.NewString(), ws, h.hub, h.log)
	h.log.Info("connection opened", zap.String("conn_id", c.id))

	go c.writePump()
	c.readPump()
}
