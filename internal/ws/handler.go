package ws

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yukikurage/project-management-api/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is enforced at the proxy; the API itself
	// accepts any origin, matching the REST endpoints.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated requests to WebSocket connections and
// registers them with the Hub. RequireAuth runs before this handler, so
// an unauthenticated or token-invalid attempt is rejected upstream and
// never registered.
type Handler struct {
	hub *Hub
}

// NewHandler creates a new Handler.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Serve handles GET /ws.
func (h *Handler) Serve(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade failed for user %d: %v", userID, err)
		return
	}

	client := NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
