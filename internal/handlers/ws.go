package handlers

import (
	"log"
	"net/http"

	"quiz-master-backend/internal/services"
	"quiz-master-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const maxFrameSize = 64 << 10

// Dispatcher accepts events for the game loop.
type Dispatcher interface {
	Dispatch(ev services.Event) bool
}

type WSHandler struct {
	hub      *ws.Hub
	game     Dispatcher
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *ws.Hub, game Dispatcher, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:  hub,
		game: game,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// HandleWebSocket godoc
// @Summary      Game connection for hosts and players
// @Description  Every connection gets its own id. Frames are JSON {type, data}.
// @Tags         websocket
// @Router       /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	conn.SetReadLimit(maxFrameSize)

	connID := uuid.NewString()
	h.hub.AddConnection(connID, conn)
	defer func() {
		h.game.Dispatch(services.Event{Kind: services.EventDisconnect, ConnID: connID})
		h.hub.RemoveConnection(connID)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		ev, err := decodeEvent(connID, raw)
		if err != nil {
			h.hub.Send(connID, ws.WSMessage{
				Type: services.MsgError,
				Data: map[string]string{"code": "bad_request", "message": err.Error()},
			})
			continue
		}
		if !h.game.Dispatch(ev) {
			break
		}
	}
}
