package websocket

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
)

// WebSocketHandler upgrades connections and feeds the hub. Connected UIs use
// the change feed to keep their local view caches fresh without polling.
type WebSocketHandler struct {
	db  *gorm.DB
	hub *Hub
	log *zap.Logger
}

func NewWebSocketHandler(db *gorm.DB, log *zap.Logger) *WebSocketHandler {
	hub := NewHub(log)
	go hub.Run()

	return &WebSocketHandler{
		db:  db,
		hub: hub,
		log: log,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	var profileID string
	role := models.RoleViewer

	tokenString := c.Query("token")
	if tokenString != "" {
		jwtSecret := os.Getenv("JWT_SECRET")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("método de firma inesperado: %v", token.Header["alg"])
			}

			return []byte(jwtSecret), nil
		})

		if err == nil && token.Valid {
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				if id, ok := claims["id"].(string); ok {
					profileID = id
				}
				if r, ok := claims["role"].(string); ok {
					role = models.Role(r)
				}
			}
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("no se pudo establecer la conexión WebSocket", zap.Error(err))
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		profileID: profileID,
		role:      role,
	}

	go client.HandleClientConnection()
}

// NotifyDataEvent pushes an entity-change event to every connected client.
// All operators see the same collections, so data changes are not scoped.
func (h *WebSocketHandler) NotifyDataEvent(event string, payload interface{}) {
	h.hub.BroadcastToAll("data_event", DataEvent{
		Event:   event,
		Payload: payload,
	})
}

// NotifySystemEvent pushes an operational notice, optionally to admins only.
func (h *WebSocketHandler) NotifySystemEvent(event SystemEvent, adminOnly bool) {
	if adminOnly {
		h.hub.BroadcastToAdmins("system_event", event)
		return
	}
	h.hub.BroadcastToAll("system_event", event)
}

func (h *WebSocketHandler) GetHub() *Hub {
	return h.hub
}
