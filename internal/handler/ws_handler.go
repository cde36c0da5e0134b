package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/tutorconnect-api/internal/middleware"
	"github.com/yourusername/tutorconnect-api/internal/websocket"
)

// WSHandler обрабатывает WebSocket соединения для уведомлений
type WSHandler struct {
	hub      *websocket.Hub
	manager  *websocket.Manager
	upgrader gorillaws.Upgrader
}

// NewWSHandler создает новый обработчик WebSocket.
// allowedOrigins синхронизирован с настройками CORS.
func NewWSHandler(hub *websocket.Hub, manager *websocket.Manager, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &WSHandler{
		hub:     hub,
		manager: manager,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Пустой Origin - не браузерный клиент
				if origin == "" {
					return true
				}
				if _, ok := allowed[origin]; ok {
					return true
				}
				log.Printf("[WSHandler] Отклонен origin: %s", origin)
				return false
			},
		},
	}
}

// HandleConnection поднимает WebSocket после проверки тикета в RequireWSTicket
func (h *WSHandler) HandleConnection(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		log.Printf("[WSHandler] Ошибка апгрейда соединения для %s: %v", userID, err)
		return
	}

	client := websocket.NewClient(h.hub, conn, userID)
	client.StartPumps(h.manager.HandleMessage)
	log.Printf("[WSHandler] Пользователь %s подключен (%s)", userID, client.ConnectionID)
}
