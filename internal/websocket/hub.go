package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ClusterMessage представляет сообщение, передаваемое между экземплярами Hub
type ClusterMessage struct {
	RecipientID string          `json:"recipient_id"`
	InstanceID  string          `json:"instance_id"`
	Payload     json.RawMessage `json:"payload"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Hub хранит подключения по пользователям и доставляет им сообщения.
// При наличии PubSubProvider сообщения для пользователей доставляются и через другие экземпляры.
type Hub struct {
	instanceID string

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	pubsub PubSubProvider
}

// NewHub создает хаб. pubsub может быть nil для одиночного режима.
func NewHub(pubsub PubSubProvider) *Hub {
	if pubsub == nil {
		pubsub = &NoOpPubSub{}
	}
	return &Hub{
		instanceID: uuid.NewString(),
		clients:    make(map[string]map[*Client]struct{}),
		pubsub:     pubsub,
	}
}

// InstanceID возвращает уникальный ID этого экземпляра хаба
func (h *Hub) InstanceID() string {
	return h.instanceID
}

// Run слушает канал кластера и доставляет сообщения от других экземпляров до отмены ctx
func (h *Hub) Run(ctx context.Context) error {
	msgs, err := h.pubsub.Subscribe(ctx, NotificationChannel)
	if err != nil {
		return err
	}
	for raw := range msgs {
		var msg ClusterMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[Hub] Некорректное сообщение кластера: %v", err)
			continue
		}
		if msg.InstanceID == h.instanceID {
			continue
		}
		h.deliverLocal(msg.RecipientID, msg.Payload)
	}
	return nil
}

// Register добавляет клиента
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	log.Printf("[Hub] Клиент подключен: UserID=%s, ConnID=%s", c.UserID, c.ConnectionID)
}

// Unregister удаляет клиента и закрывает его канал отправки
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, exists := set[c]; !exists {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	c.closeSend()
	log.Printf("[Hub] Клиент отключен: UserID=%s, ConnID=%s", c.UserID, c.ConnectionID)
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) deliverLocal(userID string, message []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := false
	for c := range h.clients[userID] {
		select {
		case c.send <- message:
			delivered = true
		default:
			log.Printf("[Hub] Буфер клиента переполнен, сообщение отброшено: UserID=%s, ConnID=%s", userID, c.ConnectionID)
		}
	}
	return delivered
}

// SendToUser доставляет сообщение локальным соединениям пользователя и публикует его для других экземпляров
func (h *Hub) SendToUser(userID string, message []byte) bool {
	delivered := h.deliverLocal(userID, message)

	envelope, err := json.Marshal(ClusterMessage{
		RecipientID: userID,
		InstanceID:  h.instanceID,
		Payload:     message,
		Timestamp:   time.Now(),
	})
	if err != nil {
		log.Printf("[Hub] Ошибка сериализации сообщения кластера: %v", err)
		return delivered
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.pubsub.Publish(ctx, NotificationChannel, envelope); err != nil {
		log.Printf("[Hub] Ошибка публикации уведомления для %s: %v", userID, err)
	}
	return delivered
}

// SendJSONToUser отправляет структуру JSON конкретному пользователю
func (h *Hub) SendJSONToUser(userID string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.SendToUser(userID, data)
	return nil
}
