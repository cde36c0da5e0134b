package websocket

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

// Event представляет структуру WebSocket-сообщения
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Manager обрабатывает входящие сообщения и рассылает события пользователям
type Manager struct {
	hub            HubInterface
	messageHandler map[string]func(data json.RawMessage, client *Client) error
}

// NewManager создает новый менеджер WebSocket
func NewManager(hub HubInterface) *Manager {
	m := &Manager{
		hub:            hub,
		messageHandler: make(map[string]func(data json.RawMessage, client *Client) error),
	}
	m.RegisterHandler(PING, func(data json.RawMessage, client *Client) error {
		return m.SendEventToUser(client.UserID, PONG, nil)
	})
	return m
}

// RegisterHandler регистрирует обработчик для определенного типа сообщений
func (m *Manager) RegisterHandler(eventType string, handler func(data json.RawMessage, client *Client) error) {
	m.messageHandler[eventType] = handler
}

// HandleMessage обрабатывает входящее сообщение от клиента.
// Возвращает error, если соединение нужно закрыть.
func (m *Manager) HandleMessage(message []byte, client *Client) error {
	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("[WebSocketManager] Некорректное сообщение от %s: %v", client.UserID, err)
		m.SendErrorToClient(client, "invalid_message_format", "Invalid JSON format")
		return err
	}

	handler, ok := m.messageHandler[event.Type]
	if !ok {
		m.SendErrorToClient(client, "unknown_message_type", fmt.Sprintf("Unknown message type: %s", event.Type))
		return nil
	}
	return handler(event.Data, client)
}

// SendErrorToClient отправляет сообщение об ошибке клиенту, не закрывая соединение
func (m *Manager) SendErrorToClient(client *Client, code string, message string) {
	errorEvent := Event{
		Type: SERVER_ERROR,
		Data: map[string]string{
			"code":    code,
			"message": message,
		},
	}
	if err := m.hub.SendJSONToUser(client.UserID, errorEvent); err != nil {
		log.Printf("[WebSocketManager] Ошибка отправки ошибки клиенту %s: %v", client.UserID, err)
	}
}

// SendEventToUser отправляет событие конкретному пользователю
func (m *Manager) SendEventToUser(userID string, eventType string, data interface{}) error {
	return m.hub.SendJSONToUser(userID, Event{Type: eventType, Data: data})
}

// NotifyRewardClaimed сообщает пользователю об успешном начислении награды
func (m *Manager) NotifyRewardClaimed(userID string, result *entity.QuizResult) {
	data := map[string]interface{}{
		"result_id": result.ID,
		"quiz_id":   result.QuizID,
		"score":     result.Score,
		"message":   "Blockchain reward claimed successfully!",
	}
	if err := m.SendEventToUser(userID, REWARD_CLAIMED, data); err != nil {
		log.Printf("[WebSocketManager] Ошибка отправки %s пользователю %s: %v", REWARD_CLAIMED, userID, err)
	}
}

// NotifyRewardClaimFailed сообщает пользователю о сбое начисления
func (m *Manager) NotifyRewardClaimFailed(userID, resultID string, reason string) {
	data := map[string]interface{}{
		"result_id": resultID,
		"reason":    reason,
		"message":   "Failed to claim reward. Please try again.",
	}
	if err := m.SendEventToUser(userID, REWARD_CLAIM_FAILED, data); err != nil {
		log.Printf("[WebSocketManager] Ошибка отправки %s пользователю %s: %v", REWARD_CLAIM_FAILED, userID, err)
	}
}
