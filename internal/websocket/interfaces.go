package websocket

import "context"

// HubInterface объединяет возможности хаба, нужные Manager.
type HubInterface interface {
	// SendJSONToUser отправляет структуру JSON конкретному пользователю
	SendJSONToUser(userID string, v interface{}) error

	// SendToUser отправляет байтовое сообщение конкретному пользователю.
	// Возвращает true, если хотя бы одно локальное соединение приняло сообщение.
	SendToUser(userID string, message []byte) bool

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}

// PubSubProvider определяет интерфейс для провайдеров публикации/подписки
type PubSubProvider interface {
	// Publish публикует сообщение в указанный канал
	Publish(ctx context.Context, channel string, message []byte) error

	// Subscribe подписывается на указанный канал и возвращает канал для сообщений
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)

	// Close закрывает все соединения и освобождает ресурсы
	Close() error
}
