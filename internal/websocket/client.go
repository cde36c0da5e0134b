package websocket

import (
	"bytes"
	"fmt"
	"log"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время, которое разрешено писать сообщение клиенту.
	writeWait = 10 * time.Second

	// Время, которое разрешено клиенту читать следующее сообщение.
	pongWait = 30 * time.Second

	// Периодичность отправки ping-сообщений клиенту.
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения
	maxMessageSize = 512

	// Размер буфера канала отправки сообщений клиенту
	defaultClientBufferSize = 32
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

// Client является посредником между WebSocket соединением и hub.
type Client struct {
	// ID пользователя
	UserID string

	// Уникальный ID для каждого соединения
	ConnectionID string

	hub  *Hub
	conn *websocket.Conn

	// Буферизованный канал для исходящих сообщений
	send chan []byte

	// Флаг, указывающий что канал send закрыт
	sendClosed atomic.Bool
}

// NewClient создает нового клиента
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		UserID:       userID,
		ConnectionID: uuid.NewString(),
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, defaultClientBufferSize),
	}
}

func (c *Client) closeSend() {
	if c.sendClosed.CompareAndSwap(false, true) {
		close(c.send)
	}
}

// readPump читает сообщения от клиента и передает их обработчику
func (c *Client) readPump(messageHandler func(message []byte, client *Client) error) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[WSClient] Ошибка чтения (UserID: %s, ConnID: %s): %v", c.UserID, c.ConnectionID, err)
			}
			return
		}

		if handlerErr := safeHandleMessage(message, c, messageHandler); handlerErr != nil {
			log.Printf("[WSClient] Ошибка обработчика (UserID: %s, ConnID: %s): %v. Закрываем соединение.", c.UserID, c.ConnectionID, handlerErr)
			return
		}
	}
}

// safeHandleMessage - обертка для вызова обработчика с recover
func safeHandleMessage(message []byte, client *Client, messageHandler func(message []byte, client *Client) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WSClient] PANIC в обработчике для UserID: %s, ConnID: %s. Panic: %v\n%s",
				client.UserID, client.ConnectionID, r, string(debug.Stack()))
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	message = bytes.TrimSpace(bytes.Replace(message, newline, space, -1))
	if messageHandler != nil {
		err = messageHandler(message, client)
	}
	return err
}

// writePump отправляет сообщения клиенту из канала send
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Хаб закрыл канал клиента
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WSClient] Ошибка записи (UserID: %s, ConnID: %s): %v", c.UserID, c.ConnectionID, err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// StartPumps регистрирует клиента в хабе и запускает горутины чтения и записи
func (c *Client) StartPumps(messageHandler func(message []byte, client *Client) error) {
	if c.UserID == "" {
		log.Printf("[WSClient] Клиент без UserID, соединение закрыто")
		c.conn.Close()
		return
	}

	c.hub.Register(c)
	go c.writePump()
	go c.readPump(messageHandler)
}
