package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/tutorconnect-api/internal/domain/entity"
)

// Клиент без реального соединения: проверяем только маршрутизацию через send
func newTestClient(hub *Hub, userID string) *Client {
	return NewClient(hub, nil, userID)
}

func readEvent(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case msg := <-c.send:
		var ev map[string]interface{}
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	default:
		t.Fatalf("Ожидалось сообщение для клиента %s", c.UserID)
		return nil
	}
}

func TestHub_SendToUserDeliversOnlyToRecipient(t *testing.T) {
	hub := NewHub(nil)
	alice := newTestClient(hub, "alice")
	aliceTab := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")
	hub.Register(alice)
	hub.Register(aliceTab)
	hub.Register(bob)
	assert.Equal(t, 3, hub.ClientCount())

	assert.True(t, hub.SendToUser("alice", []byte(`{"type":"X"}`)))
	assert.Len(t, alice.send, 1)
	assert.Len(t, aliceTab.send, 1)
	assert.Len(t, bob.send, 0)

	assert.False(t, hub.SendToUser("carol", []byte(`{}`)))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub, "alice")
	hub.Register(c)

	hub.Unregister(c)
	hub.Unregister(c)

	_, ok := <-c.send
	assert.False(t, ok, "Канал send должен быть закрыт")
	assert.Equal(t, 0, hub.ClientCount())
}

func TestManager_RewardNotifications(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub, "u1")
	hub.Register(c)
	m := NewManager(hub)

	m.NotifyRewardClaimed("u1", &entity.QuizResult{ID: "r1", QuizID: "q1", Score: 90})
	ev := readEvent(t, c)
	assert.Equal(t, REWARD_CLAIMED, ev["type"])

	m.NotifyRewardClaimFailed("u1", "r1", "ledger write failed")
	ev = readEvent(t, c)
	assert.Equal(t, REWARD_CLAIM_FAILED, ev["type"])
}

func TestManager_HandleMessage(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub, "u1")
	hub.Register(c)
	m := NewManager(hub)

	require.NoError(t, m.HandleMessage([]byte(`{"type":"PING"}`), c))
	assert.Equal(t, PONG, readEvent(t, c)["type"])

	require.NoError(t, m.HandleMessage([]byte(`{"type":"UNKNOWN"}`), c))
	assert.Equal(t, SERVER_ERROR, readEvent(t, c)["type"])

	assert.Error(t, m.HandleMessage([]byte(`not json`), c))
}
