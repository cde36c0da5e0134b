package websocket

// Типы сообщений о наградах
const (
	// REWARD_CLAIMED сообщает об успешном начислении награды
	REWARD_CLAIMED = "REWARD_CLAIMED"

	// REWARD_CLAIM_FAILED сообщает о сбое начисления
	REWARD_CLAIM_FAILED = "REWARD_CLAIM_FAILED"
)

// Служебные типы сообщений
const (
	// PING - проверка соединения со стороны клиента
	PING = "PING"

	// PONG - ответ на PING
	PONG = "PONG"

	// SERVER_ERROR - ошибка обработки сообщения клиента
	SERVER_ERROR = "server:error"
)
