package ws

// Типы событий, которые уходят клиентам
const (
	TypeConnected  = "CONNECTED"   // приветствие со снапшотом участников
	TypeUserJoined = "USER_JOINED" // пользователь присоединился
	TypeUserLeft   = "USER_LEFT"   // пользователь покинул комнату
	TypeError      = "ERROR"       // ошибка разбора, только отправителю
	TypeDiceRoll   = "DICE_ROLL"   // клиентский тип с дефолтами полей
)

const (
	defaultCharacterName  = "Unknown Character"
	defaultRollType       = "dice"
	defaultDiceExpression = "Unknown"
)

type connectedMsg struct {
	Type           string   `json:"type"`
	Message        string   `json:"message"`
	UserID         string   `json:"userId"`
	Timestamp      int64    `json:"timestamp"`
	ConnectedUsers []string `json:"connectedUsers"`
}

type presenceMsg struct {
	Type      string `json:"type"`
	UserID    string `json:"userId"`
	Timestamp int64  `json:"timestamp"`
	Room      string `json:"room"`
}

type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// stampEnvelope проставляет серверные поля поверх клиентских.
func stampEnvelope(m map[string]any, userID, room string, ts int64) {
	m["userId"] = userID
	m["room"] = room
	m["timestamp"] = ts
}

// applyDiceDefaults backfills the fields dice clients historically omit.
// A field that is absent or not a non-empty string counts as missing.
func applyDiceDefaults(m map[string]any) {
	if strField(m, "characterName") == "" {
		m["characterName"] = defaultCharacterName
	}
	if strField(m, "rollType") == "" {
		m["rollType"] = defaultRollType
	}
	if strField(m, "diceExpression") == "" {
		// legacy clients send the expression in "roll"
		if roll := strField(m, "roll"); roll != "" {
			m["diceExpression"] = roll
		} else {
			m["diceExpression"] = defaultDiceExpression
		}
	}
}

func strField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
