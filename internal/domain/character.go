package domain

import (
	"encoding/json"
	"time"
)

// Character хранится как JSONB-блоб; структуру листа определяет клиент.
type Character struct {
	ID        string          `db:"id"`
	Name      string          `db:"name"`
	Data      json.RawMessage `db:"data"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}
