package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDiceDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want map[string]any
	}{
		{
			name: "everything missing",
			in:   map[string]any{"type": TypeDiceRoll},
			want: map[string]any{
				"characterName":  "Unknown Character",
				"rollType":       "dice",
				"diceExpression": "Unknown",
			},
		},
		{
			name: "legacy roll field fills diceExpression",
			in:   map[string]any{"type": TypeDiceRoll, "roll": "2d6"},
			want: map[string]any{
				"characterName":  "Unknown Character",
				"rollType":       "dice",
				"diceExpression": "2d6",
			},
		},
		{
			name: "present fields untouched",
			in: map[string]any{
				"type":           TypeDiceRoll,
				"characterName":  "Gimli",
				"rollType":       "damage",
				"diceExpression": "1d8+2",
			},
			want: map[string]any{
				"characterName":  "Gimli",
				"rollType":       "damage",
				"diceExpression": "1d8+2",
			},
		},
		{
			name: "empty strings count as missing",
			in: map[string]any{
				"type":           TypeDiceRoll,
				"characterName":  "",
				"diceExpression": "",
			},
			want: map[string]any{
				"characterName":  "Unknown Character",
				"rollType":       "dice",
				"diceExpression": "Unknown",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applyDiceDefaults(tt.in)
			for k, v := range tt.want {
				assert.Equal(t, v, tt.in[k], k)
			}
		})
	}
}

func TestStampEnvelopeOverridesClientFields(t *testing.T) {
	m := map[string]any{"type": "CHAT", "userId": "liar", "room": "elsewhere"}
	stampEnvelope(m, "A", "table-1", 42)

	assert.Equal(t, "A", m["userId"])
	assert.Equal(t, "table-1", m["room"])
	assert.EqualValues(t, 42, m["timestamp"])
}
