package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoomRef(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantPersistent bool
		wantId         uint
		wantKey        string
		wantGeneral    bool
	}{
		{
			name:           "numeric id is persistent",
			raw:            "42",
			wantPersistent: true,
			wantId:         42,
			wantKey:        "42",
		},
		{
			name:           "general room id",
			raw:            "1",
			wantPersistent: true,
			wantId:         1,
			wantKey:        "1",
			wantGeneral:    true,
		},
		{
			name:           "empty falls back to general",
			raw:            "",
			wantPersistent: true,
			wantId:         1,
			wantKey:        "1",
			wantGeneral:    true,
		},
		{
			name:    "non-numeric is ephemeral",
			raw:     "lobby-xyz",
			wantKey: "lobby-xyz",
		},
		{
			name:    "negative number is ephemeral",
			raw:     "-5",
			wantKey: "-5",
		},
		{
			name:    "mixed alphanumeric is ephemeral",
			raw:     "12abc",
			wantKey: "12abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := ParseRoomRef(tt.raw)
			assert.Equal(t, tt.wantPersistent, ref.IsPersistent())
			assert.Equal(t, tt.wantKey, ref.Key())
			assert.Equal(t, tt.wantGeneral, ref.IsGeneral())

			id, ok := ref.ID()
			assert.Equal(t, tt.wantPersistent, ok)
			if ok {
				assert.Equal(t, tt.wantId, id)
			}
		})
	}
}

func TestRoomRefConstructors(t *testing.T) {
	persistent := PersistentRoom(7)
	assert.True(t, persistent.IsPersistent())
	assert.Equal(t, "7", persistent.Key())

	ephemeral := EphemeralRoom("side-channel")
	assert.False(t, ephemeral.IsPersistent())
	assert.Equal(t, "side-channel", ephemeral.Key())
	_, ok := ephemeral.ID()
	assert.False(t, ok)
}
