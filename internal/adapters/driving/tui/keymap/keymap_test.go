package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		key     string
		binding func(*KeyMap) bool
	}{
		{"enter sends", "enter", func(k *KeyMap) bool { return Matches("enter", k.Send) }},
		{"ctrl+c quits", "ctrl+c", func(k *KeyMap) bool { return Matches("ctrl+c", k.Quit) }},
		{"esc quits", "esc", func(k *KeyMap) bool { return Matches("esc", k.Quit) }},
		{"ctrl+s summarizes", "ctrl+s", func(k *KeyMap) bool { return Matches("ctrl+s", k.Summarize) }},
		{"ctrl+d lists documents", "ctrl+d", func(k *KeyMap) bool { return Matches("ctrl+d", k.Documents) }},
		{"ctrl+r reloads", "ctrl+r", func(k *KeyMap) bool { return Matches("ctrl+r", k.Reload) }},
		{"pgup scrolls", "pgup", func(k *KeyMap) bool { return Matches("pgup", k.ScrollUp) }},
		{"pgdown scrolls", "pgdown", func(k *KeyMap) bool { return Matches("pgdown", k.ScrollDown) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.binding(km))
		})
	}
}

func TestMatches_NoMatch(t *testing.T) {
	km := DefaultKeyMap()

	assert.False(t, Matches("q", km.Quit), "q must stay typeable in questions")
	assert.False(t, Matches("x", km.Send))
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()

	short := km.ShortHelp()
	assert.Len(t, short, 4)
	assert.Equal(t, "ask", short[0].Help().Desc)

	full := km.FullHelp()
	assert.Len(t, full, 3)
	assert.Len(t, full[0], 4)
}
