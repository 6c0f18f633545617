package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordField_Change(t *testing.T) {
	t.Run("accepts typing one character at a time", func(t *testing.T) {
		var f PasswordField
		for _, next := range []string{"s", "se", "sec"} {
			assert.True(t, f.Change(next))
		}
		assert.Equal(t, "sec", f.Value())
	})

	t.Run("discards multi-character insertion", func(t *testing.T) {
		var f PasswordField
		f.Change("a")

		assert.False(t, f.Change("abcdef"))
		assert.Equal(t, "a", f.Value())
	})

	t.Run("accepts deletions of any size", func(t *testing.T) {
		var f PasswordField
		f.Change("a")
		f.Change("ab")

		assert.True(t, f.Change(""))
		assert.Empty(t, f.Value())
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		var f PasswordField

		assert.True(t, f.Change("é"))
	})
}

func TestPasswordField_Allow(t *testing.T) {
	var f PasswordField

	for _, ev := range []ClipboardEvent{EventPaste, EventCopy, EventCut, EventContextMenu} {
		assert.False(t, f.Allow(ev), string(ev))
	}
	assert.True(t, f.Allow("keydown"))
}
