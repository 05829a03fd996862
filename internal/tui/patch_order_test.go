package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestPatchOrderModel(t *testing.T) {
	press := func(m tea.Model, keys ...string) patchOrderModel {
		for _, k := range keys {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
		return m.(patchOrderModel)
	}

	t.Run("moves the selected patch", func(t *testing.T) {
		m := press(newPatchOrderModel([]string{"a", "b", "c"}), "J", "J")
		require.Equal(t, []string{"b", "c", "a"}, m.patches)
		require.Equal(t, 2, m.cursor)

		m = press(m, "k", "K")
		require.Equal(t, []string{"c", "b", "a"}, m.patches)
		require.Equal(t, 0, m.cursor)
	})

	t.Run("stays within bounds", func(t *testing.T) {
		m := press(newPatchOrderModel([]string{"a", "b"}), "k", "K", "j", "j", "J")
		require.Equal(t, []string{"a", "b"}, m.patches)
		require.Equal(t, 1, m.cursor)
	})

	t.Run("does not touch the input slice", func(t *testing.T) {
		in := []string{"a", "b"}
		press(newPatchOrderModel(in), "J")
		require.Equal(t, []string{"a", "b"}, in)
	})

	t.Run("cancel", func(t *testing.T) {
		m := press(newPatchOrderModel([]string{"a"}), "q")
		require.True(t, m.canceled)
	})

	t.Run("view lists every patch", func(t *testing.T) {
		view := newPatchOrderModel([]string{"first", "second"}).View()
		require.Contains(t, view, "first")
		require.Contains(t, view, "second")
	})
}
