package help

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"

	"github.com/nhle/planner/internal/keys"
)

func TestViewListsBindings(t *testing.T) {
	sort := key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sorted/manual order"))
	m := New(keys.DefaultKeyMap(), 120, 40, sort)

	out := m.View()
	for _, want := range []string{"Keyboard Shortcuts", "undo delete", "next month", "sorted/manual order"} {
		if !strings.Contains(out, want) {
			t.Errorf("help view missing %q", want)
		}
	}
}
