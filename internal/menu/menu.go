// Package menu builds the tray menu from a state snapshot and routes clicks.
package menu

import (
	"log"

	"github.com/mic-monitor/mic-monitor/internal/state"
)

// Action identifies what clicking an item does.
type Action int

// Item actions.
const (
	ActionNone Action = iota
	ActionSeparator
	ActionToggleSource
	ActionToggleLeftClick
	ActionRefresh
	ActionQuit
)

// Fixed labels.
const (
	DefaultLabel   = "Default (System Default)"
	NoSourcesLabel = "No sources found"
	LeftClickLabel = "Left-click to toggle"
	RefreshLabel   = "Refresh Sources"
	QuitLabel      = "Quit"
)

// Item is one menu entry. Source is set only for ActionToggleSource.
type Item struct {
	Action    Action
	Source    string
	Label     string
	Checked   bool
	Checkable bool
	Enabled   bool
	Pinned    bool
}

func (a Action) String() string {
	switch a {
	case ActionSeparator:
		return "separator"
	case ActionToggleSource:
		return "toggle-source"
	case ActionToggleLeftClick:
		return "toggle-left-click"
	case ActionRefresh:
		return "refresh"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Build lays out the menu for view. It never touches shared state.
func Build(view state.MenuView) []Item {
	var items []Item
	def := view.Registry.DefaultSource

	if def != "" {
		items = append(items,
			Item{
				Action:    ActionToggleSource,
				Source:    def,
				Label:     DefaultLabel,
				Checked:   view.IsActive(def),
				Checkable: true,
				Enabled:   true,
				Pinned:    true,
			},
			Item{Action: ActionSeparator},
		)
	}

	sources := 0
	for _, src := range view.Registry.Sources {
		if src.Name == def {
			continue
		}
		items = append(items, Item{
			Action:    ActionToggleSource,
			Source:    src.Name,
			Label:     src.Label(),
			Checked:   view.IsActive(src.Name),
			Checkable: true,
			Enabled:   true,
		})
		sources++
	}
	if sources == 0 && def == "" {
		items = append(items, Item{Action: ActionNone, Label: NoSourcesLabel})
	}

	items = append(items,
		Item{Action: ActionSeparator},
		Item{
			Action:    ActionToggleLeftClick,
			Label:     LeftClickLabel,
			Checked:   view.LeftClickToggle,
			Checkable: true,
			Enabled:   true,
		},
		Item{Action: ActionRefresh, Label: RefreshLabel, Enabled: true},
		Item{Action: ActionQuit, Label: QuitLabel, Enabled: true},
	)
	return items
}

// Handlers receives dispatched clicks.
type Handlers interface {
	Toggle(source string)
	ToggleLeftClick()
	Refresh()
	Quit()
}

// Dispatch routes a click on item to h. Disabled items and separators are
// ignored. It reports whether a handler ran.
func Dispatch(h Handlers, item Item) bool {
	if !item.Enabled {
		return false
	}
	switch item.Action {
	case ActionToggleSource:
		if item.Source == "" {
			log.Printf("Warning: [menu] toggle item %q has no source", item.Label)
			return false
		}
		h.Toggle(item.Source)
	case ActionToggleLeftClick:
		h.ToggleLeftClick()
	case ActionRefresh:
		h.Refresh()
	case ActionQuit:
		h.Quit()
	default:
		return false
	}
	return true
}
