// Package tray implements the system tray icon and menu.
package tray

import "github.com/mic-monitor/mic-monitor/internal/menu"

// Controller is what the tray drives. Menu clicks go through menu.Dispatch.
type Controller interface {
	menu.Handlers
	Items() []menu.Item
	QuickToggle() bool
	LeftClickEnabled() bool
}

// layout is a menu mapped onto the pre-allocated slots.
type layout struct {
	def         *menu.Item
	sources     []menu.Item
	overflow    int
	placeholder bool
	leftClick   bool
}

// plan assigns items to slots. Sources past maxSlots are counted in
// overflow and not shown.
func plan(items []menu.Item, maxSlots int) layout {
	var l layout
	for i := range items {
		it := items[i]
		switch it.Action {
		case menu.ActionToggleSource:
			if it.Pinned {
				l.def = &it
				continue
			}
			if len(l.sources) == maxSlots {
				l.overflow++
				continue
			}
			l.sources = append(l.sources, it)
		case menu.ActionNone:
			l.placeholder = true
		case menu.ActionToggleLeftClick:
			l.leftClick = it.Checked
		}
	}
	return l
}
