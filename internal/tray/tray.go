package tray

import (
	"log"
	"sync"

	"github.com/energye/systray"

	"github.com/mic-monitor/mic-monitor/internal/menu"
	"github.com/mic-monitor/mic-monitor/internal/render"
	"github.com/mic-monitor/mic-monitor/internal/state"
)

const (
	maxSourceSlots = 16
	clickQueueSize = 32
)

// Tray is the system tray surface. It implements render.Sink.
type Tray struct {
	ctrl    Controller
	onStart func()
	onExit  func()

	// Pre-allocated menu slots
	defaultItem   *systray.MenuItem
	sourceSlots   [maxSourceSlots]*systray.MenuItem
	noSourcesItem *systray.MenuItem
	leftClickItem *systray.MenuItem
	refreshItem   *systray.MenuItem
	quitItem      *systray.MenuItem

	// Maps slot → menu item for click dispatch
	slotMu       sync.RWMutex
	ready        bool
	defaultEntry menu.Item
	slotEntries  [maxSourceSlots]menu.Item

	clicks   chan func()
	overflow bool
}

// New creates a tray for ctrl.
func New(ctrl Controller) *Tray {
	return &Tray{
		ctrl:   ctrl,
		clicks: make(chan func(), clickQueueSize),
	}
}

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStart is called once the menu exists; onExit when the tray exits.
func (t *Tray) Run(onStart, onExit func()) {
	t.onStart = onStart
	t.onExit = onExit
	systray.Run(t.onReady, t.onQuit)
}

// Quit signals the tray to exit.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("mic-monitor")
	systray.SetTooltip(render.Title(state.RenderState{}))

	t.defaultItem = systray.AddMenuItemCheckbox(menu.DefaultLabel, "Monitor the system default source", false)
	t.defaultItem.Hide()
	systray.AddSeparator()

	for i := range t.sourceSlots {
		t.sourceSlots[i] = systray.AddMenuItemCheckbox("", "", false)
		t.sourceSlots[i].Hide()
	}
	t.noSourcesItem = systray.AddMenuItem(menu.NoSourcesLabel, "")
	t.noSourcesItem.Disable()
	t.noSourcesItem.Hide()

	systray.AddSeparator()

	t.leftClickItem = systray.AddMenuItemCheckbox(menu.LeftClickLabel, "Left-click the icon to toggle monitoring", false)
	t.refreshItem = systray.AddMenuItem(menu.RefreshLabel, "Re-scan input sources")
	t.quitItem = systray.AddMenuItem(menu.QuitLabel, "Unload loopbacks and quit")

	t.defaultItem.Click(func() { t.clickDefault() })
	for i := range t.sourceSlots {
		slot := i
		t.sourceSlots[i].Click(func() { t.clickSlot(slot) })
	}
	t.leftClickItem.Click(func() { t.enqueue(t.ctrl.ToggleLeftClick) })
	t.refreshItem.Click(func() { t.enqueue(t.ctrl.Refresh) })
	t.quitItem.Click(func() { t.enqueue(t.ctrl.Quit) })

	systray.SetOnClick(func(m systray.IMenu) {
		if !t.ctrl.LeftClickEnabled() {
			if m != nil {
				m.ShowMenu()
			}
			return
		}
		t.enqueue(func() { t.ctrl.QuickToggle() })
	})
	systray.SetOnRClick(func(m systray.IMenu) {
		if m != nil {
			m.ShowMenu()
		}
	})

	go t.dispatch()

	t.slotMu.Lock()
	t.ready = true
	t.slotMu.Unlock()

	if t.onStart != nil {
		t.onStart()
	}
}

func (t *Tray) onQuit() {
	if t.onExit != nil {
		t.onExit()
	}
}

// dispatch runs clicks one at a time off the tray's event thread.
func (t *Tray) dispatch() {
	for fn := range t.clicks {
		fn()
	}
}

func (t *Tray) enqueue(fn func()) {
	select {
	case t.clicks <- fn:
	default:
		log.Println("Warning: [tray] click queue full, dropping click")
	}
}

func (t *Tray) clickDefault() {
	t.slotMu.RLock()
	item := t.defaultEntry
	t.slotMu.RUnlock()
	t.enqueue(func() { menu.Dispatch(t.ctrl, item) })
}

func (t *Tray) clickSlot(slot int) {
	t.slotMu.RLock()
	item := t.slotEntries[slot]
	t.slotMu.RUnlock()
	t.enqueue(func() { menu.Dispatch(t.ctrl, item) })
}

// Update draws frame and rewrites the menu slots.
func (t *Tray) Update(frame render.Frame) {
	t.slotMu.RLock()
	ready := t.ready
	t.slotMu.RUnlock()
	if !ready {
		return
	}

	if len(frame.Icon) > 0 {
		systray.SetIcon(frame.Icon)
	}
	systray.SetTooltip(frame.Title)
	t.updateMenu(plan(t.ctrl.Items(), maxSourceSlots))
}

func (t *Tray) updateMenu(l layout) {
	t.slotMu.Lock()
	t.defaultEntry = menu.Item{}
	if l.def != nil {
		t.defaultEntry = *l.def
	}
	for i := range t.slotEntries {
		t.slotEntries[i] = menu.Item{}
	}
	copy(t.slotEntries[:], l.sources)
	t.slotMu.Unlock()

	if l.overflow > 0 && !t.overflow {
		t.overflow = true
		log.Printf("Warning: [tray] %d source(s) do not fit in the menu", l.overflow)
	}

	if l.def != nil {
		setChecked(t.defaultItem, l.def.Checked)
		t.defaultItem.Show()
	} else {
		t.defaultItem.Hide()
	}

	for i, slot := range t.sourceSlots {
		if i >= len(l.sources) {
			slot.Hide()
			continue
		}
		slot.SetTitle(l.sources[i].Label)
		setChecked(slot, l.sources[i].Checked)
		slot.Show()
	}

	if l.placeholder {
		t.noSourcesItem.Show()
	} else {
		t.noSourcesItem.Hide()
	}
	setChecked(t.leftClickItem, l.leftClick)
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}
