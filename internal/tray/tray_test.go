package tray

import (
	"testing"

	"github.com/mic-monitor/mic-monitor/internal/menu"
	"github.com/mic-monitor/mic-monitor/internal/models"
	"github.com/mic-monitor/mic-monitor/internal/state"
)

func view(def string, names ...string) state.MenuView {
	var sources []models.Source
	for _, n := range names {
		sources = append(sources, models.Source{Name: n})
	}
	return state.MenuView{Registry: models.Registry{Sources: sources, DefaultSource: def}}
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name            string
		view            state.MenuView
		slots           int
		wantDef         string
		wantSources     int
		wantOverflow    int
		wantPlaceholder bool
	}{
		{name: "empty", view: view(""), slots: 4, wantPlaceholder: true},
		{name: "default only", view: view("A", "A"), slots: 4, wantDef: "A"},
		{name: "default and others", view: view("A", "A", "B", "C"), slots: 4, wantDef: "A", wantSources: 2},
		{name: "overflow", view: view("", "A", "B", "C"), slots: 2, wantSources: 2, wantOverflow: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := plan(menu.Build(tt.view), tt.slots)
			gotDef := ""
			if l.def != nil {
				gotDef = l.def.Source
			}
			if gotDef != tt.wantDef {
				t.Errorf("default = %q, want %q", gotDef, tt.wantDef)
			}
			if len(l.sources) != tt.wantSources {
				t.Errorf("sources = %d, want %d", len(l.sources), tt.wantSources)
			}
			if l.overflow != tt.wantOverflow {
				t.Errorf("overflow = %d, want %d", l.overflow, tt.wantOverflow)
			}
			if l.placeholder != tt.wantPlaceholder {
				t.Errorf("placeholder = %v, want %v", l.placeholder, tt.wantPlaceholder)
			}
		})
	}
}

func TestPlanLeftClick(t *testing.T) {
	v := view("")
	v.LeftClickToggle = true
	if l := plan(menu.Build(v), 4); !l.leftClick {
		t.Error("left-click checkbox not checked")
	}
}

type fakeController struct {
	toggled []string
}

func (c *fakeController) Toggle(source string)   { c.toggled = append(c.toggled, source) }
func (c *fakeController) ToggleLeftClick()       {}
func (c *fakeController) Refresh()               {}
func (c *fakeController) Quit()                  {}
func (c *fakeController) Items() []menu.Item     { return nil }
func (c *fakeController) QuickToggle() bool      { return false }
func (c *fakeController) LeftClickEnabled() bool { return false }

func TestSlotClickUsesCurrentEntry(t *testing.T) {
	ctrl := &fakeController{}
	tr := New(ctrl)
	tr.slotEntries[0] = menu.Item{Action: menu.ActionToggleSource, Source: "B", Enabled: true}

	tr.clickSlot(0)
	fn := <-tr.clicks
	fn()

	if len(ctrl.toggled) != 1 || ctrl.toggled[0] != "B" {
		t.Errorf("toggled = %v, want [B]", ctrl.toggled)
	}
}

func TestHiddenSlotClickIgnored(t *testing.T) {
	ctrl := &fakeController{}
	tr := New(ctrl)

	tr.clickSlot(3)
	fn := <-tr.clicks
	fn()

	if len(ctrl.toggled) != 0 {
		t.Errorf("toggled = %v, want none", ctrl.toggled)
	}
}
