package state

import (
	"sync"
	"testing"

	"github.com/mic-monitor/mic-monitor/internal/models"
)

func TestRenderStateSnapshotIsAtomic(t *testing.T) {
	s := NewStore()

	// The writer only ever publishes muted == audioActive, in one critical
	// section. A torn read would observe them differing.
	const rounds = 20000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			v := i%2 == 0
			s.mu.Lock()
			s.muted = v
			s.audioActive = v
			s.mu.Unlock()
		}
	}()

	torn := 0
	readers := 4
	var rmu sync.Mutex
	wg.Add(readers)
	for r := 0; r < readers; r++ {
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				st := s.RenderState()
				if st.Muted != st.AudioActive {
					rmu.Lock()
					torn++
					rmu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if torn != 0 {
		t.Errorf("observed %d torn snapshots", torn)
	}
}

func TestConcurrentFlagWriters(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.SetMuted(i%2 == 0)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.SetAudioActive(i%3 == 0)
		}
	}()
	wg.Wait()

	// Last writes: i=999 -> muted=false, 999%3==0 -> active=true.
	st := s.RenderState()
	if st.Muted || !st.AudioActive {
		t.Errorf("RenderState() = %+v, want Muted=false AudioActive=true", st)
	}
}

func TestSetFlagsReportChange(t *testing.T) {
	s := NewStore()
	if s.SetMuted(false) {
		t.Error("SetMuted(false) on fresh store reported a change")
	}
	if !s.SetMuted(true) {
		t.Error("SetMuted(true) did not report a change")
	}
	if s.SetMuted(true) {
		t.Error("repeated SetMuted(true) reported a change")
	}
	if !s.SetAudioActive(true) || s.SetAudioActive(true) {
		t.Error("SetAudioActive change reporting is wrong")
	}
}

func TestActiveModules(t *testing.T) {
	s := NewStore()
	s.SetActiveModule("A", 42)
	s.SetActiveModule("B", 43)

	if id, ok := s.ActiveModule("A"); !ok || id != 42 {
		t.Errorf("ActiveModule(A) = %d, %v", id, ok)
	}

	snapshot := s.ActiveModules()
	snapshot["C"] = 1
	if _, ok := s.ActiveModule("C"); ok {
		t.Error("ActiveModules returned an aliased map")
	}

	if s.RemoveActiveModuleIf("A", 99) {
		t.Error("RemoveActiveModuleIf removed an entry with a different id")
	}
	if !s.RemoveActiveModuleIf("A", 42) {
		t.Error("RemoveActiveModuleIf did not remove a matching entry")
	}

	old := s.ClearActiveModules()
	if len(old) != 1 || old["B"] != 43 {
		t.Errorf("ClearActiveModules() = %v", old)
	}
	if st := s.RenderState(); st.ActiveCount != 0 || st.Monitoring() {
		t.Errorf("RenderState() after clear = %+v", st)
	}
}

func TestMenuViewIsACopy(t *testing.T) {
	s := NewStore()
	s.SetRegistry(models.Registry{
		Sources:       []models.Source{{Name: "A", Description: "Mic A"}},
		DefaultSource: "A",
	})
	s.SetActiveModule("A", 1)
	s.SetLeftClickToggle(true)

	v := s.MenuView()
	if !v.IsActive("A") || !v.LeftClickToggle || v.Registry.DefaultSource != "A" {
		t.Fatalf("MenuView() = %+v", v)
	}

	v.Active["B"] = 2
	v.Registry.Sources[0].Name = "changed"
	if _, ok := s.ActiveModule("B"); ok {
		t.Error("MenuView.Active aliases the store")
	}
	if s.Registry().Sources[0].Name != "A" {
		t.Error("MenuView.Registry aliases the store")
	}

	if s.FlipLeftClickToggle() {
		t.Error("FlipLeftClickToggle() = true, want false")
	}
	q := s.QuickToggleView()
	if q.Enabled || !q.AnyActive || q.DefaultSource != "A" {
		t.Errorf("QuickToggleView() = %+v", q)
	}
}
