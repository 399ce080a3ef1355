package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mic-monitor/mic-monitor/internal/models"
	"github.com/mic-monitor/mic-monitor/internal/render"
)

// fakeGateway is an in-memory sound server with sources A and B.
type fakeGateway struct {
	mu        sync.Mutex
	nextID    int
	loaded    map[int]string
	failUnld  bool
	unloadAll int
	listed    int

	// hang, when set, makes UnloadAllLoopbacks block until ctx is done.
	hang    bool
	hanging chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{nextID: 42, loaded: make(map[int]string)}
}

func (g *fakeGateway) ListInputSources(ctx context.Context) []string {
	g.mu.Lock()
	g.listed++
	g.mu.Unlock()
	return []string{"A", "B"}
}

func (g *fakeGateway) DescribeSources(ctx context.Context) map[string]string {
	return map[string]string{"A": "Mic A"}
}

func (g *fakeGateway) DefaultSource(ctx context.Context) string { return "A" }

func (g *fakeGateway) SourceMuted(ctx context.Context, source string) bool { return false }

func (g *fakeGateway) EnableLoopback(ctx context.Context, source string) (int, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.loaded[id] = source
	return id, true
}

func (g *fakeGateway) DisableLoopback(ctx context.Context, id int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failUnld {
		return false
	}
	delete(g.loaded, id)
	return true
}

func (g *fakeGateway) UnloadAllLoopbacks(ctx context.Context) bool {
	g.mu.Lock()
	g.unloadAll++
	hang := g.hang
	g.mu.Unlock()
	if hang {
		close(g.hanging)
		<-ctx.Done()
		return false
	}
	return true
}

func (g *fakeGateway) listCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listed
}

func (g *fakeGateway) setFailUnload(v bool) {
	g.mu.Lock()
	g.failUnld = v
	g.mu.Unlock()
}

type recordingSink struct {
	mu     sync.Mutex
	frames []render.Frame
}

func (s *recordingSink) Update(f render.Frame) {
	s.mu.Lock()
	s.frames = append(s.frames, f)
	s.mu.Unlock()
}

func (s *recordingSink) last() render.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return render.Frame{}
	}
	return s.frames[len(s.frames)-1]
}

func newTestApp(t *testing.T, gw *fakeGateway, saved *[]models.Prefs) (*App, *recordingSink) {
	t.Helper()
	a := New(Options{
		Gateway: gw,
		SavePrefs: func(p *models.Prefs) error {
			if saved != nil {
				*saved = append(*saved, *p)
			}
			return nil
		},
		MuteInterval:    time.Hour,
		DeviceDir:       t.TempDir(),
		RefreshInterval: time.Hour,
		ShutdownTimeout: 2 * time.Second,
	})
	sink := &recordingSink{}
	a.SetSink(sink)
	return a, sink
}

func TestEndToEndToggle(t *testing.T) {
	gw := newFakeGateway()
	a, sink := newTestApp(t, gw, nil)
	a.Start(context.Background())
	defer a.Shutdown()

	if gw.unloadAll != 1 {
		t.Errorf("stale cleanup ran %d times, want 1", gw.unloadAll)
	}
	reg := a.Store().Registry()
	if len(reg.Sources) != 2 || reg.DefaultSource != "A" {
		t.Fatalf("registry = %+v", reg)
	}
	if got := sink.last().Title; got != "Monitoring: OFF" {
		t.Errorf("title after start = %q, want %q", got, "Monitoring: OFF")
	}

	a.Toggle("A")
	if id, ok := a.Store().ActiveModule("A"); !ok || id != 42 {
		t.Fatalf("ActiveModule(A) = %d, %v, want 42, true", id, ok)
	}
	f := sink.last()
	if f.Title != "Monitoring: ON (1 active)" {
		t.Errorf("title = %q, want %q", f.Title, "Monitoring: ON (1 active)")
	}
	if v := render.VariantFor(f.State); v.Live || !v.Badge {
		t.Errorf("variant = %+v, want grey body with badge", v)
	}

	a.Toggle("A")
	if n := len(a.Store().ActiveModules()); n != 0 {
		t.Errorf("map has %d entries, want 0", n)
	}
	if got := sink.last().Title; got != "Monitoring: OFF" {
		t.Errorf("title = %q, want %q", got, "Monitoring: OFF")
	}
}

func TestShutdownEmptiesMapOnFailure(t *testing.T) {
	gw := newFakeGateway()
	var saved []models.Prefs
	a, sink := newTestApp(t, gw, &saved)
	a.Start(context.Background())

	a.Toggle("A")
	a.Toggle("B")
	gw.setFailUnload(true)

	a.Shutdown()
	a.Shutdown()

	if n := len(a.Store().ActiveModules()); n != 0 {
		t.Errorf("map has %d entries after shutdown", n)
	}
	if got := sink.last().Title; got != "Monitoring: OFF" {
		t.Errorf("title = %q, want %q", got, "Monitoring: OFF")
	}
	if len(saved) != 1 {
		t.Errorf("prefs saved %d times, want 1", len(saved))
	}

	// No enables after shutdown.
	gw.setFailUnload(false)
	a.Toggle("A")
	if _, ok := a.Store().ActiveModule("A"); ok {
		t.Error("Toggle enabled a source after Shutdown")
	}
}

func TestLeftClickPreference(t *testing.T) {
	gw := newFakeGateway()
	var saved []models.Prefs
	a, _ := newTestApp(t, gw, &saved)
	a.Start(context.Background())
	defer a.Shutdown()

	if a.QuickToggle() {
		t.Fatal("QuickToggle acted with the preference off")
	}

	a.ToggleLeftClick()
	if !a.Store().LeftClickToggle() {
		t.Fatal("preference not flipped")
	}
	if len(saved) != 1 || !saved[0].LeftClickToggle {
		t.Errorf("saved = %+v, want one save with LeftClickToggle", saved)
	}

	if !a.QuickToggle() {
		t.Fatal("QuickToggle did not act")
	}
	if _, ok := a.Store().ActiveModule("A"); !ok {
		t.Error("QuickToggle did not monitor the default source")
	}

	a.QuickToggle()
	if n := len(a.Store().ActiveModules()); n != 0 {
		t.Errorf("second QuickToggle left %d active", n)
	}
}

func TestPrefsRestored(t *testing.T) {
	a := New(Options{Gateway: newFakeGateway(), Prefs: &models.Prefs{Version: 1, LeftClickToggle: true}})
	if !a.Store().LeftClickToggle() {
		t.Error("left-click preference not restored")
	}
}

func TestItems(t *testing.T) {
	gw := newFakeGateway()
	a, _ := newTestApp(t, gw, nil)
	a.Start(context.Background())
	defer a.Shutdown()

	var labels []string
	for _, it := range a.Items() {
		if it.Label != "" {
			labels = append(labels, it.Label)
		}
	}
	want := []string{"Default (System Default)", "B", "Left-click to toggle", "Refresh Sources", "Quit"}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestQuit(t *testing.T) {
	a := New(Options{Gateway: newFakeGateway()})
	a.Quit()
	a.Quit()
	select {
	case <-a.QuitRequested():
	default:
		t.Error("QuitRequested not closed")
	}
}

func TestShutdownDuringStart(t *testing.T) {
	gw := newFakeGateway()
	gw.hang = true
	gw.hanging = make(chan struct{})
	a, _ := newTestApp(t, gw, nil)

	started := make(chan struct{})
	go func() {
		defer close(started)
		a.Start(context.Background())
	}()

	select {
	case <-gw.hanging:
	case <-time.After(2 * time.Second):
		t.Fatal("Start never reached the stale cleanup")
	}
	a.Shutdown()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
	if n := gw.listCalls(); n != 0 {
		t.Errorf("ListInputSources called %d times after Shutdown, want 0", n)
	}

	// A late Start is a no-op.
	a.Start(context.Background())
	if n := gw.listCalls(); n != 0 {
		t.Errorf("Start after Shutdown listed sources %d times", n)
	}
}

func TestStartShutdownConcurrent(t *testing.T) {
	for i := 0; i < 20; i++ {
		a, _ := newTestApp(t, newFakeGateway(), nil)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			a.Start(context.Background())
		}()
		go func() {
			defer wg.Done()
			a.Shutdown()
		}()
		wg.Wait()
		a.Shutdown()
	}
}

func TestStartContextCancelStopsWatchers(t *testing.T) {
	a, _ := newTestApp(t, newFakeGateway(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watchers still running after ctx was cancelled")
	}
	a.Shutdown()
}
