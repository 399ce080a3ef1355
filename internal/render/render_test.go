package render

import (
	"bytes"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/mic-monitor/mic-monitor/internal/models"
	"github.com/mic-monitor/mic-monitor/internal/state"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		st   state.RenderState
		want string
	}{
		{state.RenderState{}, "Monitoring: OFF"},
		{state.RenderState{Muted: true, AudioActive: true}, "Monitoring: OFF"},
		{state.RenderState{ActiveCount: 1}, "Monitoring: ON (1 active)"},
		{state.RenderState{ActiveCount: 3, Muted: true}, "Monitoring: ON (3 active)"},
	}
	for _, tt := range tests {
		if got := Title(tt.st); got != tt.want {
			t.Errorf("Title(%+v) = %q, want %q", tt.st, got, tt.want)
		}
	}
}

func TestVariantFor(t *testing.T) {
	tests := []struct {
		name string
		st   state.RenderState
		want Variant
	}{
		{name: "idle", st: state.RenderState{}, want: Variant{}},
		{name: "audio", st: state.RenderState{AudioActive: true}, want: Variant{Live: true}},
		{name: "audio but muted", st: state.RenderState{AudioActive: true, Muted: true}, want: Variant{Slash: true}},
		{name: "monitoring silent", st: state.RenderState{ActiveCount: 1}, want: Variant{Badge: true}},
		{name: "monitoring live", st: state.RenderState{ActiveCount: 2, AudioActive: true}, want: Variant{Live: true, Badge: true}},
		{name: "everything", st: state.RenderState{ActiveCount: 1, AudioActive: true, Muted: true}, want: Variant{Slash: true, Badge: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VariantFor(tt.st); got != tt.want {
				t.Errorf("VariantFor(%+v) = %+v, want %+v", tt.st, got, tt.want)
			}
		})
	}
}

func TestIconColors(t *testing.T) {
	palette := models.NewSettings().Colors

	// (32,20) is inside the capsule, (54,10) is the badge center.
	tests := []struct {
		name      string
		v         Variant
		wantBody  color.RGBA
		wantBadge bool
	}{
		{name: "grey", v: Variant{}, wantBody: palette.Inactive},
		{name: "green", v: Variant{Live: true}, wantBody: palette.Active},
		{name: "badge", v: Variant{Badge: true}, wantBody: palette.Inactive, wantBadge: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := Icon(tt.v, palette)
			if got := img.RGBAAt(32, 20); got != tt.wantBody {
				t.Errorf("body pixel = %v, want %v", got, tt.wantBody)
			}
			badge := img.RGBAAt(54, 10) == palette.Accent
			if badge != tt.wantBadge {
				t.Errorf("badge drawn = %v, want %v", badge, tt.wantBadge)
			}
			if corner := img.RGBAAt(0, 63); corner.A != 0 {
				t.Errorf("corner pixel = %v, want transparent", corner)
			}
		})
	}
}

func TestIconSlash(t *testing.T) {
	palette := models.NewSettings().Colors
	// Midpoint of the slash segment (44,4)-(20,38).
	if got := Icon(Variant{Slash: true}, palette).RGBAAt(32, 21); got != palette.Accent {
		t.Errorf("slash pixel = %v, want %v", got, palette.Accent)
	}
	if got := Icon(Variant{}, palette).RGBAAt(32, 21); got == palette.Accent {
		t.Error("slash drawn when not muted")
	}
}

func TestIconStand(t *testing.T) {
	palette := models.NewSettings().Colors
	img := Icon(Variant{}, palette)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{name: "lower arc", x: 20, y: 42, want: true},
		{name: "upper arc left blank", x: 20, y: 24, want: false},
		{name: "stem", x: 32, y: 52, want: true},
		{name: "base", x: 22, y: 58, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := img.RGBAAt(tt.x, tt.y) == palette.Inactive
			if got != tt.want {
				t.Errorf("pixel (%d,%d) is body = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestEncodeIcon(t *testing.T) {
	data, err := EncodeIcon(Variant{Badge: true}, models.NewSettings().Colors)
	if err != nil {
		t.Fatalf("EncodeIcon: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != IconSize || b.Dy() != IconSize {
		t.Errorf("icon bounds = %v", b)
	}
}

type recordingSink struct {
	mu     sync.Mutex
	frames []Frame
}

func (s *recordingSink) Update(f Frame) {
	s.mu.Lock()
	s.frames = append(s.frames, f)
	s.mu.Unlock()
}

func TestTriggerRender(t *testing.T) {
	store := state.NewStore()
	trig := NewTrigger(store, models.NewSettings().Colors)

	// No sink attached yet: must not panic.
	trig.Render()

	sink := &recordingSink{}
	trig.SetSink(sink)

	trig.Render()
	store.SetActiveModule("A", 42)
	trig.Render()

	if len(sink.frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(sink.frames))
	}
	if sink.frames[0].Title != "Monitoring: OFF" {
		t.Errorf("frame 0 title = %q", sink.frames[0].Title)
	}
	if sink.frames[1].Title != "Monitoring: ON (1 active)" || sink.frames[1].State.ActiveCount != 1 {
		t.Errorf("frame 1 = %+v", sink.frames[1])
	}
	if len(sink.frames[1].Icon) == 0 {
		t.Error("frame icon is empty")
	}
}

func TestTriggerConcurrentRendersAreConsistent(t *testing.T) {
	store := state.NewStore()
	trig := NewTrigger(store, models.NewSettings().Colors)
	sink := &recordingSink{}
	trig.SetSink(sink)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				store.SetMuted((i+j)%2 == 0)
				store.SetAudioActive(j%3 == 0)
				trig.Render()
			}
		}(i)
	}
	wg.Wait()

	for _, f := range sink.frames {
		if f.Title != Title(f.State) {
			t.Fatalf("frame title %q does not match its state %+v", f.Title, f.State)
		}
	}
}
