package render

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"github.com/fogleman/gg"

	"github.com/mic-monitor/mic-monitor/internal/models"
	"github.com/mic-monitor/mic-monitor/internal/state"
)

// IconSize is the edge length of the rendered icon in pixels.
const IconSize = 64

// Variant selects one of the icon's visual states.
type Variant struct {
	Live  bool // body drawn in the active color
	Slash bool // mute slash over the body
	Badge bool // monitoring dot in the corner
}

// VariantFor maps render state to an icon variant.
func VariantFor(s state.RenderState) Variant {
	return Variant{
		Live:  s.AudioActive && !s.Muted,
		Slash: s.Muted,
		Badge: s.Monitoring(),
	}
}

// Icon rasterizes a microphone glyph for v. It is a pure function.
func Icon(v Variant, palette models.ColorsConfig) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))
	dc := gg.NewContextForRGBA(img)

	body := palette.Inactive
	if v.Live {
		body = palette.Active
	}
	dc.SetColor(body)

	// Capsule.
	dc.DrawRoundedRectangle(22, 4, 20, 32, 10)
	dc.Fill()
	// Stand: lower half of an ellipse under the capsule.
	dc.SetLineWidth(4)
	dc.DrawEllipticalArc(32, 34, 18, 12, 0, math.Pi)
	dc.Stroke()
	// Stem and base.
	dc.DrawRectangle(30, 46, 4, 12)
	dc.DrawRectangle(20, 56, 24, 4)
	dc.Fill()

	dc.SetColor(palette.Accent)
	if v.Slash {
		dc.SetLineWidth(4)
		dc.SetLineCapRound()
		dc.DrawLine(44, 4, 20, 38)
		dc.Stroke()
	}
	if v.Badge {
		dc.DrawCircle(54, 10, 8)
		dc.Fill()
	}
	return img
}

// EncodeIcon renders v as PNG bytes for the tray.
func EncodeIcon(v Variant, palette models.ColorsConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Icon(v, palette)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
