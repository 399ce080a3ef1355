package watch

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log"
	"math"

	"github.com/mic-monitor/mic-monitor/internal/capture"
	"github.com/mic-monitor/mic-monitor/internal/state"
)

// Stream is a running capture of raw s16le mono PCM.
type Stream interface {
	io.Reader
	Stop()
}

// StartFunc starts a capture stream.
type StartFunc func() (Stream, error)

// ActivityWatcher samples the default source and flags audio above a
// threshold.
type ActivityWatcher struct {
	start     StartFunc
	store     *state.Store
	render    Renderer
	threshold float64
}

// NewActivityWatcher creates an ActivityWatcher.
func NewActivityWatcher(start StartFunc, store *state.Store, render Renderer, threshold float64) *ActivityWatcher {
	return &ActivityWatcher{start: start, store: store, render: render, threshold: threshold}
}

// RMS returns the root mean square of samples, 0 for none.
func RMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Active reports whether samples are loud enough to count as audio.
func Active(samples []int16, threshold float64) bool {
	return RMS(samples) > threshold
}

// decode converts little-endian s16 bytes into dst, dropping an odd
// trailing byte.
func decode(b []byte, dst []int16) []int16 {
	n := len(b) / 2
	if cap(dst) < n {
		dst = make([]int16, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = int16(binary.LittleEndian.Uint16(b[2*i:]))
	}
	return dst
}

// Run reads the stream chunk by chunk until EOF or cancellation. The
// activity flag is false again when Run returns.
func (w *ActivityWatcher) Run(ctx context.Context) {
	stream, err := w.start()
	if err != nil {
		if errors.Is(err, capture.ErrToolMissing) {
			log.Printf("Warning: [watch] %v; audio activity indicator disabled", err)
		} else {
			log.Printf("Warning: [watch] failed to start audio capture: %v", err)
		}
		return
	}

	finished := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			stream.Stop()
		case <-finished:
		}
	}()
	defer func() {
		close(finished)
		stream.Stop()
		if w.store.SetAudioActive(false) {
			w.render.Render()
		}
	}()

	buf := make([]byte, capture.ChunkBytes)
	samples := make([]int16, capture.ChunkBytes/2)
	for {
		n, err := io.ReadFull(stream, buf)
		if n > 0 && ctx.Err() == nil {
			samples = decode(buf[:n], samples)
			if len(samples) > 0 && w.store.SetAudioActive(Active(samples, w.threshold)) {
				w.render.Render()
			}
		}
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				log.Printf("Warning: [watch] audio capture read failed: %v", err)
			}
			return
		}
	}
}
