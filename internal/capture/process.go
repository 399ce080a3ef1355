// Package capture runs parecord and exposes its raw PCM stream.
package capture

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"
)

// ErrToolMissing is returned when the capture binary is not installed.
var ErrToolMissing = errors.New("capture tool not found")

const (
	// DefaultBinary is the PulseAudio recorder.
	DefaultBinary = "parecord"
	// SampleRate of the captured stream in Hz.
	SampleRate = 8000
	// ChunkBytes is 100ms of s16le mono at SampleRate.
	ChunkBytes = SampleRate / 10 * 2
	// StopGrace is how long Stop waits after SIGTERM before killing.
	StopGrace = 2 * time.Second
)

// Recorder starts capture processes.
type Recorder struct {
	Binary      string
	LatencyMsec int
	Grace       time.Duration
}

// NewRecorder returns a Recorder with the default binary and timings.
func NewRecorder() *Recorder {
	return &Recorder{Binary: DefaultBinary, LatencyMsec: 100, Grace: StopGrace}
}

// Args returns the command line passed to the binary.
func (r *Recorder) Args() []string {
	latency := r.LatencyMsec
	if latency <= 0 {
		latency = 100
	}
	return []string{
		"--raw",
		"--channels=1",
		"--format=s16le",
		"--rate=" + strconv.Itoa(SampleRate),
		"--latency-msec=" + strconv.Itoa(latency),
	}
}

// Start launches the recorder on the default source.
func (r *Recorder) Start() (*Process, error) {
	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolMissing, bin)
	}
	return start(exec.Command(bin, r.Args()...), r.Grace)
}

// Process is a running capture subprocess.
type Process struct {
	cmd   *exec.Cmd
	out   io.ReadCloser
	grace time.Duration

	done     chan struct{}
	exitErr  error
	stopOnce sync.Once
}

func start(cmd *exec.Cmd, grace time.Duration) (*Process, error) {
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open capture pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrToolMissing, err)
		}
		return nil, fmt.Errorf("failed to start capture: %w", err)
	}
	if grace <= 0 {
		grace = StopGrace
	}

	p := &Process{
		cmd:   cmd,
		out:   out,
		grace: grace,
		done:  make(chan struct{}),
	}
	go p.wait()
	return p, nil
}

// wait reaps the child without closing the stdout pipe, so bytes it wrote
// before exiting stay readable until the reader sees EOF.
func (p *Process) wait() {
	state, err := p.cmd.Process.Wait()
	if err == nil && !state.Success() {
		err = &exec.ExitError{ProcessState: state}
	}
	p.exitErr = err
	close(p.done)
}

// Read reads raw PCM from the subprocess.
func (p *Process) Read(b []byte) (int, error) {
	return p.out.Read(b)
}

// Stop sends SIGTERM, waits up to the grace period, then kills.
// Safe to call multiple times.
func (p *Process) Stop() {
	p.stopOnce.Do(func() {
		if p.cmd.Process == nil {
			return
		}
		select {
		case <-p.done:
			return
		default:
		}

		_ = p.cmd.Process.Signal(syscall.SIGTERM)
		select {
		case <-p.done:
			return
		case <-time.After(p.grace):
		}

		log.Printf("Warning: [capture] %s did not exit after SIGTERM, killing", p.cmd.Path)
		_ = p.cmd.Process.Kill()
		<-p.done
	})
	_ = p.out.Close()
}

// Done returns a channel that is closed when the process exits.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// ExitErr returns the process exit error (nil if exited cleanly).
func (p *Process) ExitErr() error {
	<-p.done
	return p.exitErr
}
