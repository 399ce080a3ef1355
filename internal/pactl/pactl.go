// Package pactl is the gateway to the PulseAudio/PipeWire control tool.
//
// Every operation spawns one short-lived pactl process with its own timeout
// and degrades to a documented zero value on failure: a missing binary, a
// timeout, a non-zero exit or unparseable output never reach the caller as
// an error. The package holds no state shared with the rest of the program.
package pactl

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds every pactl invocation.
const DefaultTimeout = 5 * time.Second

// LoopbackModule is the module loaded to route a source to the default sink.
const LoopbackModule = "module-loopback"

// Options configures a Client.
type Options struct {
	Binary      string        // defaults to "pactl"
	Timeout     time.Duration // defaults to DefaultTimeout
	LatencyMsec int           // module-loopback latency_msec, defaults to 1
	Runner      Runner        // defaults to ExecRunner
}

// Client issues pactl commands.
type Client struct {
	bin         string
	timeout     time.Duration
	latencyMsec int
	runner      Runner

	missingLogged atomic.Bool
}

// New creates a Client.
func New(opts Options) *Client {
	c := &Client{
		bin:         opts.Binary,
		timeout:     opts.Timeout,
		latencyMsec: opts.LatencyMsec,
		runner:      opts.Runner,
	}
	if c.bin == "" {
		c.bin = "pactl"
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.latencyMsec <= 0 {
		c.latencyMsec = 1
	}
	if c.runner == nil {
		c.runner = ExecRunner{}
	}
	return c
}

// run executes pactl with args. ok is false on any failure, which has
// already been logged.
func (c *Client) run(ctx context.Context, args ...string) (out string, ok bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.runner.Run(ctx, c.bin, args...)
	if err != nil {
		c.logFailure(err)
		return "", false
	}
	return string(data), true
}

// runErr is run for callers that need to inspect the failure.
func (c *Client) runErr(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.runner.Run(ctx, c.bin, args...)
	return string(data), err
}

func (c *Client) logFailure(err error) {
	switch {
	case errors.Is(err, ErrToolMissing):
		if c.missingLogged.CompareAndSwap(false, true) {
			log.Printf("Warning: %s not found. Install pipewire-pulse or pulseaudio-utils.", c.bin)
		}
	case errors.Is(err, ErrTimeout):
		log.Printf("Warning: [pactl] %v", err)
	case errors.Is(err, context.Canceled):
		// Shutdown in progress.
	default:
		log.Printf("[pactl] %v", err)
	}
}

// ListInputSources returns the names of capture sources, excluding monitor
// pseudo-sources. Empty on failure.
func (c *Client) ListInputSources(ctx context.Context) []string {
	out, ok := c.run(ctx, "list", "short", "sources")
	if !ok {
		return nil
	}
	return FilterInputSources(ParseShortSources(out))
}

// DescribeSources maps source names to human-readable descriptions.
// Empty on failure.
func (c *Client) DescribeSources(ctx context.Context) map[string]string {
	out, ok := c.run(ctx, "list", "sources")
	if !ok {
		return map[string]string{}
	}
	return ParseDescriptions(out)
}

// DefaultSource returns the system default source, or "" when unknown.
func (c *Client) DefaultSource(ctx context.Context) string {
	out, ok := c.run(ctx, "get-default-source")
	if !ok {
		return ""
	}
	return strings.TrimSpace(out)
}

// SourceMuted reports the mute state of source. It asks get-source-mute
// first and falls back to scanning the full source listing when that fails
// or prints something unexpected. Unknown resolves to false.
func (c *Client) SourceMuted(ctx context.Context, source string) bool {
	if source == "" {
		return false
	}

	if out, err := c.runErr(ctx, "get-source-mute", source); err == nil {
		if muted, ok := ParseMute(out); ok {
			return muted
		}
	} else if errors.Is(err, ErrToolMissing) {
		c.logFailure(err)
		return false
	}

	out, ok := c.run(ctx, "list", "sources")
	if !ok {
		return false
	}
	muted, _ := MuteFromListing(out, source)
	return muted
}

// EnableLoopback loads a loopback module from source to the default sink and
// returns its module id. ok is false on failure.
func (c *Client) EnableLoopback(ctx context.Context, source string) (id int, ok bool) {
	out, ok := c.run(ctx, "load-module", LoopbackModule,
		"latency_msec="+strconv.Itoa(c.latencyMsec),
		"source="+source,
	)
	if !ok {
		return 0, false
	}
	id, ok = ParseModuleID(out)
	if !ok {
		log.Printf("[pactl] load-module returned unexpected output %q", strings.TrimSpace(out))
	}
	return id, ok
}

// DisableLoopback unloads module id. A module that no longer exists counts
// as unloaded.
func (c *Client) DisableLoopback(ctx context.Context, id int) bool {
	_, err := c.runErr(ctx, "unload-module", strconv.Itoa(id))
	if err == nil {
		return true
	}
	if isNoSuchEntity(err) {
		log.Printf("[pactl] module %d was already unloaded", id)
		return true
	}
	c.logFailure(err)
	return false
}

// UnloadAllLoopbacks unloads every loopback module, including those left
// behind by a previous instance that crashed.
func (c *Client) UnloadAllLoopbacks(ctx context.Context) bool {
	_, err := c.runErr(ctx, "unload-module", LoopbackModule)
	if err == nil {
		return true
	}
	// Nothing loaded is the common case.
	if isNoSuchEntity(err) {
		return true
	}
	c.logFailure(err)
	return false
}

func isNoSuchEntity(err error) bool {
	return errors.Is(err, ErrFailed) && strings.Contains(strings.ToLower(err.Error()), "no such entity")
}
