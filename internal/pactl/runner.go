package pactl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Failure classes for external commands. Callers of Client never see these;
// they are used for logging and by the Runner contract.
var (
	ErrToolMissing = errors.New("tool not installed")
	ErrTimeout     = errors.New("timed out")
	ErrFailed      = errors.New("command failed")
)

// Runner executes one short-lived external command and returns its stdout.
// Implementations must honor ctx and wrap failures around ErrToolMissing,
// ErrTimeout or ErrFailed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// Don't let a child that inherited the pipes keep us past the deadline.
	cmd.WaitDelay = time.Second

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}

	switch {
	case errors.Is(err, exec.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", name, ErrToolMissing)
	case ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), ErrTimeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(string(out))
		}
		return out, fmt.Errorf("%s %s: exit %d: %s: %w", name, strings.Join(args, " "), exitErr.ExitCode(), msg, ErrFailed)
	}
	return nil, fmt.Errorf("%s %s: %v: %w", name, strings.Join(args, " "), err, ErrFailed)
}
