package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mic-monitor/mic-monitor/internal/app"
	"github.com/mic-monitor/mic-monitor/internal/buildinfo"
	"github.com/mic-monitor/mic-monitor/internal/capture"
	"github.com/mic-monitor/mic-monitor/internal/config"
	"github.com/mic-monitor/mic-monitor/internal/models"
	"github.com/mic-monitor/mic-monitor/internal/pactl"
	"github.com/mic-monitor/mic-monitor/internal/render"
	"github.com/mic-monitor/mic-monitor/internal/tray"
	"github.com/mic-monitor/mic-monitor/internal/tui"
	"github.com/mic-monitor/mic-monitor/internal/watch"
)

func runRoot(cmd *cobra.Command, args []string) error {
	if err := config.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	running, info, err := config.IsInstanceRunning()
	if err != nil {
		log.Printf("Warning: failed to check for a running instance: %v", err)
	}
	if running {
		return fmt.Errorf("mic-monitor is already running (PID %d)", info.PID)
	}

	if foreground {
		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("--foreground needs an interactive terminal")
		}
		closeLog, err := logToFile()
		if err != nil {
			return err
		}
		defer closeLog()
	}

	log.Println(buildinfo.Summary())

	instance := models.NewInstanceInfo(os.Getpid())
	if err := config.SaveInstanceInfo(instance); err != nil {
		log.Printf("Warning: failed to write instance info: %v", err)
	}
	defer func() {
		if err := config.RemoveInstanceInfo(); err != nil {
			log.Printf("Failed to remove instance info: %v", err)
		}
	}()

	a := newApp()

	// Quit on SIGINT/SIGTERM the same way as from the menu.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("Received signal %v, shutting down...", sig)
			a.Quit()
		case <-a.QuitRequested():
		}
	}()

	if foreground {
		return runTUI(a)
	}
	runTray(a)
	return nil
}

func newApp() *app.App {
	settings, err := config.LoadSettings()
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	prefs, err := config.LoadPrefs()
	if err != nil {
		log.Printf("Warning: failed to load preferences: %v", err)
		prefs = models.NewPrefs()
	}

	recorder := capture.NewRecorder()
	return app.New(app.Options{
		Settings:  settings,
		Prefs:     prefs,
		Gateway:   newGateway(settings),
		Capture:   func() (watch.Stream, error) { return recorder.Start() },
		SavePrefs: config.SavePrefs,
	})
}

func newGateway(settings *models.Settings) *pactl.Client {
	return pactl.New(pactl.Options{LatencyMsec: settings.Monitor.LatencyMsec})
}

// runTray runs the tray on the main goroutine until Quit.
func runTray(a *app.App) {
	t := tray.New(a)

	onStart := func() {
		a.SetSink(t)
		go func() {
			a.Start(context.Background())
			log.Printf("Started (PID %d)", os.Getpid())
		}()
		go func() {
			<-a.QuitRequested()
			t.Quit()
		}()
	}
	onExit := func() {
		stopApp(a)
		fmt.Println("mic-monitor stopped")
	}

	// This blocks the main goroutine until tray exits.
	t.Run(onStart, onExit)
}

func runTUI(a *app.App) error {
	err := tui.Run(a, tui.Options{
		Attach: func(s render.Sink) { a.SetSink(s) },
		Start:  func() { a.Start(context.Background()) },
		Quit:   a.QuitRequested(),
	})
	stopApp(a)
	return err
}

// stopApp detaches the display before shutdown, so the final renders from
// unloading loopbacks never reach a tray or program that has already exited.
func stopApp(a *app.App) {
	a.SetSink(nil)
	a.Shutdown()
}

// logToFile sends the log to the log file while the terminal UI owns the
// screen.
func logToFile() (func(), error) {
	path, err := config.LogFile()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}
