// Package app wires the workflow, persistence and generation collaborators
// into one runnable unit shared by the TUI and the CLI.
package app

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"postcraft/internal/autosave"
	"postcraft/internal/config"
	"postcraft/internal/generator"
	"postcraft/internal/history"
	"postcraft/internal/render"
	"postcraft/internal/snapshot"
	"postcraft/internal/workflow"
)

// App holds a fully wired application instance.
type App struct {
	Config    config.Config
	Workflow  *workflow.Workflow
	Saver     *autosave.Saver
	Generator *generator.Generator
	Store     *snapshot.FileStore
	Log       *logrus.Logger
}

// Options tweak how the application is assembled.
type Options struct {
	// Interactive routes logs to a file instead of stderr so they do not
	// corrupt the alternate-screen TUI.
	Interactive bool
}

// New loads configuration, restores the last workflow snapshot and wires all
// collaborators together.
func New(opts Options) *App {
	cfg := config.Load()
	log := newLogger(cfg, opts.Interactive)

	store := snapshot.NewFileStore(cfg.StateDir)
	wf := snapshot.Load(store, snapshot.DefaultKey)

	api := history.New(cfg.APIBaseURL, cfg.HTTPTimeout)
	saver := autosave.New(wf, api, store, cfg.AutosaveDelay, log.WithField("component", "autosave"))

	renderer := render.NewJobClient(cfg.RenderURL, cfg.HTTPTimeout)
	gen := generator.New(wf, renderer, api, saver, cfg.RenderWorkers, log.WithField("component", "generator"))

	return &App{
		Config:    cfg,
		Workflow:  wf,
		Saver:     saver,
		Generator: gen,
		Store:     store,
		Log:       log,
	}
}

func newLogger(cfg config.Config, interactive bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if !interactive {
		return log
	}

	if err := os.MkdirAll(cfg.StateDir, 0o755); err == nil {
		f, err := os.OpenFile(filepath.Join(cfg.StateDir, "postcraft.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			log.SetOutput(f)
			return log
		}
	}
	log.SetOutput(os.Stderr)
	return log
}
