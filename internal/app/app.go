// Package app implements the application layer for buckle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/buckle/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/buckle/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/buckle/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/buckle/internal/engine/generator"
	"go.trai.ch/zerr"
)

// logSettings is implemented by loggers whose output can be reconfigured at runtime.
type logSettings interface {
	SetJSON(enable bool)
	SetVerbose(enable bool)
}

// App represents the main application logic.
type App struct {
	loader      ports.ProjectLoader
	generator   *generator.Generator
	store       ports.StateStore
	logger      ports.Logger
	fileWatcher ports.Watcher
	changes     *watcher.ChangeFilter
	workDir     string
	debounce    time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ProjectLoader,
	gen *generator.Generator,
	store ports.StateStore,
	log ports.Logger,
	fileWatcher ports.Watcher,
	changes *watcher.ChangeFilter,
) *App {
	return &App{
		loader:      loader,
		generator:   gen,
		store:       store,
		logger:      log,
		fileWatcher: fileWatcher,
		changes:     changes,
		debounce:    watcher.DefaultDebounceWindow,
	}
}

// WithWorkDir sets the directory buckle.yaml is discovered from.
// It defaults to the process working directory.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithDebounce sets the window used to coalesce file events in watch mode.
func (a *App) WithDebounce(window time.Duration) *App {
	a.debounce = window
	return a
}

// GenerateOptions configuration for the Generate method.
type GenerateOptions struct {
	Watch     bool
	Trace     bool
	Verbose   bool
	LogFormat string
}

// Generate loads the project and writes its rule files. In watch mode it keeps
// regenerating whenever the project inputs change until ctx is canceled.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) error {
	a.configureLogging(opts)

	if opts.Trace {
		shutdown := telemetry.Setup(telemetry.NewBridge(a.logger))
		defer func() {
			_ = shutdown(context.WithoutCancel(ctx))
		}()
	}

	project, err := a.generate(ctx)
	if !opts.Watch {
		return err
	}
	if err != nil {
		if project == nil {
			return err
		}
		a.logger.Error(err)
	}

	return a.watch(ctx, project.Sources)
}

func (a *App) configureLogging(opts GenerateOptions) {
	settings, ok := a.logger.(logSettings)
	if !ok {
		return
	}
	format := detector.ResolveFormat(detector.DetectEnvironment(), opts.LogFormat)
	settings.SetJSON(format == detector.FormatJSON)
	settings.SetVerbose(opts.Verbose || opts.Trace)
}

// generate runs one pass. The project is returned whenever it could be loaded.
func (a *App) generate(ctx context.Context) (*domain.Project, error) {
	project, err := a.load()
	if err != nil {
		return nil, err
	}

	result, err := a.generator.Generate(ctx, project)
	if err != nil {
		return project, zerr.Wrap(err, domain.ErrGenerationFailed.Error())
	}

	a.logger.Info(fmt.Sprintf(
		"generated %d modules: %d rule files written, %d unchanged, %d removed",
		result.Modules, len(result.Written), result.Unchanged, len(result.Removed),
	))
	for _, removed := range result.Removed {
		a.logger.Debug("removed stale rule file " + removed)
	}
	a.logger.Debug(strings.TrimSuffix(result.Cache.String(), "\n"))
	return project, nil
}

func (a *App) load() (*domain.Project, error) {
	dir := a.workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to get working directory")
		}
		dir = cwd
	}

	project, err := a.loader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return project, nil
}

// watch regenerates after each debounced batch of events that changed file content.
func (a *App) watch(ctx context.Context, files []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.changes.Prime(files)
	if err := a.fileWatcher.Start(ctx, files); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}
	defer func() {
		_ = a.fileWatcher.Stop()
	}()

	batches := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	go func() {
		for event := range a.fileWatcher.Events() {
			debouncer.Add(event.Path)
		}
		debouncer.Flush()
	}()

	a.logger.Info(fmt.Sprintf("watching %d files for changes", len(files)))

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-batches:
			changed := a.changes.Changed(paths)
			if len(changed) == 0 {
				a.logger.Debug("ignoring file events without content changes")
				continue
			}

			names := make([]string, len(changed))
			for i, path := range changed {
				names[i] = filepath.Base(path)
			}
			a.logger.Info("change detected in " + strings.Join(names, ", ") + ", regenerating")

			if _, err := a.generate(ctx); err != nil {
				a.logger.Error(err)
			}
		}
	}
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// Rules also removes every rule file recorded by the last generation.
	Rules bool
}

// Clean removes the dependency cache, the generated manifests and the generation state.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	project, err := a.load()
	if err != nil {
		return err
	}
	settings := project.Settings

	var errs error

	if options.Rules {
		state, err := a.store.Get(settings.Root)
		if err != nil {
			return err
		}
		paths := state.Paths()
		for _, rel := range paths {
			path := filepath.Join(settings.Root, filepath.FromSlash(rel))
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrStaleRuleRemoveFailed.Error()), "path", path))
			}
		}
		a.logger.Info(fmt.Sprintf("removed %d rule files", len(paths)))
	}

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(filepath.Join(settings.Root, settings.CacheDir), "dependency cache")
	remove(filepath.Join(settings.Root, settings.GenDir), "generated manifests")
	remove(filepath.Join(settings.Root, domain.DefaultStatePath()), "generation state")

	return errs
}
