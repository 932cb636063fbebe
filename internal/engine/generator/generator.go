// Package generator runs one generation pass over a loaded project.
package generator

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/buckle/internal/engine/composer"
	"go.trai.ch/buckle/internal/engine/depmgr"
	"go.trai.ch/buckle/internal/engine/manifest"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Result summarizes one generation pass.
type Result struct {
	Modules int
	// Written are the rule files whose content changed, repository-relative.
	Written []string
	// Unchanged counts rule files left untouched because their content did not change.
	Unchanged int
	// Removed are rule files generated by the previous pass and not by this one.
	Removed []string
	Cache   depmgr.Report
}

// Generator turns a project into rule files and the external dependency cache.
type Generator struct {
	linker ports.Linker
	writer ports.RuleWriter
	hasher ports.Hasher
	store  ports.StateStore
	engine ports.ManifestMergeEngine
	tracer ports.Tracer
	logger ports.Logger
}

// New creates a new Generator.
func New(
	linker ports.Linker,
	writer ports.RuleWriter,
	hasher ports.Hasher,
	store ports.StateStore,
	engine ports.ManifestMergeEngine,
	tracer ports.Tracer,
	logger ports.Logger,
) *Generator {
	return &Generator{
		linker: linker,
		writer: writer,
		hasher: hasher,
		store:  store,
		engine: engine,
		tracer: tracer,
		logger: logger,
	}
}

// run holds the state shared by the phases of one pass.
type run struct {
	*Generator

	settings *domain.Settings
	modules  map[domain.ModuleRef]*domain.Module
	manager  *depmgr.Manager
	cache    *manifest.Cache
}

// Generate resolves every module, materializes the dependency cache once all
// modules have been resolved, then composes and writes the rule files.
func (g *Generator) Generate(ctx context.Context, project *domain.Project) (Result, error) {
	settings := &project.Settings
	r := &run{
		Generator: g,
		settings:  settings,
		modules:   make(map[domain.ModuleRef]*domain.Module, len(project.Modules)),
		manager:   depmgr.NewManager(settings, g.linker, g.writer, g.hasher, g.logger),
		cache:     manifest.NewCache(manifest.NewMerger(settings.Root, g.engine, g.logger)),
	}
	for _, m := range project.Modules {
		r.modules[m.Ref()] = m
	}

	graph := domain.NewModuleGraph(project.Modules)
	if err := graph.Validate(); err != nil {
		return Result{}, err
	}
	modules := slices.Collect(graph.Walk())

	resolved, err := r.resolve(ctx, modules)
	if err != nil {
		return Result{}, err
	}

	report, err := r.finalize(ctx)
	if err != nil {
		return Result{}, err
	}

	files, err := r.compose(ctx, resolved)
	if err != nil {
		return Result{}, err
	}

	result, err := r.write(ctx, files)
	if err != nil {
		return Result{}, err
	}
	result.Modules = len(modules)
	result.Cache = report
	return result, nil
}

// resolve runs one task per module. Returning from Wait is the barrier that
// guarantees every Record call happened before Finalize.
func (r *run) resolve(ctx context.Context, modules []*domain.Module) ([]domain.ResolvedModule, error) {
	ctx, span := r.tracer.Start(ctx, "resolve", ports.WithAttribute("modules", len(modules)))
	defer span.End()

	resolved := make([]domain.ResolvedModule, len(modules))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, m := range modules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rm, err := r.resolveModule(m)
			if err != nil {
				return zerr.With(err, "module", string(m.ID()))
			}
			resolved[i] = rm
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return resolved, nil
}

func (r *run) resolveModule(m *domain.Module) (domain.ResolvedModule, error) {
	rm := domain.ResolvedModule{
		Module: m,
		Scopes: make(map[domain.ScopeName]domain.ResolvedScope, len(m.Scopes)),
	}

	req, err := manifest.ModuleRequest(m, r.settings.GenDir)
	if err != nil {
		return rm, err
	}
	if rm.Manifest, err = r.cache.Get(req); err != nil {
		return rm, err
	}

	if m.Instrumentation != nil {
		ireq := manifest.InstrumentationRequest(m, r.settings.GenDir)
		if rm.InstrumentationManifest, err = r.cache.Get(ireq); err != nil {
			return rm, err
		}
	}

	for name, scope := range m.Scopes {
		rs, err := r.resolveScope(m, scope)
		if err != nil {
			return rm, zerr.With(err, "scope", string(name))
		}
		rm.Scopes[name] = rs
	}
	return rm, nil
}

func (r *run) resolveScope(m *domain.Module, scope domain.Scope) (domain.ResolvedScope, error) {
	var rs domain.ResolvedScope

	for _, dep := range scope.External {
		if err := r.manager.Record(dep, scope.SkipPrebuilt); err != nil {
			return rs, err
		}
		if scope.SkipPrebuilt {
			rs.Files = append(rs.Files, dep.RuntimeFile(r.settings.CacheDir))
			continue
		}
		rs.Rules = append(rs.Rules, dep.RuleName(r.settings.CacheDir))
	}

	for _, ref := range scope.Targets {
		target, ok := r.modules[ref]
		if !ok {
			r.logger.Warn(fmt.Sprintf("%s: dropping reference to excluded module %s:%s", m.ID(), ref.Path, ref.Name))
			continue
		}
		rs.Rules = append(rs.Rules, composer.Target(target.Path, composer.Src(target.Name)))

		if !target.Traits().ProducesResource {
			continue
		}
		hasPackage, err := r.hasPackage(target)
		if err != nil {
			return rs, zerr.With(err, "target", string(target.ID()))
		}
		if hasPackage {
			rs.Resources = append(rs.Resources, composer.Target(target.Path, composer.Res(target.Name)))
		}
	}

	rs.Rules = domain.SortedUnique(rs.Rules)
	rs.Resources = domain.SortedUnique(rs.Resources)
	rs.Files = domain.SortedUnique(rs.Files)
	return rs, nil
}

// hasPackage reports whether the target's manifest names a package, merging it on first use.
func (r *run) hasPackage(target *domain.Module) (bool, error) {
	req, err := manifest.ModuleRequest(target, r.settings.GenDir)
	if err != nil {
		return false, err
	}
	_, err = r.cache.Package(req)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrPackageUnset):
		return false, nil
	default:
		return false, err
	}
}

func (r *run) finalize(ctx context.Context) (depmgr.Report, error) {
	ctx, span := r.tracer.Start(ctx, "finalize")
	defer span.End()

	report, err := r.manager.Finalize(ctx)
	if err != nil {
		span.RecordError(err)
		return depmgr.Report{}, err
	}
	span.SetAttribute("partitions", len(report.Partitions))
	span.SetAttribute("rules", report.Rules)
	return report, nil
}

// compose builds the rules of every module and groups them by rule file.
func (r *run) compose(ctx context.Context, resolved []domain.ResolvedModule) (map[string][]domain.Rule, error) {
	ctx, span := r.tracer.Start(ctx, "compose")
	defer span.End()

	composed := make([][]domain.Rule, len(resolved))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, rm := range resolved {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rules, err := composer.Module(rm, r.settings)
			if err != nil {
				return zerr.With(err, "module", string(rm.Module.ID()))
			}
			composed[i] = rules
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	files := make(map[string][]domain.Rule)
	for i, rm := range resolved {
		ruleFile := path.Join(rm.Module.Path, r.settings.BuckFileName)
		files[ruleFile] = append(files[ruleFile], composed[i]...)

		for _, mm := range []domain.MergedManifest{rm.Manifest, rm.InstrumentationManifest} {
			if exportFile, rule, ok := composer.ManifestExport(mm, r.settings.BuckFileName); ok {
				files[exportFile] = append(files[exportFile], rule)
			}
		}
	}

	span.SetAttribute("files", len(files))
	return files, nil
}

// write renders every rule file, skipping files whose content is unchanged since
// the previous pass, and removes rule files the previous pass wrote but this one did not.
func (r *run) write(ctx context.Context, files map[string][]domain.Rule) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "write")
	defer span.End()

	root := r.settings.Root
	previous, err := r.store.Get(root)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	var (
		mu        sync.Mutex
		generated []domain.GeneratedFile
		written   []string
		unchanged int
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, ruleFile := range slices.Sorted(maps.Keys(files)) {
		rules := files[ruleFile]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed, hash, err := r.writeFile(ruleFile, rules, previous)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			generated = append(generated, domain.GeneratedFile{Path: ruleFile, Hash: hash})
			if changed {
				written = append(written, ruleFile)
			} else {
				unchanged++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	slices.SortFunc(generated, func(a, b domain.GeneratedFile) int {
		return cmp.Compare(a.Path, b.Path)
	})
	slices.Sort(written)

	removed, err := r.removeStale(previous, files)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	state := domain.GenerationState{Files: generated, Timestamp: time.Now()}
	if err := r.store.Put(root, state); err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	span.SetAttribute("written", len(written))
	span.SetAttribute("removed", len(removed))
	return Result{Written: written, Unchanged: unchanged, Removed: removed}, nil
}

// writeFile renders one rule file and writes it unless the previous pass
// produced identical content that is still on disk.
func (r *run) writeFile(
	ruleFile string,
	rules []domain.Rule,
	previous *domain.GenerationState,
) (bool, string, error) {
	content, err := r.writer.Render(rules)
	if err != nil {
		return false, "", zerr.With(err, "path", ruleFile)
	}
	hash := r.hasher.HashBytes(content)
	target := filepath.Join(r.settings.Root, filepath.FromSlash(ruleFile))

	if prev, ok := previous.HashOf(ruleFile); ok && prev == hash {
		if _, err := os.Stat(target); err == nil {
			return false, hash, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return false, "", zerr.With(zerr.Wrap(err, domain.ErrRuleFileWriteFailed.Error()), "path", target)
	}
	//nolint:gosec // Path is constructed from the project root
	if err := os.WriteFile(target, content, domain.FilePerm); err != nil {
		return false, "", zerr.With(zerr.Wrap(err, domain.ErrRuleFileWriteFailed.Error()), "path", target)
	}
	return true, hash, nil
}

func (r *run) removeStale(previous *domain.GenerationState, files map[string][]domain.Rule) ([]string, error) {
	var removed []string
	for _, ruleFile := range previous.Paths() {
		if _, ok := files[ruleFile]; ok {
			continue
		}
		target := filepath.Join(r.settings.Root, filepath.FromSlash(ruleFile))
		if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, zerr.With(zerr.Wrap(err, domain.ErrStaleRuleRemoveFailed.Error()), "path", target)
		}
		removed = append(removed, ruleFile)
	}
	slices.Sort(removed)
	return removed, nil
}
