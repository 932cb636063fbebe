// Package depmgr collects the external dependencies of every module and
// materializes them into the shared dependency cache.
package depmgr

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/buckle/internal/engine/composer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	multipleVersionsHeader = "Multiple versions found for external dependencies:"
	singleVersionHeader    = "Single version found for external dependencies, " +
		"please remove them from external dependency extension:"
)

// Manager is the registry every module's resolution feeds into. Record may be
// called concurrently until Finalize runs; afterwards the manager is sealed.
type Manager struct {
	root         string
	cacheDir     string
	buckFileName string
	policy       domain.DependencyPolicy
	settings     *domain.Settings

	linker ports.Linker
	writer ports.RuleWriter
	hasher ports.Hasher
	logger ports.Logger

	mu        sync.Mutex
	deps      map[domain.VersionlessDependency]map[domain.DependencyIdentity]domain.ExternalDependency
	skip      map[domain.VersionlessDependency]bool
	runtime   map[domain.DependencyIdentity]domain.ExternalDependency
	finalized bool
}

// NewManager creates a Manager for the cache described by settings.
func NewManager(
	settings *domain.Settings,
	linker ports.Linker,
	writer ports.RuleWriter,
	hasher ports.Hasher,
	logger ports.Logger,
) *Manager {
	m := &Manager{
		root:         settings.Root,
		cacheDir:     settings.CacheDir,
		buckFileName: settings.BuckFileName,
		policy:       settings.Policy,
		settings:     settings,
		linker:       linker,
		writer:       writer,
		hasher:       hasher,
		logger:       logger,
		deps:         make(map[domain.VersionlessDependency]map[domain.DependencyIdentity]domain.ExternalDependency),
		skip:         make(map[domain.VersionlessDependency]bool),
		runtime:      make(map[domain.DependencyIdentity]domain.ExternalDependency),
	}
	for _, dep := range settings.TransformDeps {
		m.record(dep, false)
	}
	return m
}

// Record adds dep to the registry. The prebuilt rule of a dependency is only
// skipped when every record of its key asks for it.
func (m *Manager) Record(dep domain.ExternalDependency, skipPrebuilt bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.finalized {
		return zerr.With(domain.ErrManagerFinalized, "dependency", dep.CacheName())
	}
	m.record(dep, skipPrebuilt)
	return nil
}

func (m *Manager) record(dep domain.ExternalDependency, skipPrebuilt bool) {
	key := dep.Versionless
	set, ok := m.deps[key]
	if !ok {
		set = make(map[domain.DependencyIdentity]domain.ExternalDependency)
		m.deps[key] = set
	}
	if _, exists := set[dep.Identity()]; !exists {
		set[dep.Identity()] = dep
	}

	if previous, seen := m.skip[key]; seen {
		m.skip[key] = previous && skipPrebuilt
	} else {
		m.skip[key] = skipPrebuilt
	}
	if skipPrebuilt {
		m.runtime[dep.Identity()] = set[dep.Identity()]
	}
}

// Finalize validates the recorded dependencies and rebuilds the cache. It must
// run once, after every Record call has returned.
func (m *Manager) Finalize(ctx context.Context) (Report, error) {
	m.mu.Lock()
	if m.finalized {
		m.mu.Unlock()
		return Report{}, domain.ErrManagerFinalized
	}
	m.finalized = true
	m.mu.Unlock()

	if m.policy.Versionless {
		if err := m.validate(); err != nil {
			return Report{}, err
		}
	}

	changing, err := m.checkChanging()
	if err != nil {
		return Report{}, err
	}

	report, err := m.materialize(ctx)
	if err != nil {
		return Report{}, err
	}
	report.Changing = changing
	return report, nil
}

// SkipPrebuilt reports the reduced skip flag of a key.
func (m *Manager) SkipPrebuilt(key domain.VersionlessDependency) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.skip[key]
}

// Dependencies returns every recorded dependency sorted by cache name.
func (m *Manager) Dependencies() []domain.ExternalDependency {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []domain.ExternalDependency
	for _, set := range m.deps {
		all = slices.AppendSeq(all, maps.Values(set))
	}
	slices.SortFunc(all, func(a, b domain.ExternalDependency) int {
		return cmp.Compare(a.CacheName(), b.CacheName())
	})
	return all
}

// validate enforces the single version policy. Both checks run before either
// is reported so one run surfaces every violation.
func (m *Manager) validate() error {
	multiple := make(map[string][]string)
	stale := make(map[string][]string)

	for key, set := range m.deps {
		versions := make(map[string]struct{})
		for _, dep := range set {
			versions[dep.Version] = struct{}{}
		}

		if len(versions) > 1 {
			for _, dep := range set {
				if !m.policy.IsAllowed(dep) {
					multiple[key.Coords()] = append(multiple[key.Coords()], dep.Version)
				}
			}
			continue
		}

		if m.policy.IsVersioned(key) {
			stale[key.Coords()] = slices.Collect(maps.Keys(versions))
		}
	}

	var sections []string
	if len(multiple) > 0 {
		sections = append(sections, multipleVersionsHeader+"\n"+formatVersions(multiple))
	}
	if len(stale) > 0 {
		sections = append(sections, singleVersionHeader+"\n"+formatVersions(stale))
	}
	if len(sections) == 0 {
		return nil
	}
	return zerr.Wrap(errors.New(strings.Join(sections, "\n\n")), domain.ErrVersionConflict.Error())
}

// formatVersions renders "coords=[v1, v2]" lines sorted by key and version.
func formatVersions(versions map[string][]string) string {
	lines := make([]string, 0, len(versions))
	for _, key := range slices.Sorted(maps.Keys(versions)) {
		vs := domain.SortedUnique(versions[key])
		lines = append(lines, fmt.Sprintf("%s=[%s]", key, strings.Join(vs, ", ")))
	}
	return strings.Join(lines, ",\n")
}

// checkChanging returns the cache names of changing dependencies. They fail
// the run when the policy forbids them and are logged otherwise.
func (m *Manager) checkChanging() ([]string, error) {
	var changing []string
	for _, set := range m.deps {
		for _, dep := range set {
			if dep.IsChanging() {
				changing = append(changing, dep.CacheName())
			}
		}
	}
	if len(changing) == 0 {
		return nil, nil
	}
	slices.Sort(changing)

	if m.policy.FailOnChanging {
		return nil, zerr.With(domain.ErrChangingDependency, "dependencies", strings.Join(changing, ", "))
	}
	m.logger.Warn(domain.ErrChangingDependency.Error() + "\n" + strings.Join(changing, "\n"))
	return changing, nil
}

// materialize rebuilds the cache root from scratch, one partition per base path.
func (m *Manager) materialize(ctx context.Context) (Report, error) {
	cacheRoot := filepath.Join(m.root, m.cacheDir)

	if err := os.RemoveAll(cacheRoot); err != nil {
		return Report{}, zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "path", cacheRoot)
	}
	if err := os.MkdirAll(cacheRoot, domain.DirPerm); err != nil {
		return Report{}, zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "path", cacheRoot)
	}

	partitions := make(map[string][]domain.ExternalDependency)
	for _, set := range m.deps {
		for _, dep := range set {
			partitions[dep.BasePath()] = append(partitions[dep.BasePath()], dep)
		}
	}
	basePaths := slices.Sorted(maps.Keys(partitions))

	var ruleCount atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, basePath := range basePaths {
		deps := partitions[basePath]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := m.writePartition(filepath.Join(cacheRoot, filepath.FromSlash(basePath)), deps)
			if err != nil {
				return zerr.With(err, "partition", basePath)
			}
			ruleCount.Add(int64(n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	if err := m.writeRuntime(filepath.Join(cacheRoot, domain.RuntimeDirName)); err != nil {
		return Report{}, err
	}
	if len(m.settings.TransformDeps) > 0 {
		if err := m.writeTransformRunner(filepath.Join(cacheRoot, domain.TransformDirName)); err != nil {
			return Report{}, err
		}
		ruleCount.Add(1)
	}

	fingerprint, err := m.hasher.HashTree(cacheRoot)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Partitions:  basePaths,
		Rules:       int(ruleCount.Load()),
		Fingerprint: fingerprint,
	}, nil
}

// writePartition links the artifacts of one partition and writes its rule file.
// It returns the number of rules written.
func (m *Manager) writePartition(dir string, deps []domain.ExternalDependency) (int, error) {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "path", dir)
	}

	for _, dep := range deps {
		if dep.ArtifactPath == "" {
			return 0, zerr.With(zerr.With(domain.ErrSymlinkFailed, "dependency", dep.CacheName()), "reason", "no artifact path")
		}
		if err := m.linker.Link(dep.ArtifactPath, filepath.Join(dir, dep.DependencyFileName())); err != nil {
			return 0, zerr.With(err, "dependency", dep.CacheName())
		}
		if dep.HasSources() {
			if err := m.linker.Link(dep.SourcesPath, filepath.Join(dir, dep.SourceFileName())); err != nil {
				return 0, zerr.With(err, "dependency", dep.CacheName())
			}
		}
	}

	// Flags are final once Finalize sealed the manager.
	filtered := slices.DeleteFunc(slices.Clone(deps), func(dep domain.ExternalDependency) bool {
		return m.skip[dep.Versionless]
	})

	rules := composer.Prebuilt(filtered)
	if err := m.writer.Write(filepath.Join(dir, m.buckFileName), rules); err != nil {
		return 0, err
	}
	return len(rules), nil
}

// writeRuntime links every dependency consumed as a file into one directory,
// so test runtimes can be pointed at a single location.
func (m *Manager) writeRuntime(dir string) error {
	if len(m.runtime) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "path", dir)
	}
	deps := slices.SortedFunc(maps.Values(m.runtime), func(a, b domain.ExternalDependency) int {
		return cmp.Compare(a.CacheName(), b.CacheName())
	})
	for _, dep := range deps {
		if dep.ArtifactPath == "" {
			return zerr.With(zerr.With(domain.ErrSymlinkFailed, "dependency", dep.CacheName()), "reason", "no artifact path")
		}
		if err := m.linker.Link(dep.ArtifactPath, filepath.Join(dir, dep.DependencyFileName())); err != nil {
			return zerr.With(err, "dependency", dep.CacheName())
		}
	}
	return nil
}

func (m *Manager) writeTransformRunner(dir string) error {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "path", dir)
	}
	rule := composer.TransformRunner(m.settings.TransformDeps, m.settings)
	return m.writer.Write(filepath.Join(dir, m.buckFileName), []domain.Rule{rule})
}
