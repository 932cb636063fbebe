// Package manifest produces one Android manifest per module from its source manifests.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/zerr"
)

// instrumentationDir holds the instrumentation manifest inside a module's gen dir.
const instrumentationDir = "instrumentation"

// Request describes one manifest to produce.
type Request struct {
	// Key identifies the request for memoization.
	Key string
	// Manifests are the existing source manifests, repository-relative, highest priority first.
	Manifests []string
	MergeType domain.MergeType
	MinSDK    string
	TargetSDK string
	// Output is the repository-relative path of the written manifest.
	Output string
}

// ModuleRequest builds the request for a module's main manifest.
// Android modules must declare both SDK versions.
func ModuleRequest(m *domain.Module, genDir string) (Request, error) {
	traits := m.Traits()
	if traits.Android && (m.App.MinSDK == "" || m.App.TargetSDK == "") {
		return Request{}, zerr.Wrap(domain.ErrMissingSdk, fmt.Sprintf("module %s", m.ID()))
	}

	return Request{
		Key:       string(m.ID()),
		Manifests: m.Manifests,
		MergeType: traits.MergeType,
		MinSDK:    m.App.MinSDK,
		TargetSDK: m.App.TargetSDK,
		Output:    path.Join(m.GenDir(genDir), domain.ManifestFileName),
	}, nil
}

// InstrumentationRequest builds the request for a module's instrumentation manifest.
func InstrumentationRequest(m *domain.Module, genDir string) Request {
	req := Request{
		Key:       string(m.ID()) + "#" + instrumentationDir,
		MergeType: domain.MergeTypeApplication,
		MinSDK:    m.App.MinSDK,
		TargetSDK: m.App.TargetSDK,
		Output:    path.Join(m.GenDir(genDir), instrumentationDir, domain.ManifestFileName),
	}
	if m.Instrumentation != nil {
		req.Manifests = m.Instrumentation.Manifests
	}
	return req
}

// Merger runs the manifest state machine for one request at a time.
type Merger struct {
	root   string
	engine ports.ManifestMergeEngine
	logger ports.Logger
}

// NewMerger creates a Merger that resolves request paths against root.
func NewMerger(root string, engine ports.ManifestMergeEngine, logger ports.Logger) *Merger {
	return &Merger{root: root, engine: engine, logger: logger}
}

// State returns the state a request resolves to, before anything is read.
func State(req *Request) domain.MergeState {
	switch {
	case len(req.Manifests) == 0:
		return domain.MergeEmpty
	case len(req.Manifests) == 1 && req.MergeType == domain.MergeTypeLibrary:
		return domain.MergeDirectCopy
	default:
		return domain.MergeMerged
	}
}

// Merge produces the manifest described by req.
func (m *Merger) Merge(req *Request) (domain.MergedManifest, error) {
	state := State(req)

	var document []byte
	switch state {
	case domain.MergeEmpty:
		return domain.NewMergedManifest(domain.MergeEmpty, "", ""), nil

	case domain.MergeDirectCopy:
		primary := m.abs(req.Manifests[0])
		//nolint:gosec // Manifest paths come from the project model
		data, err := os.ReadFile(primary)
		if err != nil {
			return m.failed(zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", primary))
		}
		document = data

	default:
		overlays := make([]string, 0, len(req.Manifests)-1)
		for _, overlay := range req.Manifests[1:] {
			overlays = append(overlays, m.abs(overlay))
		}

		result, err := m.engine.Merge(m.abs(req.Manifests[0]), overlays)
		if err != nil {
			return m.failed(err)
		}
		if !result.Succeeded() {
			return m.failed(zerr.Wrap(errors.New(result.Diagnostics.String()), domain.ErrManifestMergeFailed.Error()))
		}
		for _, d := range result.Diagnostics {
			m.logger.Debug(fmt.Sprintf("%s: %s", req.Key, d))
		}
		document = result.Document
	}

	document, err := m.engine.InjectSdk(document, req.MinSDK, req.TargetSDK)
	if err != nil {
		return m.failed(err)
	}

	pkg, err := m.engine.ReadPackage(m.abs(req.Manifests[0]))
	if err != nil {
		return m.failed(err)
	}

	if err := m.write(req.Output, document); err != nil {
		return m.failed(err)
	}
	return domain.NewMergedManifest(state, req.Output, pkg), nil
}

func (m *Merger) write(output string, document []byte) error {
	target := m.abs(output)
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", target)
	}
	if err := os.WriteFile(target, document, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", target)
	}
	return nil
}

func (m *Merger) failed(err error) (domain.MergedManifest, error) {
	return domain.MergedManifest{State: domain.MergeFailed}, err
}

func (m *Merger) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.root, filepath.FromSlash(p))
}
