package manifest_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	manifestadapter "go.trai.ch/buckle/internal/adapters/manifest"
	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports/mocks"
	"go.trai.ch/buckle/internal/engine/manifest"
	"go.uber.org/mock/gomock"
)

const libraryManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.lib ">
    <uses-sdk android:minSdkVersion="15" android:targetSdkVersion="21"/>
    <application/>
</manifest>
`

const debugManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.lib">
    <uses-sdk android:minSdkVersion="15" android:targetSdkVersion="21"/>
</manifest>
`

const flavorManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.lib">
    <uses-permission android:name="android.permission.CAMERA"/>
</manifest>
`

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func usesSdk(t *testing.T, path string) (string, string) {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(path))
	sdk := doc.FindElement("//uses-sdk")
	require.NotNil(t, sdk)
	return sdk.SelectAttrValue("android:minSdkVersion", ""), sdk.SelectAttrValue("android:targetSdkVersion", "")
}

func newRealMerger(t *testing.T, root string) *manifest.Merger {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return manifest.NewMerger(root, manifestadapter.NewEngine(), logger)
}

func TestState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  manifest.Request
		want domain.MergeState
	}{
		{
			name: "no manifests",
			req:  manifest.Request{MergeType: domain.MergeTypeApplication},
			want: domain.MergeEmpty,
		},
		{
			name: "single library manifest",
			req:  manifest.Request{Manifests: []string{"a.xml"}, MergeType: domain.MergeTypeLibrary},
			want: domain.MergeDirectCopy,
		},
		{
			name: "single application manifest",
			req:  manifest.Request{Manifests: []string{"a.xml"}, MergeType: domain.MergeTypeApplication},
			want: domain.MergeMerged,
		},
		{
			name: "several library manifests",
			req:  manifest.Request{Manifests: []string{"a.xml", "b.xml"}, MergeType: domain.MergeTypeLibrary},
			want: domain.MergeMerged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, manifest.State(&tt.req))
		})
	}
}

func TestMerger_Empty(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockManifestMergeEngine(ctrl)

	merger := manifest.NewMerger(t.TempDir(), engine, mocks.NewMockLogger(ctrl))
	result, err := merger.Merge(&manifest.Request{Key: "lib:release", MergeType: domain.MergeTypeLibrary})
	require.NoError(t, err)

	assert.Equal(t, domain.MergeEmpty, result.State)
	assert.False(t, result.HasOutput())
	_, err = result.Package()
	assert.ErrorIs(t, err, domain.ErrPackageUnset)
}

func TestMerger_DirectCopySkipsMergeEngine(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "lib/src/main/AndroidManifest.xml", libraryManifest)

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockManifestMergeEngine(ctrl)
	engine.EXPECT().Merge(gomock.Any(), gomock.Any()).Times(0)
	engine.EXPECT().InjectSdk([]byte(libraryManifest), "15", "26").Return([]byte("<manifest/>"), nil)
	engine.EXPECT().ReadPackage(filepath.Join(root, "lib", "src", "main", "AndroidManifest.xml")).Return("com.example.lib", nil)

	merger := manifest.NewMerger(root, engine, mocks.NewMockLogger(ctrl))
	result, err := merger.Merge(&manifest.Request{
		Key:       "lib:release",
		Manifests: []string{"lib/src/main/AndroidManifest.xml"},
		MergeType: domain.MergeTypeLibrary,
		MinSDK:    "15",
		TargetSDK: "26",
		Output:    ".buckle/gen/lib/release/AndroidManifest.xml",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MergeDirectCopy, result.State)
	assert.Equal(t, ".buckle/gen/lib/release/AndroidManifest.xml", result.Path)
	pkg, err := result.Package()
	require.NoError(t, err)
	assert.Equal(t, "com.example.lib", pkg)

	written, err := os.ReadFile(filepath.Join(root, ".buckle", "gen", "lib", "release", "AndroidManifest.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<manifest/>", string(written))
}

func TestMerger_MergeFailureListsEveryDiagnostic(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockManifestMergeEngine(ctrl)
	engine.EXPECT().Merge(gomock.Any(), gomock.Any()).Return(domain.MergeResult{
		Diagnostics: domain.Diagnostics{
			{Severity: domain.SeverityWarning, Message: "nothing to remove", Location: "b.xml:/manifest"},
			{Severity: domain.SeverityError, Message: "attribute conflict", Location: "c.xml:/manifest/application"},
		},
	}, nil)

	merger := manifest.NewMerger(t.TempDir(), engine, mocks.NewMockLogger(ctrl))
	result, err := merger.Merge(&manifest.Request{
		Key:       "app:debug",
		Manifests: []string{"a.xml", "b.xml", "c.xml"},
		MergeType: domain.MergeTypeApplication,
		MinSDK:    "15",
		TargetSDK: "26",
		Output:    "out/AndroidManifest.xml",
	})
	require.Error(t, err)
	assert.Equal(t, domain.MergeFailed, result.State)
	assert.ErrorContains(t, err, domain.ErrManifestMergeFailed.Error())
	assert.ErrorContains(t, err, "WARNING: nothing to remove at b.xml:/manifest\nERROR: attribute conflict at c.xml:/manifest/application")
}

func TestMerger_MergeEngineError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockManifestMergeEngine(ctrl)
	engine.EXPECT().Merge(gomock.Any(), gomock.Any()).Return(domain.MergeResult{}, errors.New("unreadable"))

	merger := manifest.NewMerger(t.TempDir(), engine, mocks.NewMockLogger(ctrl))
	_, err := merger.Merge(&manifest.Request{
		Manifests: []string{"a.xml"},
		MergeType: domain.MergeTypeApplication,
	})
	assert.ErrorContains(t, err, "unreadable")
}

func TestMerger_DirectCopyInjectsSdk(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "lib/src/main/AndroidManifest.xml", libraryManifest)

	result, err := newRealMerger(t, root).Merge(&manifest.Request{
		Key:       "lib:release",
		Manifests: []string{"lib/src/main/AndroidManifest.xml"},
		MergeType: domain.MergeTypeLibrary,
		MinSDK:    "15",
		TargetSDK: "26",
		Output:    ".buckle/gen/lib/release/AndroidManifest.xml",
	})
	require.NoError(t, err)

	minSdk, targetSdk := usesSdk(t, filepath.Join(root, filepath.FromSlash(result.Path)))
	assert.Equal(t, "15", minSdk)
	assert.Equal(t, "26", targetSdk, "module SDK overrides the source manifest")

	pkg, err := result.Package()
	require.NoError(t, err)
	assert.Equal(t, "com.example.lib", pkg, "package is trimmed")
}

func TestMerger_MergedApplication(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "app/src/main/AndroidManifest.xml", flavorManifest)
	writeFile(t, root, "app/src/debug/AndroidManifest.xml", debugManifest)

	result, err := newRealMerger(t, root).Merge(&manifest.Request{
		Key:       "app:debug",
		Manifests: []string{"app/src/main/AndroidManifest.xml", "app/src/debug/AndroidManifest.xml"},
		MergeType: domain.MergeTypeApplication,
		MinSDK:    "19",
		TargetSDK: "28",
		Output:    ".buckle/gen/app/debug/AndroidManifest.xml",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MergeMerged, result.State)

	written := filepath.Join(root, filepath.FromSlash(result.Path))
	minSdk, targetSdk := usesSdk(t, written)
	assert.Equal(t, "19", minSdk)
	assert.Equal(t, "28", targetSdk)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromFile(written))
	permission := doc.FindElement("//uses-permission")
	require.NotNil(t, permission)
	assert.Equal(t, "android.permission.CAMERA", permission.SelectAttrValue("android:name", ""))
	assert.Len(t, doc.FindElements("//uses-sdk"), 1)
}

func TestMerger_MergedConflictingSdkLayers(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "app/src/main/AndroidManifest.xml", libraryManifest)
	writeFile(t, root, "app/src/debug/AndroidManifest.xml", `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.lib">
    <uses-sdk android:minSdkVersion="21"/>
</manifest>
`)

	result, err := newRealMerger(t, root).Merge(&manifest.Request{
		Key:       "app:debug",
		Manifests: []string{"app/src/main/AndroidManifest.xml", "app/src/debug/AndroidManifest.xml"},
		MergeType: domain.MergeTypeApplication,
		MinSDK:    "15",
		TargetSDK: "26",
		Output:    ".buckle/gen/app/debug/AndroidManifest.xml",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MergeMerged, result.State)

	minSdk, targetSdk := usesSdk(t, filepath.Join(root, filepath.FromSlash(result.Path)))
	assert.Equal(t, "15", minSdk)
	assert.Equal(t, "26", targetSdk)
}

func TestModuleRequest(t *testing.T) {
	t.Parallel()

	m := &domain.Module{
		Path:      "app",
		Name:      "debug",
		Kind:      domain.KindAndroidApp,
		Manifests: []string{"app/src/main/AndroidManifest.xml"},
		App:       domain.AppMetadata{MinSDK: "15", TargetSDK: "26"},
		Instrumentation: &domain.Instrumentation{
			Manifests: []string{"app/src/androidTest/AndroidManifest.xml"},
		},
	}

	req, err := manifest.ModuleRequest(m, ".buckle/gen")
	require.NoError(t, err)
	assert.Equal(t, "app:debug", req.Key)
	assert.Equal(t, domain.MergeTypeApplication, req.MergeType)
	assert.Equal(t, ".buckle/gen/app/debug/AndroidManifest.xml", req.Output)

	instrumentation := manifest.InstrumentationRequest(m, ".buckle/gen")
	assert.Equal(t, "app:debug#instrumentation", instrumentation.Key)
	assert.Equal(t, []string{"app/src/androidTest/AndroidManifest.xml"}, instrumentation.Manifests)
	assert.Equal(t, ".buckle/gen/app/debug/instrumentation/AndroidManifest.xml", instrumentation.Output)

	m.App.TargetSDK = ""
	_, err = manifest.ModuleRequest(m, ".buckle/gen")
	assert.ErrorContains(t, err, "module app:debug: "+domain.ErrMissingSdk.Error())

	java := &domain.Module{Path: "lib", Name: "main", Kind: domain.KindJavaLibrary}
	req, err = manifest.ModuleRequest(java, ".buckle/gen")
	require.NoError(t, err, "JVM modules need no SDK versions")
	assert.Equal(t, domain.MergeTypeNone, req.MergeType)
}

func TestCache_ComputesOncePerKey(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "lib/src/main/AndroidManifest.xml", libraryManifest)

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockManifestMergeEngine(ctrl)
	engine.EXPECT().InjectSdk(gomock.Any(), "15", "26").Return([]byte("<manifest/>"), nil).Times(1)
	engine.EXPECT().ReadPackage(gomock.Any()).Return("com.example.lib", nil).Times(1)

	cache := manifest.NewCache(manifest.NewMerger(root, engine, mocks.NewMockLogger(ctrl)))
	req := manifest.Request{
		Key:       "lib:release",
		Manifests: []string{"lib/src/main/AndroidManifest.xml"},
		MergeType: domain.MergeTypeLibrary,
		MinSDK:    "15",
		TargetSDK: "26",
		Output:    ".buckle/gen/lib/release/AndroidManifest.xml",
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			pkg, err := cache.Package(req)
			assert.NoError(t, err)
			assert.Equal(t, "com.example.lib", pkg)
		})
	}
	wg.Wait()

	result, err := cache.Get(req)
	require.NoError(t, err)
	assert.Equal(t, domain.MergeDirectCopy, result.State)
}

func TestCache_MemoizesFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	engine := mocks.NewMockManifestMergeEngine(ctrl)
	engine.EXPECT().Merge(gomock.Any(), gomock.Any()).Return(domain.MergeResult{}, errors.New("unreadable")).Times(1)

	cache := manifest.NewCache(manifest.NewMerger(t.TempDir(), engine, mocks.NewMockLogger(ctrl)))
	req := manifest.Request{Key: "app:debug", Manifests: []string{"a.xml"}, MergeType: domain.MergeTypeApplication}

	_, first := cache.Get(req)
	_, second := cache.Get(req)
	assert.Error(t, first)
	assert.Equal(t, first, second)
}
