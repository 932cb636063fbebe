package manifest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/buckle/internal/adapters/manifest"
	"go.trai.ch/buckle/internal/core/domain"
)

const primaryManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package=" com.example.app ">
    <uses-permission android:name="android.permission.INTERNET"/>
    <application android:label="App" android:icon="@drawable/icon">
        <activity android:name=".MainActivity" android:exported="true"/>
    </application>
</manifest>
`

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func parse(t *testing.T, doc []byte) *etree.Element {
	t.Helper()
	d := etree.NewDocument()
	require.NoError(t, d.ReadFromBytes(doc))
	return d.Root()
}

func TestEngine_Merge_AppendsUnmatched(t *testing.T) {
	t.Parallel()

	primary := writeManifest(t, "AndroidManifest.xml", primaryManifest)
	overlay := writeManifest(t, "debug.xml", `<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <uses-permission android:name="android.permission.CAMERA"/>
    <application>
        <activity android:name=".DebugActivity" android:label="${appName}"/>
    </application>
</manifest>`)

	result, err := manifest.NewEngine().Merge(primary, []string{overlay})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.False(t, result.Diagnostics.HasErrors())

	root := parse(t, result.Document)
	assert.Len(t, root.SelectElements("uses-permission"), 2)

	activities := root.FindElements("./application/activity")
	require.Len(t, activities, 2)
	assert.Equal(t, ".DebugActivity", activities[1].SelectAttrValue("android:name", ""))
	assert.Equal(t, "${appName}", activities[1].SelectAttrValue("android:label", ""))
}

func TestEngine_Merge_Conflict(t *testing.T) {
	t.Parallel()

	primary := writeManifest(t, "AndroidManifest.xml", primaryManifest)
	overlay := writeManifest(t, "flavor.xml", `<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <application android:label="Flavor"/>
</manifest>`)

	result, err := manifest.NewEngine().Merge(primary, []string{overlay})
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
	require.True(t, result.Diagnostics.HasErrors())

	diag := result.Diagnostics[0]
	assert.Equal(t, domain.SeverityError, diag.Severity)
	assert.Contains(t, diag.Message, "android:label")
	assert.Equal(t, overlay+":/manifest/application", diag.Location)
	assert.True(t, strings.HasPrefix(diag.String(), "ERROR: attribute application@android:label"))
}

func TestEngine_Merge_SdkVersionsTakeLastLayer(t *testing.T) {
	t.Parallel()

	primary := writeManifest(t, "AndroidManifest.xml", `<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    package="com.example.app">
    <uses-sdk android:minSdkVersion="15" android:targetSdkVersion="26"/>
</manifest>`)
	debug := writeManifest(t, "debug.xml", `<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <uses-sdk android:minSdkVersion="21"/>
</manifest>`)
	flavor := writeManifest(t, "flavor.xml", `<manifest xmlns:android="http://schemas.android.com/apk/res/android">
    <uses-sdk android:minSdkVersion="19" android:targetSdkVersion="28"/>
</manifest>`)

	result, err := manifest.NewEngine().Merge(primary, []string{debug, flavor})
	require.NoError(t, err)
	require.True(t, result.Succeeded(), result.Diagnostics.String())
	assert.False(t, result.Diagnostics.HasErrors())

	sdk := parse(t, result.Document).SelectElement("uses-sdk")
	require.NotNil(t, sdk)
	assert.Equal(t, "19", sdk.SelectAttrValue("android:minSdkVersion", ""))
	assert.Equal(t, "28", sdk.SelectAttrValue("android:targetSdkVersion", ""))
}

func TestEngine_Merge_ToolsReplace(t *testing.T) {
	t.Parallel()

	primary := writeManifest(t, "AndroidManifest.xml", primaryManifest)
	overlay := writeManifest(t, "flavor.xml", `<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:tools="http://schemas.android.com/tools">
    <application android:label="Flavor" tools:replace="android:label"/>
</manifest>`)

	result, err := manifest.NewEngine().Merge(primary, []string{overlay})
	require.NoError(t, err)
	require.True(t, result.Succeeded(), result.Diagnostics.String())

	root := parse(t, result.Document)
	app := root.SelectElement("application")
	require.NotNil(t, app)
	assert.Equal(t, "Flavor", app.SelectAttrValue("android:label", ""))
	assert.Nil(t, app.SelectAttr("tools:replace"))
	assert.NotContains(t, string(result.Document), "xmlns:tools")
}

func TestEngine_Merge_ToolsNode(t *testing.T) {
	t.Parallel()

	primary := writeManifest(t, "AndroidManifest.xml", primaryManifest)
	overlay := writeManifest(t, "release.xml", `<manifest xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:tools="http://schemas.android.com/tools">
    <uses-permission android:name="android.permission.INTERNET" tools:node="remove"/>
    <uses-permission android:name="android.permission.WAKE_LOCK" tools:node="remove"/>
    <application>
        <activity android:name=".MainActivity" android:exported="false" tools:node="replace"/>
    </application>
</manifest>`)

	result, err := manifest.NewEngine().Merge(primary, []string{overlay})
	require.NoError(t, err)
	require.True(t, result.Succeeded(), result.Diagnostics.String())

	root := parse(t, result.Document)
	assert.Empty(t, root.SelectElements("uses-permission"))

	activity := root.FindElement("./application/activity")
	require.NotNil(t, activity)
	assert.Equal(t, "false", activity.SelectAttrValue("android:exported", ""))
	assert.Nil(t, activity.SelectAttr("tools:node"))

	severities := make([]domain.Severity, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		severities = append(severities, d.Severity)
	}
	assert.Equal(t, []domain.Severity{domain.SeverityInfo, domain.SeverityWarning}, severities)
}

func TestEngine_Merge_PackageMismatch(t *testing.T) {
	t.Parallel()

	primary := writeManifest(t, "AndroidManifest.xml", primaryManifest)
	overlay := writeManifest(t, "lib.xml", `<manifest package="com.example.other"/>`)

	result, err := manifest.NewEngine().Merge(primary, []string{overlay})
	require.NoError(t, err)
	require.True(t, result.Diagnostics.HasErrors())
	assert.Contains(t, result.Diagnostics[0].Message, `"com.example.other"`)
	assert.Equal(t, overlay+":/manifest", result.Diagnostics[0].Location)
}

func TestEngine_Merge_Unreadable(t *testing.T) {
	t.Parallel()

	primary := writeManifest(t, "AndroidManifest.xml", primaryManifest)
	broken := writeManifest(t, "broken.xml", `<manifest`)

	_, err := manifest.NewEngine().Merge(primary, []string{broken})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrManifestParseFailed.Error())

	_, err = manifest.NewEngine().Merge(filepath.Join(t.TempDir(), "missing.xml"), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrManifestParseFailed.Error())
}

func TestEngine_InjectSdk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		document string
	}{
		{
			name:     "creates uses-sdk",
			document: `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example"/>`,
		},
		{
			name: "overwrites existing uses-sdk",
			document: `<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example">
    <uses-sdk android:minSdkVersion="9" android:targetSdkVersion="19"/>
    <uses-sdk android:minSdkVersion="1"/>
</manifest>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := manifest.NewEngine().InjectSdk([]byte(tt.document), "15", "26")
			require.NoError(t, err)

			usesSdk := parse(t, out).SelectElement("uses-sdk")
			require.NotNil(t, usesSdk)
			assert.Equal(t, "15", usesSdk.SelectAttrValue("android:minSdkVersion", ""))
			assert.Equal(t, "26", usesSdk.SelectAttrValue("android:targetSdkVersion", ""))
		})
	}

	_, err := manifest.NewEngine().InjectSdk([]byte("not xml <"), "15", "26")
	require.Error(t, err)
}

func TestEngine_ReadPackage(t *testing.T) {
	t.Parallel()

	pkg, err := manifest.NewEngine().ReadPackage(writeManifest(t, "AndroidManifest.xml", primaryManifest))
	require.NoError(t, err)
	assert.Equal(t, "com.example.app", pkg)
}
