package composer

import (
	"strconv"

	"go.trai.ch/buckle/internal/core/domain"
)

// Binary composes the binary rule of a module whose kind produces one.
// transform is the module's transform rule, if any.
func Binary(rm domain.ResolvedModule, transform *domain.Rule, settings *domain.Settings) domain.Rule {
	m := rm.Module
	traits := m.Traits()
	deps := []string{Local(Src(m.Name))}

	if !traits.Android {
		return domain.NewRule(traits.BinaryRule, Bin(m.Name), deps,
			domain.Attr{Key: "main_class", Value: m.MainClass},
		)
	}

	packageType := "release"
	if m.App.Debuggable {
		packageType = "debug"
	}

	entries := map[string]string{
		"min_sdk_version":    m.App.MinSDK,
		"target_sdk_version": m.App.TargetSDK,
		"debug_mode":         strconv.FormatBool(m.App.Debuggable),
	}
	if m.App.VersionCode != 0 {
		entries["version_code"] = strconv.Itoa(m.App.VersionCode)
	}
	if m.App.VersionName != "" {
		entries["version_name"] = m.App.VersionName
	}

	attrs := []domain.Attr{
		{Key: "package_type", Value: packageType},
		{Key: "manifest_entries", Value: entries},
	}
	if rm.Manifest.HasOutput() {
		attrs = append(attrs, domain.Attr{Key: "manifest", Value: FileTarget(rm.Manifest.Path)})
	}
	if transform != nil {
		attrs = append(attrs,
			domain.Attr{Key: "preprocess_java_classes_deps", Value: []string{Local(transform.Name)}},
			domain.Attr{Key: "preprocess_java_classes_bash", Value: TransformCommand(m.Transforms, settings)},
		)
	}

	return domain.NewRule(traits.BinaryRule, Bin(m.Name), deps, attrs...)
}
