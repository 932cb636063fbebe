package composer

import (
	"strings"

	"github.com/alessio/shellescape"
	"go.trai.ch/buckle/internal/core/domain"
)

const transformPrefixCommand = "java -Dokbuck.inJarsDir=$IN_JARS_DIR -Dokbuck.outJarsDir=$OUT_JARS_DIR " +
	"-Dokbuck.androidBootClasspath=$ANDROID_BOOTCLASSPATH "

// TransformRule composes the genrule that runs a module's bytecode transforms,
// or nil when none are configured.
func TransformRule(m *domain.Module, settings *domain.Settings) *domain.Rule {
	if len(m.Transforms) == 0 || !m.Traits().Android {
		return nil
	}

	r := domain.NewRule(domain.RuleGenrule, Transform(m.Name), nil,
		domain.Attr{Key: "out", Value: Transform(m.Name) + ".sh"},
		domain.Attr{Key: "cmd", Value: "echo " + shellescape.Quote(TransformCommand(m.Transforms, settings)) + " > $OUT"},
		domain.Attr{Key: "executable", Value: true},
	)
	return &r
}

// TransformRunner composes the java_binary that bundles the transform runner
// from its cached dependencies.
func TransformRunner(deps []domain.ExternalDependency, settings *domain.Settings) domain.Rule {
	names := make([]string, len(deps))
	for i, dep := range deps {
		names[i] = dep.RuleName(settings.CacheDir)
	}
	return domain.NewRule(domain.RuleJavaBinary, domain.TransformRuleName, names,
		domain.Attr{Key: "main_class", Value: settings.TransformMainClass},
	)
}

// TransformCommand returns the shell command that runs every transform in order.
func TransformCommand(transforms []domain.Transform, settings *domain.Settings) string {
	commands := make([]string, len(transforms))
	for i, t := range transforms {
		commands[i] = transformCommand(t, settings.TransformRunner, settings.TransformMainClass)
	}
	return strings.Join(commands, " ")
}

func transformCommand(t domain.Transform, runner, mainClass string) string {
	var b strings.Builder
	b.WriteString(transformPrefixCommand)
	if t.Class != "" {
		b.WriteString("-Dokbuck.transformClass=" + shellescape.Quote(t.Class) + " ")
	}
	if t.ConfigFile != "" {
		b.WriteString("-Dokbuck.configFile=" + shellescape.Quote(t.ConfigFile) + " ")
	}
	b.WriteString("-cp $(location " + runner + ") " + mainClass + "; ")
	return b.String()
}
