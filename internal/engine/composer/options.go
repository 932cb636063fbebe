package composer

import (
	"slices"
	"strings"

	"go.starlark.net/syntax"
	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/zerr"
)

// filteredCompilerOptions are handled by the apt scope and dropped with their argument.
var filteredCompilerOptions = []string{"-s", "-processorpath"}

// FilterCompilerOptions returns options without the filtered flags and the
// argument that follows each of them. Only the first occurrence of a flag is removed.
func FilterCompilerOptions(options []string) []string {
	out := slices.Clone(options)
	for _, flag := range filteredCompilerOptions {
		i := slices.Index(out, flag)
		if i < 0 {
			continue
		}
		end := min(i+2, len(out))
		out = slices.Delete(out, i, end)
	}
	return out
}

// ValidateExtraOption checks that option has the form "key = expression" where
// expression parses as a Starlark expression.
func ValidateExtraOption(option string) error {
	key, value, ok := strings.Cut(option, "=")
	key = strings.TrimSpace(key)
	if !ok || !isIdentifier(key) {
		return zerr.With(domain.ErrInvalidExtraOption, "option", option)
	}

	if _, err := (&syntax.FileOptions{}).ParseExpr("extra_option", strings.TrimSpace(value), 0); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidExtraOption.Error()), "option", option)
	}
	return nil
}

// applyExtraOptions appends the configured options to every rule of a matching kind.
func applyExtraOptions(rules []domain.Rule, extra map[domain.RuleKind][]string) error {
	if len(extra) == 0 {
		return nil
	}
	for i := range rules {
		options := extra[rules[i].Kind]
		for _, option := range options {
			if err := ValidateExtraOption(option); err != nil {
				return zerr.With(err, "rule", rules[i].Name)
			}
		}
		rules[i].ExtraOptions = append(rules[i].ExtraOptions, options...)
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
