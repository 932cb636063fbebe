// Package buckfile renders rules into Buck rule files and reads them back.
package buckfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/bazelbuild/bazel-gazelle/rule"
	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/zerr"
)

// Header opens every generated rule file.
const Header = "# This is a generated file. Do not modify directly.\n"

var _ ports.RuleWriter = (*Writer)(nil)

// Writer implements ports.RuleWriter using gazelle's rule file model.
type Writer struct {
	reader *Reader
}

// NewWriter creates a new Writer that verifies its output with reader.
func NewWriter(reader *Reader) *Writer {
	return &Writer{reader: reader}
}

// Render returns the rule file content for rules in the given order.
// The output is read back before it is returned so a file that declares the
// same name twice is never produced.
func (w *Writer) Render(rules []domain.Rule) ([]byte, error) {
	f := rule.EmptyFile(domain.DefaultBuckFileName, "")

	for i := range rules {
		r, err := buildRule(&rules[i])
		if err != nil {
			return nil, err
		}
		r.Insert(f)
	}

	var buf bytes.Buffer
	buf.WriteString(Header)
	if len(rules) > 0 {
		buf.WriteString("\n")
		buf.Write(f.Format())
	}
	out := buf.Bytes()

	if _, err := w.reader.Parse(domain.DefaultBuckFileName, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Write renders rules and writes them to path, creating parent directories.
func (w *Writer) Write(path string, rules []domain.Rule) error {
	data, err := w.Render(rules)
	if err != nil {
		return zerr.With(err, "path", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRuleFileWriteFailed.Error()), "path", path)
	}
	//nolint:gosec // Path is constructed from the project layout
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRuleFileWriteFailed.Error()), "path", path)
	}
	return nil
}

func buildRule(in *domain.Rule) (*rule.Rule, error) {
	r := rule.NewRule(string(in.Kind), in.Name)

	for _, attr := range in.Attrs {
		if isEmpty(attr.Value) {
			continue
		}
		if g, ok := attr.Value.(domain.Glob); ok {
			r.SetAttr(attr.Key, rule.GlobValue{Patterns: g.Patterns, Excludes: g.Excludes})
			continue
		}
		r.SetAttr(attr.Key, attr.Value)
	}
	if len(in.Deps) > 0 {
		r.SetAttr("deps", in.Deps)
	}
	if len(in.Labels) > 0 {
		r.SetAttr("labels", in.Labels)
	}
	if len(in.Visibility) > 0 {
		r.SetAttr("visibility", in.Visibility)
	}

	for _, option := range in.ExtraOptions {
		key, expr, err := parseExtraOption(option)
		if err != nil {
			return nil, zerr.With(err, "rule", in.Name)
		}
		r.SetAttr(key, expr)
	}

	return r, nil
}

// parseExtraOption turns "key = expression" into an attribute key and its
// parsed expression by loading it as the keyword argument of a call.
func parseExtraOption(option string) (string, any, error) {
	key, _, ok := strings.Cut(option, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, zerr.With(domain.ErrInvalidExtraOption, "option", option)
	}

	f, err := rule.LoadData("extra_option", "", []byte("extra(\n"+option+",\n)\n"))
	if err != nil {
		return "", nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidExtraOption.Error()), "option", option)
	}
	if len(f.Rules) != 1 {
		return "", nil, zerr.With(domain.ErrInvalidExtraOption, "option", option)
	}

	expr := f.Rules[0].Attr(key)
	if expr == nil {
		return "", nil, zerr.With(domain.ErrInvalidExtraOption, "option", option)
	}
	return key, expr, nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case map[string]string:
		return len(v) == 0
	case domain.Glob:
		return len(v.Patterns) == 0
	default:
		return false
	}
}
