package buckfile

import (
	"fmt"
	"os"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/zerr"
)

const threadKeyFile = "buckle:rulefile"

// DeclaredRule is a rule call found while evaluating a rule file.
type DeclaredRule struct {
	Kind domain.RuleKind
	Name string
	// Attrs holds keyword arguments converted to Go values.
	Attrs map[string]any
}

// StringList returns a list attribute as strings.
func (d DeclaredRule) StringList(key string) []string {
	values, _ := d.Attrs[key].([]any)
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// RuleFile is the evaluated content of one rule file.
type RuleFile struct {
	Path  string
	Rules []DeclaredRule
	names map[string]struct{}
	dup   error
}

// Names returns the declared rule names in sorted order.
func (f *RuleFile) Names() []string {
	names := make([]string, 0, len(f.Rules))
	for _, r := range f.Rules {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names
}

// Rule returns the declared rule with the given name.
func (f *RuleFile) Rule(name string) (DeclaredRule, bool) {
	for _, r := range f.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return DeclaredRule{}, false
}

func (f *RuleFile) add(r DeclaredRule) error {
	if _, exists := f.names[r.Name]; exists {
		f.dup = zerr.With(zerr.With(domain.ErrDuplicateRule, "name", r.Name), "path", f.Path)
		return f.dup
	}
	f.names[r.Name] = struct{}{}
	f.Rules = append(f.Rules, r)
	return nil
}

// Reader evaluates rule files with a Starlark interpreter in which every rule
// kind the generator emits is a builtin that records its call.
type Reader struct {
	predeclared starlark.StringDict
}

// NewReader creates a new Reader.
func NewReader() *Reader {
	predeclared := make(starlark.StringDict, len(domain.KnownRuleKinds))
	for _, kind := range domain.KnownRuleKinds {
		predeclared[string(kind)] = starlark.NewBuiltin(string(kind), recordRule)
	}
	predeclared["glob"] = starlark.NewBuiltin("glob", glob)
	return &Reader{predeclared: predeclared}
}

// Read evaluates the rule file at path.
func (r *Reader) Read(path string) (*RuleFile, error) {
	//nolint:gosec // Path is constructed from the project layout
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRuleFileReadFailed.Error()), "path", path)
	}
	return r.Parse(path, data)
}

// Parse evaluates src as a rule file named filename.
func (r *Reader) Parse(filename string, src []byte) (*RuleFile, error) {
	file := &RuleFile{Path: filename, names: make(map[string]struct{})}

	thread := &starlark.Thread{Name: filename}
	thread.SetLocal(threadKeyFile, file)

	if _, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, r.predeclared); err != nil {
		if file.dup != nil {
			return nil, file.dup
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRuleFileReadFailed.Error()), "path", filename)
	}
	return file, nil
}

func recordRule(
	thread *starlark.Thread,
	fn *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%s: unexpected positional arguments", fn.Name())
	}

	declared := DeclaredRule{
		Kind:  domain.RuleKind(fn.Name()),
		Attrs: make(map[string]any, len(kwargs)),
	}
	for _, kv := range kwargs {
		key := string(kv[0].(starlark.String))
		value, err := toGo(kv[1])
		if err != nil {
			return nil, fmt.Errorf("%s: attribute %s: %w", fn.Name(), key, err)
		}
		declared.Attrs[key] = value
	}

	name, ok := declared.Attrs["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("%s: missing name", fn.Name())
	}
	declared.Name = name

	file, ok := thread.Local(threadKeyFile).(*RuleFile)
	if !ok {
		return nil, fmt.Errorf("%s: no rule file in thread", fn.Name())
	}
	if err := file.add(declared); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

// glob evaluates to its include patterns; nothing is matched against the file system.
func glob(
	_ *starlark.Thread,
	fn *starlark.Builtin,
	args starlark.Tuple,
	kwargs []starlark.Tuple,
) (starlark.Value, error) {
	var include, exclude *starlark.List
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "include", &include, "exclude?", &exclude); err != nil {
		return nil, err
	}
	return include, nil
}

func toGo(v starlark.Value) (any, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return string(v), nil
	case starlark.Bool:
		return bool(v), nil
	case starlark.Int:
		i, ok := v.Int64()
		if !ok {
			return nil, fmt.Errorf("integer %s out of range", v)
		}
		return i, nil
	case *starlark.List:
		return iterableToGo(v)
	case starlark.Tuple:
		return iterableToGo(v)
	case *starlark.Dict:
		out := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key %s is not a string", item[0])
			}
			value, err := toGo(item[1])
			if err != nil {
				return nil, err
			}
			out[string(key)] = value
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", v.Type())
	}
}

func iterableToGo(v starlark.Indexable) ([]any, error) {
	out := make([]any, v.Len())
	for i := range v.Len() {
		value, err := toGo(v.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = value
	}
	return out, nil
}
