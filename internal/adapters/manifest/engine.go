// Package manifest implements Android manifest editing and merging on an XML DOM.
package manifest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"go.trai.ch/buckle/internal/core/domain"
	"go.trai.ch/buckle/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	androidName      = "android:name"
	androidMinSdk    = "android:minSdkVersion"
	androidTargetSdk = "android:targetSdkVersion"
	usesSdkTag       = "uses-sdk"
	packageAttr      = "package"
	toolsSpace       = "tools"
	toolsNode        = "tools:node"
	toolsReplace     = "tools:replace"

	nodeRemove  = "remove"
	nodeReplace = "replace"
)

var _ ports.ManifestMergeEngine = (*Engine)(nil)

// Engine implements ports.ManifestMergeEngine using etree.
type Engine struct{}

// NewEngine creates a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Merge combines the primary manifest with the overlays, in order.
//
// Elements are matched by tag and android:name. Unmatched overlay elements are
// appended. Matched elements merge attributes; a conflicting value is an error
// unless the overlay element allows it through tools:replace or
// tools:node="replace". tools:node="remove" drops the matched element.
func (e *Engine) Merge(primary string, overlays []string) (domain.MergeResult, error) {
	base, err := readDocument(primary)
	if err != nil {
		return domain.MergeResult{}, err
	}

	m := &merger{primary: primary}
	basePackage := strings.TrimSpace(base.Root().SelectAttrValue(packageAttr, ""))

	for _, overlayPath := range overlays {
		overlay, err := readDocument(overlayPath)
		if err != nil {
			return domain.MergeResult{}, err
		}
		m.overlay = overlayPath

		root := overlay.Root()
		if pkg := strings.TrimSpace(root.SelectAttrValue(packageAttr, "")); pkg != "" && pkg != basePackage {
			m.report(domain.SeverityError, root,
				fmt.Sprintf("package %q does not match %q declared in %s", pkg, basePackage, primary))
		}

		m.mergeAttrs(base.Root(), root)
		m.mergeChildren(base.Root(), root)
	}

	stripTools(base.Root())
	base.Indent(4)

	doc, err := base.WriteToBytes()
	if err != nil {
		return domain.MergeResult{}, zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", primary)
	}

	return domain.MergeResult{Document: doc, Diagnostics: m.diagnostics}, nil
}

// InjectSdk sets min and target SDK versions on the first uses-sdk element.
func (e *Engine) InjectSdk(document []byte, minSdk, targetSdk string) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(document); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}
	root := doc.Root()
	if root == nil {
		return nil, domain.ErrManifestParseFailed
	}

	usesSdk := root.SelectElement(usesSdkTag)
	if usesSdk == nil {
		usesSdk = root.CreateElement(usesSdkTag)
	}
	usesSdk.CreateAttr(androidMinSdk, minSdk)
	usesSdk.CreateAttr(androidTargetSdk, targetSdk)

	doc.Indent(4)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}
	return out, nil
}

// ReadPackage returns the trimmed package attribute of the manifest's root element.
func (e *Engine) ReadPackage(path string) (string, error) {
	doc, err := readDocument(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(doc.Root().SelectAttrValue(packageAttr, "")), nil
}

func readDocument(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}
	if doc.Root() == nil {
		return nil, zerr.With(domain.ErrManifestParseFailed, "path", path)
	}
	doc.Unindent()
	return doc, nil
}

type merger struct {
	primary     string
	overlay     string
	diagnostics domain.Diagnostics
}

func (m *merger) report(severity domain.Severity, el *etree.Element, message string) {
	m.diagnostics = append(m.diagnostics, domain.Diagnostic{
		Severity: severity,
		Message:  message,
		Location: location(m.overlay, el),
	})
}

func (m *merger) mergeChildren(base, overlay *etree.Element) {
	for _, child := range overlay.ChildElements() {
		match := findMatch(base, child)

		switch child.SelectAttrValue(toolsNode, "") {
		case nodeRemove:
			if match == nil {
				m.report(domain.SeverityWarning, child, "nothing to remove for "+describe(child))
				continue
			}
			base.RemoveChild(match)
			m.report(domain.SeverityInfo, child, "removed "+describe(child))
		case nodeReplace:
			replacement := child.Copy()
			if match == nil {
				base.AddChild(replacement)
				continue
			}
			base.InsertChildAt(match.Index(), replacement)
			base.RemoveChild(match)
		default:
			if match == nil {
				base.AddChild(child.Copy())
				continue
			}
			m.mergeAttrs(match, child)
			m.mergeChildren(match, child)
		}
	}
}

// isSdkVersion reports whether key is a uses-sdk version attribute.
// Those take the value of the last layer.
func isSdkVersion(el *etree.Element, key string) bool {
	return el.Tag == usesSdkTag && (key == androidMinSdk || key == androidTargetSdk)
}

func (m *merger) mergeAttrs(base, overlay *etree.Element) {
	replaceable := replaceSet(overlay)

	for _, attr := range overlay.Attr {
		key := attr.FullKey()
		if attr.Space == toolsSpace || attr.Space == "xmlns" || key == packageAttr {
			continue
		}

		existing := base.SelectAttr(key)
		switch {
		case existing == nil:
			base.CreateAttr(key, attr.Value)
		case existing.Value == attr.Value:
		case slices.Contains(replaceable, key), isSdkVersion(overlay, key):
			existing.Value = attr.Value
		default:
			m.report(domain.SeverityError, overlay, fmt.Sprintf(
				"attribute %s@%s value=(%s) conflicts with value=(%s) from %s",
				overlay.Tag, key, attr.Value, existing.Value, m.primary))
		}
	}

	// Namespace declarations from overlays are needed by the attributes they carry.
	for _, attr := range overlay.Attr {
		if attr.Space == "xmlns" && base.SelectAttr(attr.FullKey()) == nil {
			base.CreateAttr(attr.FullKey(), attr.Value)
		}
	}
}

func replaceSet(el *etree.Element) []string {
	value := el.SelectAttrValue(toolsReplace, "")
	if value == "" {
		return nil
	}
	var keys []string
	for key := range strings.SplitSeq(value, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

func findMatch(parent, el *etree.Element) *etree.Element {
	name := el.SelectAttrValue(androidName, "")
	for _, candidate := range parent.SelectElements(el.Tag) {
		if candidate.Space == el.Space && candidate.SelectAttrValue(androidName, "") == name {
			return candidate
		}
	}
	return nil
}

func describe(el *etree.Element) string {
	if name := el.SelectAttrValue(androidName, ""); name != "" {
		return el.Tag + " " + name
	}
	return el.Tag
}

func location(file string, el *etree.Element) string {
	loc := file + ":" + el.GetPath()
	if name := el.SelectAttrValue(androidName, ""); name != "" {
		loc += "[" + name + "]"
	}
	return loc
}

// stripTools removes merge instructions and the tools namespace declaration.
func stripTools(el *etree.Element) {
	kept := el.Attr[:0]
	for _, attr := range el.Attr {
		if attr.Space == toolsSpace || (attr.Space == "xmlns" && attr.Key == toolsSpace) {
			continue
		}
		kept = append(kept, attr)
	}
	el.Attr = kept

	for _, child := range el.ChildElements() {
		stripTools(child)
	}
}
