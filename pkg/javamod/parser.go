// SPDX-License-Identifier: MPL-2.0

package javamod

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Parse parses descriptor source text. Text without a module declaration
// yields Empty.
func Parse(text string) *Descriptor {
	d, err := ParseContext(context.Background(), []byte(text))
	if err != nil {
		return Empty
	}
	return d
}

// ParseFile reads and parses a module-info.java file. A missing file yields
// Empty without error; other read failures are returned.
func ParseFile(path string) (*Descriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty, nil
		}
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	d, err := ParseContext(context.Background(), content)
	if err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}
	if d.IsEmpty() {
		return Empty, nil
	}
	d.path = path
	return d, nil
}

// ParseContext parses descriptor source. An error is only returned when the
// grammar engine itself fails (for example on context cancellation). Source
// with syntax errors keeps every directive terminated by ';'; source without a
// module declaration yields Empty.
func ParseContext(ctx context.Context, content []byte) (*Descriptor, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(java.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return recoverDescriptor(root, content), nil
	}
	decl := findModuleDeclaration(root)
	if decl == nil {
		return Empty, nil
	}

	b := &builder{src: content, imports: collectImports(root, content)}
	b.d.provides = make(map[string][]string)
	b.declaration(decl)
	if b.d.moduleName == "" || !b.hasBody {
		return Empty, nil
	}
	return &b.d, nil
}

type builder struct {
	src     []byte
	imports map[string]string // simple name -> fully qualified name
	hasBody bool
	d       Descriptor
}

func (b *builder) declaration(decl *sitter.Node) {
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		switch {
		case child.Type() == "open":
			b.d.open = true
		case isName(child) && b.d.moduleName == "":
			b.d.moduleName = qualifiedName(child, b.src)
		case child.Type() == "module_body" && wellFormedBody(child):
			b.body(child)
			b.hasBody = true
		}
	}
}

// wellFormedBody rejects bodies the grammar engine synthesized during error
// recovery.
func wellFormedBody(node *sitter.Node) bool {
	if node.ChildCount() == 0 {
		return false
	}
	open := node.Child(0)
	return open.Type() == "{" && !open.IsMissing()
}

// body visits every directive of the module body. Directives may be wrapped
// in a generic module_directive node depending on the grammar revision, so
// the keyword token decides the kind.
func (b *builder) body(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if isComment(child) {
			continue
		}
		switch keyword(child, b.src) {
		case "requires":
			b.requires(child)
		case "provides":
			b.provides(child)
		case "exports":
			b.d.exports = appendFirstName(b.d.exports, child, b.src)
		case "opens":
			b.d.opens = appendFirstName(b.d.opens, child, b.src)
		case "uses":
			if names := childNames(child, b.src); len(names) > 0 {
				b.d.uses = append(b.d.uses, b.resolve(names[0]))
			}
		default:
			// module_directive wrapper without its own keyword
			b.body(child)
		}
	}
}

func (b *builder) requires(node *sitter.Node) {
	var static, transitive, runtime, afterKeyword bool
	target := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		text := child.Content(b.src)
		switch {
		case isComment(child):
			if afterKeyword && target == "" && strings.TrimSpace(text) == RuntimeMarker {
				runtime = true
			}
		case text == "requires" && !afterKeyword:
			afterKeyword = true
		case child.Type() == "requires_modifier":
			static = static || strings.Contains(text, "static")
			transitive = transitive || strings.Contains(text, "transitive")
		case text == "static" && target == "":
			static = true
		case text == "transitive" && target == "":
			transitive = true
		case isName(child):
			target = qualifiedName(child, b.src)
		}
	}
	if target == "" {
		return
	}
	kind := classify(static, transitive, runtime)
	b.d.requires[kind] = append(b.d.requires[kind], target)
}

func (b *builder) provides(node *sitter.Node) {
	var service string
	var providers []string
	withSeen := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch {
		case isComment(child):
		case child.Content(b.src) == "with":
			withSeen = true
		case isName(child):
			name := b.resolve(qualifiedName(child, b.src))
			if withSeen {
				providers = append(providers, name)
			} else if service == "" {
				service = name
			}
		}
	}
	if service == "" {
		return
	}
	if _, seen := b.d.provides[service]; !seen {
		b.d.services = append(b.d.services, service)
	}
	b.d.provides[service] = append(b.d.provides[service], providers...)
}

// resolve replaces a simple name introduced by a single-type import with its
// fully qualified form. Other names are returned unchanged.
func (b *builder) resolve(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	if fqn, ok := b.imports[name]; ok {
		return fqn
	}
	return name
}

func findModuleDeclaration(node *sitter.Node) *sitter.Node {
	if node.Type() == "module_declaration" {
		return node
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if found := findModuleDeclaration(node.NamedChild(i)); found != nil {
			return found
		}
	}
	return nil
}

// collectImports maps simple names to the fully qualified names of
// single-type imports. Static and on-demand imports are ignored.
func collectImports(root *sitter.Node, src []byte) map[string]string {
	imports := make(map[string]string)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() != "import_declaration" {
			continue
		}
		onDemand, static := false, false
		fqn := ""
		for j := 0; j < int(node.ChildCount()); j++ {
			child := node.Child(j)
			switch {
			case child.Type() == "asterisk" || child.Content(src) == "*":
				onDemand = true
			case child.Content(src) == "static":
				static = true
			case isName(child):
				fqn = qualifiedName(child, src)
			}
		}
		if onDemand || static || fqn == "" {
			continue
		}
		simple := fqn[strings.LastIndex(fqn, ".")+1:]
		imports[simple] = fqn
	}
	return imports
}

// keyword returns the first non-comment token of a directive node.
func keyword(node *sitter.Node, src []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if isComment(child) {
			continue
		}
		if child.IsNamed() {
			return ""
		}
		return child.Content(src)
	}
	return ""
}

func childNames(node *sitter.Node, src []byte) []string {
	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if isName(child) {
			names = append(names, qualifiedName(child, src))
		}
	}
	return names
}

func appendFirstName(dst []string, node *sitter.Node, src []byte) []string {
	if names := childNames(node, src); len(names) > 0 {
		return append(dst, names[0])
	}
	return dst
}

// qualifiedName joins the identifier leaves of a (scoped) identifier,
// dropping comments that may sit between the segments.
func qualifiedName(node *sitter.Node, src []byte) string {
	if node.Type() == "identifier" {
		return node.Content(src)
	}
	var parts []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if isName(child) {
			parts = append(parts, qualifiedName(child, src))
		}
	}
	return strings.Join(parts, ".")
}

func isName(node *sitter.Node) bool {
	t := node.Type()
	return t == "identifier" || t == "scoped_identifier"
}

func isComment(node *sitter.Node) bool {
	switch node.Type() {
	case "comment", "line_comment", "block_comment":
		return true
	}
	return false
}
