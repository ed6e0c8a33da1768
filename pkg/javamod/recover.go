// SPDX-License-Identifier: MPL-2.0

package javamod

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

type (
	token struct {
		text    string
		comment bool
	}

	// tokenScanner reads directives from the source tokens of a tree with
	// syntax errors. Error recovery of the grammar engine may attach tokens of
	// one directive to its neighbour, so the tree shape is not trusted there.
	tokenScanner struct {
		toks []token
		pos  int
	}
)

// recoverDescriptor rebuilds a descriptor from a tree with syntax errors.
// Only directives terminated by ';' are kept: a broken directive is dropped
// and scanning resumes at the next directive keyword.
func recoverDescriptor(root *sitter.Node, src []byte) *Descriptor {
	s := &tokenScanner{toks: leafTokens(root, src, nil)}
	b := &builder{src: src, imports: make(map[string]string)}
	b.d.provides = make(map[string][]string)

	if !s.header(b) {
		return Empty
	}
	for s.pos < len(s.toks) {
		t := s.toks[s.pos]
		s.pos++
		if t.comment {
			continue
		}
		start := s.pos
		var ok bool
		switch t.text {
		case "}":
			return &b.d
		case "requires":
			ok = s.requires(b)
		case "exports":
			ok = s.exportsOrOpens(&b.d.exports)
		case "opens":
			ok = s.exportsOrOpens(&b.d.opens)
		case "uses":
			ok = s.uses(b)
		case "provides":
			ok = s.provides(b)
		default:
			continue
		}
		if !ok {
			s.pos = start
		}
	}
	return &b.d
}

// header consumes imports and the module declaration up to its '{'.
func (s *tokenScanner) header(b *builder) bool {
	prev := ""
	for s.pos < len(s.toks) {
		t := s.toks[s.pos]
		s.pos++
		if t.comment {
			continue
		}
		switch t.text {
		case "import":
			start := s.pos
			if !s.importDecl(b.imports) {
				s.pos = start
			}
		case "module":
			start := s.pos
			name := s.name()
			if name != "" && s.accept("{") {
				b.d.moduleName = name
				b.d.open = prev == "open"
				return true
			}
			s.pos = start
		}
		prev = t.text
	}
	return false
}

func (s *tokenScanner) importDecl(imports map[string]string) bool {
	if s.accept("static") {
		return false
	}
	fqn := s.name()
	if fqn == "" || !s.accept(";") {
		return false
	}
	imports[fqn[strings.LastIndex(fqn, ".")+1:]] = fqn
	return true
}

func (s *tokenScanner) requires(b *builder) bool {
	var static, transitive, runtime bool
modifiers:
	for s.pos < len(s.toks) {
		t := s.toks[s.pos]
		switch {
		case t.comment:
			runtime = runtime || strings.TrimSpace(t.text) == RuntimeMarker
		case t.text == "static":
			static = true
		case t.text == "transitive":
			transitive = true
		default:
			break modifiers
		}
		s.pos++
	}
	target := s.name()
	if target == "" || !s.accept(";") {
		return false
	}
	kind := classify(static, transitive, runtime)
	b.d.requires[kind] = append(b.d.requires[kind], target)
	return true
}

func (s *tokenScanner) exportsOrOpens(dst *[]string) bool {
	pkg := s.name()
	if pkg == "" {
		return false
	}
	if s.accept("to") {
		if !s.nameList() {
			return false
		}
	}
	if !s.accept(";") {
		return false
	}
	*dst = append(*dst, pkg)
	return true
}

func (s *tokenScanner) uses(b *builder) bool {
	service := s.name()
	if service == "" || !s.accept(";") {
		return false
	}
	b.d.uses = append(b.d.uses, b.resolve(service))
	return true
}

func (s *tokenScanner) provides(b *builder) bool {
	service := s.name()
	if service == "" || !s.accept("with") {
		return false
	}
	var providers []string
	for {
		name := s.name()
		if name == "" {
			return false
		}
		providers = append(providers, b.resolve(name))
		if !s.accept(",") {
			break
		}
	}
	if !s.accept(";") {
		return false
	}
	service = b.resolve(service)
	if _, seen := b.d.provides[service]; !seen {
		b.d.services = append(b.d.services, service)
	}
	b.d.provides[service] = append(b.d.provides[service], providers...)
	return true
}

func (s *tokenScanner) nameList() bool {
	for {
		if s.name() == "" {
			return false
		}
		if !s.accept(",") {
			return true
		}
	}
}

// name reads a dotted name, skipping comments between its segments. Nothing
// is consumed when no name starts at the current position.
func (s *tokenScanner) name() string {
	i, first := s.peek()
	if !isIdentifier(first) {
		return ""
	}
	s.pos = i + 1
	parts := []string{first}
	for {
		dot, text := s.peek()
		if text != "." {
			break
		}
		seg, segText := s.peekFrom(dot + 1)
		if !isIdentifier(segText) {
			break
		}
		parts = append(parts, segText)
		s.pos = seg + 1
	}
	return strings.Join(parts, ".")
}

// accept consumes the next non-comment token when it equals text.
func (s *tokenScanner) accept(text string) bool {
	i, t := s.peek()
	if t != text {
		return false
	}
	s.pos = i + 1
	return true
}

func (s *tokenScanner) peek() (int, string) { return s.peekFrom(s.pos) }

func (s *tokenScanner) peekFrom(i int) (int, string) {
	for ; i < len(s.toks); i++ {
		if !s.toks[i].comment {
			return i, s.toks[i].text
		}
	}
	return i, ""
}

// leafTokens flattens a tree into its source tokens in order. Tokens the
// grammar engine inserted during error recovery are dropped.
func leafTokens(node *sitter.Node, src []byte, dst []token) []token {
	if node.ChildCount() == 0 {
		if node.IsMissing() || node.StartByte() == node.EndByte() {
			return dst
		}
		return append(dst, token{text: node.Content(src), comment: isComment(node)})
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		dst = leafTokens(node.Child(i), src, dst)
	}
	return dst
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
