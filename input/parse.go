package input

import (
	"strings"
)

// directiveTokens recognizes a directive line: leading whitespace and a
// single comment opener ("//" or "/*") are tolerated before the `@` token.
// Returns the whitespace-split tokens and true if the line opens with `@`
// after that stripping.
func directiveTokens(line string) ([]string, bool) {
	s := strings.TrimLeft(line, " \t")
	for _, opener := range []string{"//", "/*"} {
		if strings.HasPrefix(s, opener) {
			s = strings.TrimLeft(s[len(opener):], " \t")
			break
		}
	}
	if !strings.HasPrefix(s, "@") {
		return nil, false
	}
	return strings.Fields(s), true
}

// parser holds the mutable state of a single top-to-bottom pass over the
// source lines building Input.Snippets and Input.Programs.
type parser struct {
	in *Input

	open       bool
	openKind   SnippetKind
	openName   string
	openLine   int
	openLines  []int
	moduleSeen bool
}

// Parse tokenizes path's lines (already loaded into in.Lines) and
// populates in.Snippets, in.Programs, in.TypeMap and the lookup indices.
// Parse errors are accumulated into in.Errors rather than returned, so a
// single malformed file reports every problem it can find in one pass.
func Parse(in *Input) {
	in.TypeMap = map[string]string{}
	in.Programs = map[string]Program{}
	in.index = map[string]int{}
	in.blockIndex = map[string]int{}
	in.vsIndex = map[string]int{}
	in.fsIndex = map[string]int{}

	p := &parser{in: in}
	for lineIdx, line := range in.Lines {
		tokens, isDirective := directiveTokens(line)
		if !isDirective {
			p.addSourceLine(lineIdx)
			continue
		}
		switch tokens[0] {
		case "@block":
			p.openSnippet(Block, tokens, lineIdx)
		case "@vs":
			p.openSnippet(Vertex, tokens, lineIdx)
		case "@fs":
			p.openSnippet(Fragment, tokens, lineIdx)
		case "@end":
			p.closeSnippet(lineIdx)
		case "@include_block":
			p.includeBlock(tokens, lineIdx)
		case "@program":
			p.program(tokens, lineIdx)
		case "@type":
			p.typeDirective(tokens, lineIdx)
		case "@module":
			p.moduleDirective(tokens, lineIdx)
		default:
			// Unrecognized `@`-token: regular source inside a snippet,
			// an error at top level.
			if p.open {
				p.addSourceLine(lineIdx)
			} else {
				in.Errors.Addf(in.Path, lineIdx, "unknown directive %q outside any snippet", tokens[0])
			}
		}
	}

	if p.open {
		in.Errors.Addf(in.Path, p.openLine, "unterminated @%s %q (missing @end)", p.openKind, p.openName)
	}

	for name, prog := range in.Programs {
		if _, ok := in.vsIndex[prog.VSName]; !ok {
			in.Errors.Addf(in.Path, prog.DeclLine, "program %q references unknown vertex shader %q", name, prog.VSName)
		}
		if _, ok := in.fsIndex[prog.FSName]; !ok {
			in.Errors.Addf(in.Path, prog.DeclLine, "program %q references unknown fragment shader %q", name, prog.FSName)
		}
	}

	for i := range in.Snippets {
		s := &in.Snippets[i]
		if s.Kind != Block && len(s.Lines) == 0 {
			in.Errors.Addf(in.Path, s.DeclLine, "%s %q has no source lines", s.Kind, s.Name)
		}
	}
}

func (p *parser) addSourceLine(lineIdx int) {
	if p.open {
		p.openLines = append(p.openLines, lineIdx)
	}
	// Top-level blank/code lines outside any snippet are simply ignored;
	// they are not an error per spec.
}

func (p *parser) openSnippet(kind SnippetKind, tokens []string, lineIdx int) {
	in := p.in
	if len(tokens) < 2 {
		in.Errors.Addf(in.Path, lineIdx, "@%s requires a name", kind)
		return
	}
	name := tokens[1]
	if p.open {
		in.Errors.Addf(in.Path, p.openLine, "unterminated @%s %q (missing @end before line %d)", p.openKind, p.openName, lineIdx+1)
		p.flushOpenSnippet()
	}

	kindIndex := kindIndexMap(in, kind)
	if _, dup := kindIndex[name]; dup {
		in.Errors.Addf(in.Path, lineIdx, "%s %q redefined", kind, name)
	}

	p.open = true
	p.openKind = kind
	p.openName = name
	p.openLine = lineIdx
	p.openLines = nil
}

func (p *parser) closeSnippet(lineIdx int) {
	in := p.in
	if !p.open {
		in.Errors.Addf(in.Path, lineIdx, "@end without a matching open snippet")
		return
	}
	p.flushOpenSnippet()
}

// flushOpenSnippet commits the currently-open snippet to in.Snippets and
// clears parser state. Called both on a well-formed @end and when a new
// @block/@vs/@fs is opened without a preceding @end (error already raised
// by the caller; we still keep whatever content was accumulated so later
// references don't cascade into spurious "unknown block" errors).
func (p *parser) flushOpenSnippet() {
	in := p.in
	idx := len(in.Snippets)
	in.Snippets = append(in.Snippets, Snippet{
		Kind:     p.openKind,
		Name:     p.openName,
		DeclLine: p.openLine,
		Lines:    p.openLines,
	})
	in.index[p.openName] = idx
	kindIndexMap(in, p.openKind)[p.openName] = idx

	p.open = false
	p.openName = ""
	p.openLines = nil
}

func kindIndexMap(in *Input, kind SnippetKind) map[string]int {
	switch kind {
	case Block:
		return in.blockIndex
	case Vertex:
		return in.vsIndex
	default:
		return in.fsIndex
	}
}

func (p *parser) includeBlock(tokens []string, lineIdx int) {
	in := p.in
	if !p.open {
		in.Errors.Addf(in.Path, lineIdx, "@include_block outside any snippet")
		return
	}
	if len(tokens) < 2 {
		in.Errors.Addf(in.Path, lineIdx, "@include_block requires a block name")
		return
	}
	name := tokens[1]
	if p.open && p.openKind == Block && p.openName == name {
		in.Errors.Addf(in.Path, lineIdx, "block %q cannot include itself", name)
		return
	}
	blockIdx, ok := in.blockIndex[name]
	if !ok {
		in.Errors.Addf(in.Path, lineIdx, "@include_block references unknown or not-yet-defined block %q", name)
		return
	}
	p.openLines = append(p.openLines, in.Snippets[blockIdx].Lines...)
}

func (p *parser) program(tokens []string, lineIdx int) {
	in := p.in
	if len(tokens) < 4 {
		in.Errors.Addf(in.Path, lineIdx, "@program requires NAME VS_NAME FS_NAME")
		return
	}
	name, vs, fs := tokens[1], tokens[2], tokens[3]
	if _, dup := in.Programs[name]; dup {
		in.Errors.Addf(in.Path, lineIdx, "program %q redefined", name)
		return
	}
	in.Programs[name] = Program{Name: name, VSName: vs, FSName: fs, DeclLine: lineIdx}
}

func (p *parser) typeDirective(tokens []string, lineIdx int) {
	in := p.in
	if len(tokens) < 3 {
		in.Errors.Addf(in.Path, lineIdx, "@type requires NAME TYPESTR")
		return
	}
	name := tokens[1]
	typeStr := strings.Join(tokens[2:], " ")
	if _, dup := in.TypeMap[name]; dup {
		in.Errors.Addf(in.Path, lineIdx, "@type %q redefined", name)
		return
	}
	in.TypeMap[name] = typeStr
}

func (p *parser) moduleDirective(tokens []string, lineIdx int) {
	in := p.in
	if len(tokens) < 2 {
		in.Errors.Addf(in.Path, lineIdx, "@module requires a name")
		return
	}
	if p.moduleSeen {
		in.Errors.Addf(in.Path, lineIdx, "@module redefined")
		return
	}
	p.moduleSeen = true
	in.Module = tokens[1]
}
