// Package input implements the annotated-GLSL front end: it loads a source
// file, tokenizes the small `@`-directive language embedded in comments,
// and assembles the Snippet/Program tables later pipeline stages consume.
//
// Every later stage addresses a Snippet by its integer index into
// Input.Snippets, never by pointer — this keeps each stage's output a
// pure value tree, per the back-link-by-index design used throughout this
// module.
package input

import "github.com/gogpu/shdc/errs"

// SnippetKind distinguishes includable BLOCK snippets from the compilable
// VERTEX/FRAGMENT entry points.
type SnippetKind uint8

const (
	Block SnippetKind = iota
	Vertex
	Fragment
)

func (k SnippetKind) String() string {
	switch k {
	case Block:
		return "block"
	case Vertex:
		return "vs"
	case Fragment:
		return "fs"
	default:
		return "<invalid>"
	}
}

// Snippet is a named, kind-tagged region of the input source. Lines holds
// the include-resolved, flattened sequence of absolute zero-based indices
// into Input.Lines — every `@include_block` has already been expanded
// into the referenced BLOCK's own resolved Lines, so diagnostics raised
// against any index always map back to an authored source position.
type Snippet struct {
	Kind SnippetKind
	Name string
	// DeclLine is the zero-based line index of the opening directive
	// (`@block`/`@vs`/`@fs`), used to attribute errors that reference the
	// snippet as a whole rather than one of its lines.
	DeclLine int
	Lines    []int
}

// FirstLine returns the first resolved source line of the snippet, or
// DeclLine if the snippet has no resolved lines (e.g. an empty BLOCK).
func (s Snippet) FirstLine() int {
	if len(s.Lines) == 0 {
		return s.DeclLine
	}
	return s.Lines[0]
}

// Program pairs a vertex and a fragment snippet for emission.
type Program struct {
	Name     string
	VSName   string
	FSName   string
	DeclLine int
}

// Input is the immutable result of loading and parsing one annotated
// source file. A non-empty Errors list makes the Input invalid; later
// pipeline stages must not run against an invalid Input.
type Input struct {
	Path   string
	Lines  []string
	Module string // set by an optional top-level `@module` directive

	Snippets []Snippet
	TypeMap  map[string]string
	Programs map[string]Program

	// index maps every snippet name to its index regardless of kind; last
	// definition wins on a cross-kind collision. blockIndex/vsIndex/fsIndex
	// are the authoritative per-kind lookup tables used to resolve
	// `@include_block` and `@program` references.
	index      map[string]int
	blockIndex map[string]int
	vsIndex    map[string]int
	fsIndex    map[string]int

	Errors errs.List
}

// Valid reports whether parsing produced no fatal errors.
func (in *Input) Valid() bool {
	return !in.Errors.HasErrors()
}

// BlockIndex resolves a BLOCK snippet name to its index in Snippets.
func (in *Input) BlockIndex(name string) (int, bool) {
	i, ok := in.blockIndex[name]
	return i, ok
}

// VSIndex resolves a VERTEX snippet name to its index in Snippets.
func (in *Input) VSIndex(name string) (int, bool) {
	i, ok := in.vsIndex[name]
	return i, ok
}

// FSIndex resolves a FRAGMENT snippet name to its index in Snippets.
func (in *Input) FSIndex(name string) (int, bool) {
	i, ok := in.fsIndex[name]
	return i, ok
}

// SnippetIndex resolves any snippet name, regardless of kind, to its index.
func (in *Input) SnippetIndex(name string) (int, bool) {
	i, ok := in.index[name]
	return i, ok
}

// SnippetText returns the effective source text of a snippet: the
// original lines named by its resolved Lines, in order.
func (in *Input) SnippetText(snippetIndex int) []string {
	s := in.Snippets[snippetIndex]
	out := make([]string, len(s.Lines))
	for i, lineIdx := range s.Lines {
		out[i] = in.Lines[lineIdx]
	}
	return out
}
