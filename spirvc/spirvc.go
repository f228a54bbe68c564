// Package spirvc implements the GLSL → SPIR-V compilation stage. It owns
// preamble synthesis, #line bookkeeping so a downstream GLSL compiler's
// diagnostics map back to the original authored source, and the fan-out
// over every VERTEX/FRAGMENT snippet in an input.Input.
//
// The actual GLSL-to-SPIR-V translation is delegated to the Compiler
// collaborator interface; this package never links a SPIRV-Tools binding
// directly, per the external-toolkit boundary the driver is built around.
package spirvc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/shdc/errs"
	"github.com/gogpu/shdc/input"
)

// Stage identifies which shader stage is being compiled.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func stageFor(kind input.SnippetKind) Stage {
	if kind == input.Fragment {
		return StageFragment
	}
	return StageVertex
}

// Blob is a compiled SPIR-V module, back-linked to its originating
// snippet by index rather than by pointer.
type Blob struct {
	SnippetIndex int
	Words        []uint32
}

// Diagnostic is one compiler-reported problem. Line is the 1-based line
// number as the compiler would report it against the materialized,
// #line-annotated source text; 0 means the compiler gave no line.
type Diagnostic struct {
	Line    int
	Message string
}

// IncludeResolver resolves a `#include` target to source text. The driver
// never emits `#include` itself (BLOCKs are pre-flattened by the input
// stage), but the collaborator interface carries a resolver anyway to
// match the external GlslToSpirv contract; NoIncludes satisfies it for
// compilers that never call back into it.
type IncludeResolver interface {
	Resolve(name string) (string, bool)
}

// NoIncludes is an IncludeResolver that never resolves anything.
type NoIncludes struct{}

func (NoIncludes) Resolve(string) (string, bool) { return "", false }

// CompileResult is what a Compiler returns for one compile attempt:
// either Words is populated (success) or Diagnostics is non-empty
// (failure) — never both.
type CompileResult struct {
	Words       []uint32
	Diagnostics []Diagnostic
}

// OK reports whether the compile produced a usable blob.
func (r CompileResult) OK() bool { return len(r.Diagnostics) == 0 }

// Compiler is the external GLSL-to-SPIR-V toolkit collaborator.
type Compiler interface {
	Compile(stage Stage, sourceText string, resolver IncludeResolver) (CompileResult, error)
}

// Options configures the Spirv compilation stage.
type Options struct {
	Compiler Compiler
}

// Compile compiles every VERTEX and FRAGMENT snippet of a valid Input to
// SPIR-V. Snippets are compiled independently: one snippet's failure does
// not prevent the others from compiling, but any failure means the
// returned errs.List is non-empty and the pipeline must not advance past
// this stage.
func Compile(in *input.Input, opts Options) ([]Blob, errs.List) {
	var blobs []Blob
	var errList errs.List

	for i, snip := range in.Snippets {
		if snip.Kind == input.Block {
			continue
		}
		text, lineOf := materialize(in, snip)
		result, err := opts.Compiler.Compile(stageFor(snip.Kind), text, NoIncludes{})
		if err != nil {
			errList.Addf(in.Path, snip.FirstLine(), "%s %q: compiler invocation failed: %v", snip.Kind, snip.Name, err)
			continue
		}
		if !result.OK() {
			for _, d := range result.Diagnostics {
				origLine, ok := lineOf[d.Line]
				if !ok {
					origLine = snip.FirstLine()
				}
				errList.Addf(in.Path, origLine, "%s %q: %s", snip.Kind, snip.Name, d.Message)
			}
			continue
		}
		blobs = append(blobs, Blob{SnippetIndex: i, Words: result.Words})
	}

	return blobs, errList
}

// materialize builds the effective GLSL text for a snippet: a synthetic
// preamble (version, include_directive extension, one #define per
// type_map entry) followed by the snippet's resolved lines, each preceded
// by a `#line` directive naming its original 1-based line number. Because
// every content line gets its own #line reset, a compiler's reported line
// number for a diagnostic on that line is exactly that original number —
// lineOf inverts that mapping back to a zero-based original line index.
func materialize(in *input.Input, snip input.Snippet) (text string, lineOf map[int]int) {
	var b strings.Builder
	b.WriteString("#version 450\n")
	b.WriteString("#extension GL_GOOGLE_include_directive : enable\n")

	typeNames := make([]string, 0, len(in.TypeMap))
	for name := range in.TypeMap {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)
	for _, name := range typeNames {
		fmt.Fprintf(&b, "#define %s %s\n", name, in.TypeMap[name])
	}

	lineOf = make(map[int]int, len(snip.Lines))
	for _, origIdx := range snip.Lines {
		reported := origIdx + 1
		fmt.Fprintf(&b, "#line %d\n", reported)
		b.WriteString(in.Lines[origIdx])
		b.WriteString("\n")
		lineOf[reported] = origIdx
	}
	return b.String(), lineOf
}
