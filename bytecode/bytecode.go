// Package bytecode implements the optional native-compile stage: turning
// a translated HLSL or MSL TranslatedSource into a platform-native binary
// blob by shelling out to the platform's own compiler. A missing or
// unavailable native toolchain is not an error — the text translation
// produced by crossc remains usable on its own; this stage simply
// produces no blob for that (snippet, target).
package bytecode

import (
	"fmt"

	"github.com/gogpu/shdc/crossc"
	"github.com/gogpu/shdc/errs"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/slang"
	"github.com/gogpu/shdc/spirvc"
)

// Diagnostic is one native-compiler-reported problem. Native compiler
// output is not line-mapped to the original annotated source (it operates
// on generated HLSL/MSL text), so there is no original line to report.
type Diagnostic struct {
	Message string
}

// Compiler is the external NativeShaderCompiler collaborator for one
// platform (fxc/dxc for HLSL, `xcrun metal` for MSL).
type Compiler interface {
	// Available reports whether the native toolchain can be invoked on
	// this host at all (e.g. the binary is on PATH).
	Available() bool
	Compile(source string, stage spirvc.Stage, targetProfile string) ([]byte, []Diagnostic, error)
}

// Blob is a compiled native bytecode artifact for one (snippet, target).
type Blob struct {
	SnippetIndex int
	Lang         slang.Lang
	Bytes        []byte
}

// Options configures the Bytecode stage.
type Options struct {
	// Enabled mirrors the CLI `bytecode` flag; when false this stage is
	// a no-op regardless of which compilers are configured.
	Enabled bool
	// Compilers maps each bytecode-capable target language to its
	// native compiler collaborator. A target with no entry, or whose
	// compiler reports Available() == false, is silently skipped.
	Compilers map[slang.Lang]Compiler
}

// Compile invokes the configured native compilers over every translated
// HLSL/MSL source for the requested targets. Snippet/target iteration
// order matches the rest of the pipeline: ascending snippet index, then
// TargetLang enum order.
func Compile(in *input.Input, translated crossc.Result, targets slang.Set, opts Options) ([]Blob, errs.List) {
	var blobs []Blob
	var errList errs.List

	if !opts.Enabled {
		return nil, nil
	}

	for snippetIndex, snip := range in.Snippets {
		if snip.Kind == input.Block {
			continue
		}
		stage := spirvc.StageVertex
		if snip.Kind == input.Fragment {
			stage = spirvc.StageFragment
		}

		for _, lang := range targets.Langs() {
			if !lang.SupportsBytecode() {
				continue
			}
			ts, ok := translated.Find(snippetIndex, lang)
			if !ok {
				continue
			}
			compiler, ok := opts.Compilers[lang]
			if !ok || !compiler.Available() {
				continue
			}

			syntheticFile := fmt.Sprintf("%s:%s:%s", in.Path, snip.Name, lang)
			bytes, diags, err := compiler.Compile(ts.SourceCode, stage, targetProfile(lang, stage))
			if err != nil {
				errList.Add(errs.NewNoLine(syntheticFile, fmt.Sprintf("native compile failed: %v", err)))
				continue
			}
			if len(diags) > 0 {
				for _, d := range diags {
					errList.Add(errs.NewNoLine(syntheticFile, d.Message))
				}
				continue
			}
			blobs = append(blobs, Blob{SnippetIndex: snippetIndex, Lang: lang, Bytes: bytes})
		}
	}

	return blobs, errList
}

// targetProfile derives the native compiler's target-profile string for
// a (lang, stage) pair — an HLSL shader-model profile, or a Metal
// platform tag.
func targetProfile(lang slang.Lang, stage spirvc.Stage) string {
	if lang == slang.HLSL {
		if stage == spirvc.StageFragment {
			return "ps_5_0"
		}
		return "vs_5_0"
	}
	if lang.IsMetal() {
		if lang == slang.MetalIOS {
			return "metal-ios"
		}
		return "metal-macos"
	}
	return ""
}
