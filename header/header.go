// Package header is the HeaderEmitter stage. Its structural contract —
// one artifact per run, every requested (program, target) pair linked to
// a TranslatedSource before anything is written, no partial output on
// error — is fully implemented; the exact text layout a graphics runtime
// would consume is intentionally out of scope, so Emit produces a plain,
// minimal C header that exercises the contract end to end rather than
// sokol_gfx.h's exact structure.
package header

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/shdc/bytecode"
	"github.com/gogpu/shdc/crossc"
	"github.com/gogpu/shdc/errs"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/reflectutil"
	"github.com/gogpu/shdc/slang"
)

// Options mirrors the CLI flags forwarded to this stage.
type Options struct {
	NoIfdef     bool
	GenVersion  int
	ErrorFormat errs.Format
}

// sortedProgramNames returns in.Programs' keys in a stable order so
// emission is deterministic across runs.
func sortedProgramNames(in *input.Input) []string {
	names := make([]string, 0, len(in.Programs))
	for name := range in.Programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckLinked implements the sokol-shdc `util::check_errors` contract:
// for every Program and every requested target language, both the VS and
// FS snippet must have produced a TranslatedSource. A missing pair is a
// LinkError attributed to the vertex snippet's first line, naming the
// (program, target) that failed — ported in spirit from
// original_source/src/shdc/util.cc:check_errors.
func CheckLinked(in *input.Input, translated crossc.Result, targets slang.Set) errs.List {
	var errList errs.List
	for _, name := range sortedProgramNames(in) {
		prog := in.Programs[name]
		vsIdx, vsOK := in.VSIndex(prog.VSName)
		fsIdx, fsOK := in.FSIndex(prog.FSName)
		if !vsOK || !fsOK {
			// Already reported by the input stage; nothing more to check here.
			continue
		}
		for _, lang := range targets.Langs() {
			_, haveVS := translated.Find(vsIdx, lang)
			_, haveFS := translated.Find(fsIdx, lang)
			if haveVS && haveFS {
				continue
			}
			missing := prog.FSName
			if !haveVS {
				missing = prog.VSName
			}
			errList.Addf(in.Path, in.Snippets[vsIdx].FirstLine(),
				"no generated %q source for shader %q in program %q", lang, missing, prog.Name)
		}
	}
	return errList
}

// Emit produces the generated header text for every Program across every
// requested target language. It returns no output and a non-empty error
// list if CheckLinked finds any unresolved (program, target) pair — the
// batch-compiler error policy never writes partial output.
func Emit(in *input.Input, translated crossc.Result, bc []bytecode.Blob, targets slang.Set, opts Options) (string, errs.List) {
	if errList := CheckLinked(in, translated, targets); errList.HasErrors() {
		return "", errList
	}

	prefix := reflectutil.ModPrefix(in.Module)
	bcBySnippetLang := map[crossc.Key][]byte{}
	for _, b := range bc {
		bcBySnippetLang[crossc.Key{SnippetIndex: b.SnippetIndex, Lang: b.Lang}] = b.Bytes
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#pragma once\n/* generated by shdc, version %d */\n\n", opts.GenVersion)

	for _, name := range sortedProgramNames(in) {
		prog := in.Programs[name]
		vsIdx, _ := in.VSIndex(prog.VSName)
		fsIdx, _ := in.FSIndex(prog.FSName)

		structName := prefix + prog.Name + "_program_t"
		fmt.Fprintf(&b, "/* program %q: vs=%q fs=%q */\n", reflectutil.ReplaceCCommentTokens(prog.Name),
			reflectutil.ReplaceCCommentTokens(prog.VSName), reflectutil.ReplaceCCommentTokens(prog.FSName))
		fmt.Fprintf(&b, "/* pascal alias: %s */\n", reflectutil.ToPascalCase(prog.Name))
		emitUniformBlockComments(&b, translated, vsIdx, fsIdx, targets)
		fmt.Fprintf(&b, "typedef struct %s {\n", structName)
		for _, lang := range targets.Langs() {
			if !opts.NoIfdef {
				guard := reflectutil.ToUpperCase(strings.ReplaceAll(lang.String(), "-", "_"))
				fmt.Fprintf(&b, "#if defined(SHDC_%s)\n", guard)
			}
			if lang.IsGLSLES() {
				b.WriteString("    /* GLSL ES requires explicit default precision qualifiers */\n")
			}
			vsSrc, _ := translated.Find(vsIdx, lang)
			fsSrc, _ := translated.Find(fsIdx, lang)
			emitStageBytes(&b, "vs", lang, vsSrc.SourceCode, bcBySnippetLang[crossc.Key{SnippetIndex: vsIdx, Lang: lang}])
			emitStageBytes(&b, "fs", lang, fsSrc.SourceCode, bcBySnippetLang[crossc.Key{SnippetIndex: fsIdx, Lang: lang}])
			if !opts.NoIfdef {
				b.WriteString("#endif\n")
			}
		}
		b.WriteString("} ")
		b.WriteString(structName)
		b.WriteString(";\n\n")
	}

	return b.String(), nil
}

// emitUniformBlockComments documents each stage's uniform blocks, read off
// the first requested target's Reflection. crossc.Translate already
// enforces that every target produces an Equal Reflection for the same
// snippet, so any one target's view of the interface is as good as any
// other's for display purposes.
func emitUniformBlockComments(b *strings.Builder, translated crossc.Result, vsIdx, fsIdx int, targets slang.Set) {
	langs := targets.Langs()
	if len(langs) == 0 {
		return
	}
	lang := langs[0]
	stages := []struct {
		name string
		idx  int
	}{{"vs", vsIdx}, {"fs", fsIdx}}
	for _, stage := range stages {
		ts, ok := translated.Find(stage.idx, lang)
		if !ok {
			continue
		}
		for _, block := range ts.Reflection.UniformBlocks {
			blockName := reflectutil.ToAdaCase(reflectutil.ReplaceCCommentTokens(block.Name))
			fmt.Fprintf(b, "/* %s uniform block %s (slot %d, %d bytes) */\n", stage.name, blockName, block.Slot, block.ByteSize)
			for _, u := range block.Uniforms {
				fmt.Fprintf(b, "/*   %s %s */\n", reflectutil.UniformTypeString(u.Kind), reflectutil.ReplaceCCommentTokens(u.Name))
			}
		}
	}
}

func emitStageBytes(b *strings.Builder, stage string, lang slang.Lang, source string, bytecode []byte) {
	field := reflectutil.ToCamelCase(stage + "_" + lang.String())
	if len(bytecode) > 0 {
		fmt.Fprintf(b, "    /* %s (%s %s): %d bytes of bytecode */\n", field, stage, lang, len(bytecode))
		return
	}
	fmt.Fprintf(b, "    /* %s (%s %s): %d bytes of source */\n", field, stage, lang, len(source))
}
