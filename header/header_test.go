package header

import (
	"strings"
	"testing"

	"github.com/gogpu/shdc/bytecode"
	"github.com/gogpu/shdc/crossc"
	"github.com/gogpu/shdc/errs"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/reflectutil"
	"github.com/gogpu/shdc/slang"
)

func loadProgram(t *testing.T) *input.Input {
	t.Helper()
	src := `@vs vs
void main(){gl_Position=vec4(0);}
@end
@fs fs
void main(){}
@end
@program shd vs fs
`
	in := input.LoadSource("shd.glsl", src)
	if !in.Valid() {
		t.Fatalf("input invalid: %v", in.Errors)
	}
	return in
}

func fullResult(in *input.Input, targets slang.Set) crossc.Result {
	result := crossc.Result{}
	vsIdx, _ := in.VSIndex("vs")
	fsIdx, _ := in.FSIndex("fs")
	for _, lang := range targets.Langs() {
		result[crossc.Key{SnippetIndex: vsIdx, Lang: lang}] = crossc.TranslatedSource{SnippetIndex: vsIdx, SourceCode: "vs source"}
		result[crossc.Key{SnippetIndex: fsIdx, Lang: lang}] = crossc.TranslatedSource{SnippetIndex: fsIdx, SourceCode: "fs source"}
	}
	return result
}

// resultWithUniforms is like fullResult but gives the vertex stage a
// reflected uniform block, identical across every target language (the
// cross-target consistency invariant Emit relies on to pick just one).
func resultWithUniforms(in *input.Input, targets slang.Set) crossc.Result {
	result := fullResult(in, targets)
	vsIdx, _ := in.VSIndex("vs")
	block := crossc.UniformBlock{
		Slot: 0, ByteSize: 64, Name: "vs_params",
		Uniforms: []crossc.Uniform{{Name: "mvp", Kind: reflectutil.Mat4, ArrayCount: 1}},
	}
	for _, lang := range targets.Langs() {
		ts := result[crossc.Key{SnippetIndex: vsIdx, Lang: lang}]
		ts.Reflection.UniformBlocks = []crossc.UniformBlock{block}
		result[crossc.Key{SnippetIndex: vsIdx, Lang: lang}] = ts
	}
	return result
}

func TestCheckLinkedComplete(t *testing.T) {
	in := loadProgram(t)
	targets := slang.NewSet(slang.GLSLDesktop, slang.HLSL)
	result := fullResult(in, targets)

	errList := CheckLinked(in, result, targets)
	if errList.HasErrors() {
		t.Fatalf("expected no link errors, got: %v", errList)
	}
}

func TestCheckLinkedMissingTargetReportsLinkError(t *testing.T) {
	in := loadProgram(t)
	targets := slang.NewSet(slang.GLSLDesktop, slang.HLSL)
	result := fullResult(in, slang.NewSet(slang.GLSLDesktop)) // HLSL never translated

	errList := CheckLinked(in, result, targets)
	if !errList.HasErrors() {
		t.Fatal("expected a link error for the missing HLSL translation")
	}
	if !strings.Contains(errList[0].Message(), "shd") {
		t.Fatalf("expected error to name the program, got: %s", errList[0].Message())
	}
	if line, ok := errList[0].Line(); !ok || line != 1 {
		t.Fatalf("expected error at vs snippet's first line (1), got line=%d ok=%v", line, ok)
	}
}

func TestEmitRefusesPartialOutputOnLinkError(t *testing.T) {
	in := loadProgram(t)
	targets := slang.NewSet(slang.GLSLDesktop, slang.HLSL)
	result := fullResult(in, slang.NewSet(slang.GLSLDesktop))

	text, errList := Emit(in, result, nil, targets, Options{ErrorFormat: errs.FormatGCC})
	if text != "" {
		t.Fatal("expected no output when link check fails")
	}
	if !errList.HasErrors() {
		t.Fatal("expected link errors from Emit")
	}
}

func TestEmitProducesStructForEachProgram(t *testing.T) {
	in := loadProgram(t)
	targets := slang.NewSet(slang.GLSLDesktop, slang.HLSL)
	result := fullResult(in, targets)
	bc := []bytecode.Blob{
		{SnippetIndex: mustIndex(in, "vs"), Lang: slang.HLSL, Bytes: []byte{1, 2, 3, 4}},
	}

	text, errList := Emit(in, result, bc, targets, Options{GenVersion: 1, ErrorFormat: errs.FormatGCC})
	if errList.HasErrors() {
		t.Fatalf("unexpected errors: %v", errList)
	}
	if !strings.Contains(text, "shd_program_t") {
		t.Fatalf("expected a struct for program %q, got:\n%s", "shd", text)
	}
	if !strings.Contains(text, "4 bytes of bytecode") {
		t.Fatalf("expected the HLSL vs stage to report its bytecode size, got:\n%s", text)
	}
	if !strings.Contains(text, "#if defined(SHDC_GLSL330)") {
		t.Fatalf("expected per-target ifdef guards, got:\n%s", text)
	}
}

func TestEmitNoIfdefOmitsGuards(t *testing.T) {
	in := loadProgram(t)
	targets := slang.NewSet(slang.GLSLDesktop)
	result := fullResult(in, targets)

	text, errList := Emit(in, result, nil, targets, Options{NoIfdef: true})
	if errList.HasErrors() {
		t.Fatalf("unexpected errors: %v", errList)
	}
	if strings.Contains(text, "#if defined") {
		t.Fatalf("expected no ifdef guards with NoIfdef set, got:\n%s", text)
	}
}

func TestEmitDocumentsUniformBlocks(t *testing.T) {
	in := loadProgram(t)
	targets := slang.NewSet(slang.GLSLDesktop)
	result := resultWithUniforms(in, targets)

	text, errList := Emit(in, result, nil, targets, Options{})
	if errList.HasErrors() {
		t.Fatalf("unexpected errors: %v", errList)
	}
	if !strings.Contains(text, "vs uniform block Vs_Params") {
		t.Fatalf("expected an Ada-cased uniform block comment, got:\n%s", text)
	}
	if !strings.Contains(text, "mat4 mvp") {
		t.Fatalf("expected the uniform's GLSL type name in the comment, got:\n%s", text)
	}
	if !strings.Contains(text, "pascal alias: Shd") {
		t.Fatalf("expected a pascal-case alias comment, got:\n%s", text)
	}
}

func TestEmitAddsGLSLESPrecisionNoteForESTargets(t *testing.T) {
	in := loadProgram(t)
	targets := slang.NewSet(slang.GLSLES100)
	result := fullResult(in, targets)

	text, errList := Emit(in, result, nil, targets, Options{})
	if errList.HasErrors() {
		t.Fatalf("unexpected errors: %v", errList)
	}
	if !strings.Contains(text, "default precision qualifiers") {
		t.Fatalf("expected a GLSL ES precision note, got:\n%s", text)
	}
}

func mustIndex(in *input.Input, name string) int {
	i, _ := in.SnippetIndex(name)
	return i
}
