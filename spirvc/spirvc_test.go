package spirvc

import (
	"strconv"
	"strings"
	"testing"

	"github.com/gogpu/shdc/input"
)

// fakeCompiler is a minimal stand-in for the external GLSL-to-SPIR-V
// toolkit: it "succeeds" unless the source contains the marker string
// "FAIL_HERE", in which case it reports a diagnostic on the line the
// preceding #line directive assigned to it.
type fakeCompiler struct{}

func (fakeCompiler) Compile(stage Stage, source string, resolver IncludeResolver) (CompileResult, error) {
	lines := strings.Split(source, "\n")
	var reportedLine int
	for i, l := range lines {
		if !strings.Contains(l, "FAIL_HERE") {
			continue
		}
		if i == 0 {
			continue
		}
		prev := strings.TrimSpace(lines[i-1])
		if n, ok := strings.CutPrefix(prev, "#line "); ok {
			if v, err := strconv.Atoi(n); err == nil {
				reportedLine = v
			}
		}
	}
	if reportedLine != 0 {
		return CompileResult{Diagnostics: []Diagnostic{{Line: reportedLine, Message: "undeclared identifier FAIL_HERE"}}}, nil
	}
	return CompileResult{Words: []uint32{0x07230203, 1, 2, 3}}, nil
}

func TestCompileSuccess(t *testing.T) {
	src := `@vs vs
void main(){gl_Position=vec4(0);}
@end
@fs fs
void main(){}
@end
`
	in := input.LoadSource("shd.glsl", src)
	if !in.Valid() {
		t.Fatalf("input invalid: %v", in.Errors)
	}
	blobs, errList := Compile(in, Options{Compiler: fakeCompiler{}})
	if errList.HasErrors() {
		t.Fatalf("unexpected errors: %v", errList)
	}
	if len(blobs) != 2 {
		t.Fatalf("expected 2 blobs, got %d", len(blobs))
	}
}

func TestCompileDiagnosticLineMapping(t *testing.T) {
	src := `@fs fs
void main(){ FAIL_HERE; }
@end
`
	in := input.LoadSource("bad.glsl", src)
	blobs, errList := Compile(in, Options{Compiler: fakeCompiler{}})
	if len(blobs) != 0 {
		t.Fatalf("expected no blobs on failure, got %d", len(blobs))
	}
	if !errList.HasErrors() {
		t.Fatal("expected a compile error")
	}
	line, ok := errList[0].Line()
	if !ok || line != 1 {
		t.Fatalf("expected error mapped to original line 1, got line=%d ok=%v", line, ok)
	}
}

func TestCompilePartialFailureDoesNotAbortOthers(t *testing.T) {
	src := `@vs vs
void main(){gl_Position=vec4(0);}
@end
@fs fs
void main(){ FAIL_HERE; }
@end
`
	in := input.LoadSource("partial.glsl", src)
	blobs, errList := Compile(in, Options{Compiler: fakeCompiler{}})
	if len(blobs) != 1 {
		t.Fatalf("expected vs to still compile, got %d blobs", len(blobs))
	}
	if !errList.HasErrors() {
		t.Fatal("expected fs compile error")
	}
}
