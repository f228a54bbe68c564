package input

import "testing"

func TestMinimalProgram(t *testing.T) {
	src := `@vs vs
void main(){gl_Position=vec4(0);}
@end
@fs fs
void main(){}
@end
@program p vs fs
`
	in := LoadSource("shd.glsl", src)
	if !in.Valid() {
		t.Fatalf("expected valid input, got errors: %v", in.Errors)
	}
	if len(in.Snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %d", len(in.Snippets))
	}
	vsIdx, ok := in.VSIndex("vs")
	if !ok {
		t.Fatal("vs snippet not found")
	}
	if len(in.Snippets[vsIdx].Lines) != 1 {
		t.Fatalf("vs snippet should have 1 line, got %d", len(in.Snippets[vsIdx].Lines))
	}
	prog, ok := in.Programs["p"]
	if !ok || prog.VSName != "vs" || prog.FSName != "fs" {
		t.Fatalf("program p not resolved correctly: %+v", prog)
	}
}

func TestEmptySource(t *testing.T) {
	in := LoadSource("empty.glsl", "")
	if !in.Valid() {
		t.Fatalf("empty source should be valid, got: %v", in.Errors)
	}
	if len(in.Snippets) != 0 || len(in.Programs) != 0 {
		t.Fatalf("expected no snippets/programs, got %d/%d", len(in.Snippets), len(in.Programs))
	}
}

func TestBlocksOnlyNoPrograms(t *testing.T) {
	src := `@block common
vec3 foo() { return vec3(1.0); }
@end
`
	in := LoadSource("blocks.glsl", src)
	if !in.Valid() {
		t.Fatalf("expected valid input, got: %v", in.Errors)
	}
	if len(in.Programs) != 0 {
		t.Fatalf("expected no programs, got %d", len(in.Programs))
	}
}

func TestIncludeBlockResolution(t *testing.T) {
	src := `@block common
vec3 white() { return vec3(1.0); }
@end
@fs fs
void main(){ vec3 c = white(); }
@include_block common
@end
`
	in := LoadSource("inc.glsl", src)
	if !in.Valid() {
		t.Fatalf("expected valid input, got: %v", in.Errors)
	}
	fsIdx, _ := in.FSIndex("fs")
	// fs's own line + common's single line = 2 resolved lines.
	if len(in.Snippets[fsIdx].Lines) != 2 {
		t.Fatalf("expected 2 resolved lines, got %d: %v", len(in.Snippets[fsIdx].Lines), in.Snippets[fsIdx].Lines)
	}
	// The second resolved line must point back at the common block's own line (line index 1).
	if in.Snippets[fsIdx].Lines[1] != 1 {
		t.Fatalf("expected included line to map back to source line 1, got %d", in.Snippets[fsIdx].Lines[1])
	}
}

func TestForwardReferenceRejected(t *testing.T) {
	src := `@block b
@include_block a
@end
@block a
@include_block b
@end
`
	in := LoadSource("cycle.glsl", src)
	if in.Valid() {
		t.Fatal("expected forward-reference error")
	}
	if len(in.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %d: %v", len(in.Errors), in.Errors)
	}
	line, ok := in.Errors[0].Line()
	if !ok || line != 1 {
		t.Fatalf("expected error at line 1 (the @include_block a inside b), got line=%d ok=%v", line, ok)
	}
}

func TestDuplicateProgramRejected(t *testing.T) {
	src := `@vs vs
void main(){}
@end
@fs fs
void main(){}
@end
@program p vs fs
@program p vs fs
`
	in := LoadSource("dup.glsl", src)
	if in.Valid() {
		t.Fatal("expected duplicate program error")
	}
	found := false
	for _, e := range in.Errors {
		if line, ok := e.Line(); ok && line == 7 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected error attributed to the second @program line, got: %v", in.Errors)
	}
}

func TestDuplicateSnippetNameWithinKind(t *testing.T) {
	src := `@vs vs
void main(){}
@end
@vs vs
void main(){}
@end
`
	in := LoadSource("dup2.glsl", src)
	if in.Valid() {
		t.Fatal("expected duplicate snippet error")
	}
}

func TestSameNameDifferentKindsAllowed(t *testing.T) {
	src := `@vs shared
void main(){}
@end
@fs shared
void main(){}
@end
`
	in := LoadSource("samename.glsl", src)
	if !in.Valid() {
		t.Fatalf("names unique per-kind should be allowed across kinds, got: %v", in.Errors)
	}
}

func TestUnterminatedSnippet(t *testing.T) {
	src := `@vs vs
void main(){}
`
	in := LoadSource("unterminated.glsl", src)
	if in.Valid() {
		t.Fatal("expected unterminated-snippet error")
	}
}

func TestUnknownProgramReference(t *testing.T) {
	src := `@vs vs
void main(){}
@end
@program p vs nope
`
	in := LoadSource("unknownprog.glsl", src)
	if in.Valid() {
		t.Fatal("expected unknown fragment shader error")
	}
}

func TestTypeMapAndModule(t *testing.T) {
	src := `@module mygame
@type mat4 hmm_mat4
@vs vs
void main(){}
@end
`
	in := LoadSource("typed.glsl", src)
	if !in.Valid() {
		t.Fatalf("expected valid input, got: %v", in.Errors)
	}
	if in.Module != "mygame" {
		t.Fatalf("expected module mygame, got %q", in.Module)
	}
	if in.TypeMap["mat4"] != "hmm_mat4" {
		t.Fatalf("expected type map entry, got %q", in.TypeMap["mat4"])
	}
}

func TestCRLFNormalization(t *testing.T) {
	src := "@vs vs\r\nvoid main(){}\r\n@end\r\n"
	in := LoadSource("crlf.glsl", src)
	if !in.Valid() {
		t.Fatalf("expected valid input, got: %v", in.Errors)
	}
	for _, l := range in.Lines {
		if len(l) > 0 && l[len(l)-1] == '\r' {
			t.Fatalf("line retained CR: %q", l)
		}
	}
}

func TestSnippetRoundTrip(t *testing.T) {
	src := `@block common
vec3 white() { return vec3(1.0); }
@end
@fs fs
void main(){ vec3 c = white(); }
@include_block common
@end
`
	in := LoadSource("rt.glsl", src)
	fsIdx, _ := in.FSIndex("fs")
	text := in.SnippetText(fsIdx)
	reparsed := LoadSource("rt2.glsl", "@fs fs\n"+joinLines(text)+"\n@end\n")
	if !reparsed.Valid() {
		t.Fatalf("re-parse of resolved snippet text should be valid: %v", reparsed.Errors)
	}
	fs2, _ := reparsed.FSIndex("fs")
	if len(reparsed.Snippets[fs2].Lines) != len(text) {
		t.Fatalf("round trip changed line count: %d vs %d", len(reparsed.Snippets[fs2].Lines), len(text))
	}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
