package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/gogpu/shdc/spirvc"
)

// glslangCompiler is the GlslToSpirv collaborator, backed by the
// `glslangValidator` reference compiler. It follows the same
// availability-probe-then-temp-file-invoke shape as the native bytecode
// compilers: LookPath decides availability, and compilation happens
// against a temporary file in a scratch directory so glslangValidator's
// own file-extension-based stage detection (`.vert`/`.frag`) applies.
type glslangCompiler struct{}

var glslangErrorLine = regexp.MustCompile(`ERROR:\s*\d+:(\d+):\s*(.+)`)

func (glslangCompiler) Compile(stage spirvc.Stage, sourceText string, resolver spirvc.IncludeResolver) (spirvc.CompileResult, error) {
	if _, err := exec.LookPath("glslangValidator"); err != nil {
		return spirvc.CompileResult{}, fmt.Errorf("glslangValidator not found on PATH: %w", err)
	}

	dir, err := os.MkdirTemp("", "shdc-glslang-*")
	if err != nil {
		return spirvc.CompileResult{}, err
	}
	defer os.RemoveAll(dir)

	ext := ".vert"
	if stage == spirvc.StageFragment {
		ext = ".frag"
	}
	srcPath := filepath.Join(dir, "shader"+ext)
	outPath := filepath.Join(dir, "shader.spv")
	if err := os.WriteFile(srcPath, []byte(sourceText), 0o600); err != nil {
		return spirvc.CompileResult{}, err
	}

	cmd := exec.Command("glslangValidator", "-V", "-o", outPath, srcPath)
	out, runErr := cmd.CombinedOutput()
	if runErr != nil {
		diags := parseGlslangDiagnostics(string(out))
		if len(diags) > 0 {
			return spirvc.CompileResult{Diagnostics: diags}, nil
		}
		return spirvc.CompileResult{}, fmt.Errorf("glslangValidator failed: %s", out)
	}

	spv, err := os.ReadFile(outPath)
	if err != nil {
		return spirvc.CompileResult{}, err
	}
	return spirvc.CompileResult{Words: wordsFromBytes(spv)}, nil
}

// parseGlslangDiagnostics extracts ("ERROR: 0:LINE: message") lines from
// glslangValidator's combined output, which always reports against the
// temp file's own 1-based lines — exactly the lines our #line directives
// make equal to the original source's.
func parseGlslangDiagnostics(output string) []spirvc.Diagnostic {
	var diags []spirvc.Diagnostic
	for _, m := range glslangErrorLine.FindAllStringSubmatch(output, -1) {
		line, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		diags = append(diags, spirvc.Diagnostic{Line: line, Message: m[2]})
	}
	return diags
}

func wordsFromBytes(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words
}
