package bytecode

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/gogpu/shdc/spirvc"
)

// XcrunMetalCompiler invokes Apple's `xcrun metal` toolchain to compile
// MSL text to a .metallib. It follows the availability-probe-then-temp-
// file-invoke pattern used for testing Metal output against a real
// toolchain: LookPath/`xcrun --find metal` decide availability, and
// compilation happens against temporary files in a scratch directory.
type XcrunMetalCompiler struct{}

func (XcrunMetalCompiler) Available() bool {
	if _, err := exec.LookPath("xcrun"); err != nil {
		return false
	}
	return exec.Command("xcrun", "--find", "metal").Run() == nil
}

func (XcrunMetalCompiler) Compile(source string, stage spirvc.Stage, targetProfile string) ([]byte, []Diagnostic, error) {
	dir, err := os.MkdirTemp("", "shdc-metal-*")
	if err != nil {
		return nil, nil, err
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "shader.metal")
	airPath := filepath.Join(dir, "shader.air")
	libPath := filepath.Join(dir, "shader.metallib")
	if err := os.WriteFile(srcPath, []byte(source), 0o600); err != nil {
		return nil, nil, err
	}

	sdk := "macosx"
	if targetProfile == "metal-ios" {
		sdk = "iphoneos"
	}

	compile := exec.Command("xcrun", "-sdk", sdk, "metal", "-c", srcPath, "-o", airPath)
	if out, err := compile.CombinedOutput(); err != nil {
		return nil, []Diagnostic{{Message: string(out)}}, nil
	}

	link := exec.Command("xcrun", "-sdk", sdk, "metallib", airPath, "-o", libPath)
	if out, err := link.CombinedOutput(); err != nil {
		return nil, []Diagnostic{{Message: string(out)}}, nil
	}

	data, err := os.ReadFile(libPath)
	return data, nil, err
}

// FxcCompiler invokes the legacy Direct3D HLSL compiler (`fxc.exe`) to
// compile HLSL text to a shader-model bytecode blob.
type FxcCompiler struct{}

func (FxcCompiler) Available() bool {
	_, err := exec.LookPath("fxc")
	return err == nil
}

func (FxcCompiler) Compile(source string, stage spirvc.Stage, targetProfile string) ([]byte, []Diagnostic, error) {
	dir, err := os.MkdirTemp("", "shdc-fxc-*")
	if err != nil {
		return nil, nil, err
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "shader.hlsl")
	outPath := filepath.Join(dir, "shader.fxc")
	if err := os.WriteFile(srcPath, []byte(source), 0o600); err != nil {
		return nil, nil, err
	}

	cmd := exec.Command("fxc", "/T", targetProfile, "/E", "main", "/Fo", outPath, srcPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, []Diagnostic{{Message: string(out)}}, nil
	}
	data, err := os.ReadFile(outPath)
	return data, nil, err
}
