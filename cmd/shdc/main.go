// Command shdc is the shader cross-compiler driver CLI: it loads one
// annotated-GLSL source file, runs it through the Input → Spirv →
// SpirvCross → Bytecode → HeaderEmitter pipeline, and writes the
// generated header to the requested output path.
//
// Usage:
//
//	shdc -input shd.glsl -output shd.h -slang glsl330:hlsl5
//
// Examples:
//
//	shdc -input shd.glsl -output shd.h -slang glsl330
//	shdc -input shd.glsl -output shd.h -slang hlsl5:metal_macos -bytecode
//	shdc -input shd.glsl -output shd.h -slang glsl330 -debug-dump
package main

import (
	"fmt"
	"os"

	"github.com/gogpu/shdc/bytecode"
	"github.com/gogpu/shdc/diag"
	"github.com/gogpu/shdc/driver"
	"github.com/gogpu/shdc/errs"
	"github.com/gogpu/shdc/header"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/slang"
	"github.com/gogpu/shdc/spirvc"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, exitCode := parseArgs(args)
	if exitCode >= 0 {
		return exitCode
	}

	in, err := input.Load(cfg.inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading %s: %v\n", cfg.inputPath, err)
		return int(driver.ExitInputError)
	}

	opts := driver.Options{
		Targets:   cfg.targets,
		Toolkit:   driver.NopToolkit{}, // glslangValidator/spirv-cross subprocesses carry no process-wide state
		SpirvOpts: spirvc.Options{Compiler: glslangCompiler{}},
		Backend:   spirvCrossBackend{},
		Bytecode: bytecode.Options{
			Enabled: cfg.bytecodeEnabled,
			Compilers: map[slang.Lang]bytecode.Compiler{
				slang.HLSL:       bytecode.FxcCompiler{},
				slang.MetalMacOS: bytecode.XcrunMetalCompiler{},
				slang.MetalIOS:   bytecode.XcrunMetalCompiler{},
			},
		},
		Header: header.Options{
			NoIfdef:     cfg.noIfdef,
			GenVersion:  cfg.genVersion,
			ErrorFormat: cfg.errorFormat,
		},
		DebugDump: cfg.debugDump,
	}

	result := driver.Run(in, opts)
	if result.ExitCode != driver.ExitOK {
		reportErrors(result.Errors, cfg.errorFormat)
		return int(result.ExitCode)
	}

	if err := os.WriteFile(cfg.outputPath, []byte(result.Header), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing %s: %v\n", cfg.outputPath, err)
		return int(driver.ExitBytecodeError)
	}

	if cfg.debugDump {
		fmt.Fprintf(os.Stderr, "run %s: wrote %s (%d bytes)\n", diag.RunID(), cfg.outputPath, len(result.Header))
	}
	return int(driver.ExitOK)
}

func reportErrors(list errs.List, format errs.Format) {
	fmt.Fprintln(os.Stderr, list.FormatAll(format))
}
