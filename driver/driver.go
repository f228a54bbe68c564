// Package driver orchestrates the full pipeline — Input → Spirv →
// SpirvCross → Bytecode → HeaderEmitter — in the fixed stage order the
// data model requires, short-circuiting to the first stage that reports
// an error and scoping the external SPIR-V toolkit's process-wide
// initialize/finalize pair around the whole run.
//
// This mirrors naga's CompileWithOptions: one function per stage, called
// in sequence, each wrapping its failure in a stage-tagged error.
package driver

import (
	"fmt"

	"github.com/gogpu/shdc/bytecode"
	"github.com/gogpu/shdc/crossc"
	"github.com/gogpu/shdc/diag"
	"github.com/gogpu/shdc/errs"
	"github.com/gogpu/shdc/header"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/slang"
	"github.com/gogpu/shdc/spirvc"
)

// Toolkit is the external SPIR-V/cross-compiler toolkit's process-wide
// lifecycle. A real binding (SPIRV-Tools, SPIRV-Cross) typically requires
// exactly one Initialize/Finalize pair per process; the driver acquires
// it once per Run and guarantees release on every exit path.
type Toolkit interface {
	Initialize() error
	Finalize()
}

// NopToolkit satisfies Toolkit for collaborators with no process-wide
// state to manage (e.g. a pure-Go or subprocess-shelling backend).
type NopToolkit struct{}

func (NopToolkit) Initialize() error { return nil }
func (NopToolkit) Finalize()         {}

// StageCode identifies which pipeline stage produced a Result's errors,
// and doubles as the process exit code per the CLI contract.
type StageCode int

const (
	ExitOK            StageCode = 0
	ExitArgError      StageCode = 10
	ExitInputError    StageCode = 20
	ExitSpirvError    StageCode = 30
	ExitCrossError    StageCode = 40
	ExitBytecodeError StageCode = 50
)

// Options configures one pipeline run.
type Options struct {
	Targets   slang.Set
	Toolkit   Toolkit
	SpirvOpts spirvc.Options
	Backend   crossc.Backend
	Bytecode  bytecode.Options
	Header    header.Options
	DebugDump bool
}

// Result is the outcome of one Run: either a generated header and exit
// code 0, or the first failing stage's error list and matching exit code.
type Result struct {
	Header   string
	ExitCode StageCode
	Errors   errs.List
}

// Run executes the full pipeline against an already-loaded Input. The
// caller is responsible for turning a non-zero ExitCode into a process
// exit; Run itself never calls os.Exit.
func Run(in *input.Input, opts Options) Result {
	if opts.DebugDump {
		diag.SetVerbose(true)
		diag.DumpTargets(opts.Targets)
		diag.DumpInput(in)
	}

	if !in.Valid() {
		return Result{ExitCode: ExitInputError, Errors: in.Errors}
	}

	toolkit := opts.Toolkit
	if toolkit == nil {
		toolkit = NopToolkit{}
	}
	if err := toolkit.Initialize(); err != nil {
		return Result{ExitCode: ExitSpirvError, Errors: errs.List{errs.NewNoLine(in.Path, fmt.Sprintf("toolkit initialize failed: %v", err))}}
	}
	defer toolkit.Finalize()

	blobs, spirvErrs := spirvc.Compile(in, opts.SpirvOpts)
	if opts.DebugDump {
		diag.DumpSpirv(blobs)
	}
	if spirvErrs.HasErrors() {
		return Result{ExitCode: ExitSpirvError, Errors: spirvErrs}
	}

	translated, crossErrs := crossc.Translate(in, blobs, opts.Targets, opts.Backend)
	if opts.DebugDump {
		diag.DumpCross(translated)
	}
	if crossErrs.HasErrors() {
		return Result{ExitCode: ExitCrossError, Errors: crossErrs}
	}

	bcBlobs, bcErrs := bytecode.Compile(in, translated, opts.Targets, opts.Bytecode)
	if opts.DebugDump {
		diag.DumpBytecode(bcBlobs)
	}
	if bcErrs.HasErrors() {
		return Result{ExitCode: ExitBytecodeError, Errors: bcErrs}
	}

	text, linkErrs := header.Emit(in, translated, bcBlobs, opts.Targets, opts.Header)
	if linkErrs.HasErrors() {
		return Result{ExitCode: ExitCrossError, Errors: linkErrs}
	}

	return Result{Header: text, ExitCode: ExitOK}
}
