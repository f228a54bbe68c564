package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/shdc/errs"
	"github.com/gogpu/shdc/slang"
)

const shdcVersion = "0.1.0-dev"

// config is the resolved set of CLI options for one run, after merging
// an optional TOML config file with explicit command-line flags.
type config struct {
	inputPath       string
	outputPath      string
	targets         slang.Set
	bytecodeEnabled bool
	debugDump       bool
	noIfdef         bool
	genVersion      int
	errorFormat     errs.Format
}

// fileConfig is the shape of an optional `-config shdc.toml` file. Every
// field is optional; a flag explicitly passed on the command line always
// wins over the file's value, per the usual config-file-provides-
// defaults convention.
type fileConfig struct {
	Slang       string `toml:"slang"`
	Bytecode    bool   `toml:"bytecode"`
	NoIfdef     bool   `toml:"no_ifdef"`
	GenVersion  int    `toml:"gen_version"`
	ErrorFormat string `toml:"error_format"`
}

// parseArgs parses the CLI contract described in the external-interfaces
// section: input/output paths, the slang target set, and the bytecode/
// debug-dump/no-ifdef/gen-version/error-format flags. It returns a
// negative exit code when parsing succeeded and the caller should
// proceed, or a non-negative one (ArgError or success for -version) when
// the process should exit immediately.
func parseArgs(args []string) (config, int) {
	fs := flag.NewFlagSet("shdc", flag.ContinueOnError)
	fs.Usage = func() { usage(fs) }

	inputPath := fs.String("input", "", "annotated GLSL input path (required)")
	outputPath := fs.String("output", "", "generated header output path (required)")
	slangSpec := fs.String("slang", "", "colon-separated target languages, e.g. glsl330:hlsl5")
	bytecodeFlag := fs.Bool("bytecode", false, "also produce native bytecode for HLSL/Metal targets")
	debugDump := fs.Bool("debug-dump", false, "emit human-readable stage dumps to stderr")
	noIfdef := fs.Bool("no-ifdef", false, "omit #if/#endif target guards in the generated header")
	genVersion := fs.Int("gen-version", 1, "version stamp forwarded into the generated header")
	errorFormat := fs.String("error-format", "gcc", "error rendering convention: gcc or msvc")
	configPath := fs.String("config", "", "optional TOML file providing defaults for the flags above")
	version := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return config{}, int(errExitFor(err))
	}
	if *version {
		fmt.Printf("shdc version %s\n", shdcVersion)
		return config{}, 0
	}

	if *configPath != "" {
		if err := applyFileConfig(fs, *configPath, slangSpec, bytecodeFlag, noIfdef, genVersion, errorFormat); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return config{}, 10
		}
	}

	if *inputPath == "" || *outputPath == "" {
		fmt.Fprintln(os.Stderr, "error: -input and -output are required")
		fs.Usage()
		return config{}, 10
	}

	targets, err := slang.ParseSet(*slangSpec)
	if err != nil || targets.Empty() {
		fmt.Fprintf(os.Stderr, "error: -slang: %v\n", errOrEmpty(err))
		return config{}, 10
	}

	format, ok := parseErrorFormat(*errorFormat)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: -error-format must be %q or %q, got %q\n", "gcc", "msvc", *errorFormat)
		return config{}, 10
	}

	return config{
		inputPath:       *inputPath,
		outputPath:      *outputPath,
		targets:         targets,
		bytecodeEnabled: *bytecodeFlag,
		debugDump:       *debugDump,
		noIfdef:         *noIfdef,
		genVersion:      *genVersion,
		errorFormat:     format,
	}, -1
}

// applyFileConfig loads a TOML config file and overwrites any flag the
// user did not pass explicitly on the command line with the file's
// value. Flag explicitness is tracked via fs.Visit, which only reports
// flags actually set on the command line.
func applyFileConfig(fs *flag.FlagSet, path string, slangSpec *string, bytecodeFlag, noIfdef *bool, genVersion *int, errorFormat *string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if !explicit["slang"] && fc.Slang != "" {
		*slangSpec = fc.Slang
	}
	if !explicit["bytecode"] {
		*bytecodeFlag = fc.Bytecode
	}
	if !explicit["no-ifdef"] {
		*noIfdef = fc.NoIfdef
	}
	if !explicit["gen-version"] && fc.GenVersion != 0 {
		*genVersion = fc.GenVersion
	}
	if !explicit["error-format"] && fc.ErrorFormat != "" {
		*errorFormat = fc.ErrorFormat
	}
	return nil
}

func parseErrorFormat(s string) (errs.Format, bool) {
	switch s {
	case "gcc":
		return errs.FormatGCC, true
	case "msvc":
		return errs.FormatMSVC, true
	default:
		return 0, false
	}
}

func errOrEmpty(err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("no target languages requested")
}

func errExitFor(err error) int {
	if err == flag.ErrHelp {
		return 0
	}
	return 10
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: shdc -input <path> -output <path> -slang <targets> [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shdc -input shd.glsl -output shd.h -slang glsl330\n")
	fmt.Fprintf(os.Stderr, "  shdc -input shd.glsl -output shd.h -slang hlsl5:metal_macos -bytecode\n")
}
