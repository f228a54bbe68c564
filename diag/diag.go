// Package diag is the driver's debug-dump facility: a structured, leveled
// logger stamped with a per-run identifier, plus human-readable summaries
// of each pipeline stage's output for the `--debug-dump` flag. None of it
// participates in pipeline correctness — a run with debug-dump disabled
// produces byte-identical artifacts to one with it enabled.
package diag

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gogpu/shdc/bytecode"
	"github.com/gogpu/shdc/crossc"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/slang"
	"github.com/gogpu/shdc/spirvc"
)

var once sync.Once

type dumper struct {
	*log.Logger
	runID uuid.UUID
}

var singleton *dumper

func get() *dumper {
	once.Do(func() {
		l := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "shdc",
		})
		l.SetLevel(log.InfoLevel)
		singleton = &dumper{Logger: l, runID: uuid.New()}
	})
	return singleton
}

// RunID returns the identifier stamped on every dump emitted by this
// process, letting output from the same invocation be correlated across
// stages even when dumps interleave with other tool output.
func RunID() string {
	return get().runID.String()
}

// SetVerbose raises the logger to debug level; used when --debug-dump is set.
func SetVerbose(verbose bool) {
	if verbose {
		get().SetLevel(log.DebugLevel)
	} else {
		get().SetLevel(log.InfoLevel)
	}
}

// DumpInput logs a summary line for the Input stage's output, followed by
// one line per snippet.
func DumpInput(in *input.Input) {
	d := get()
	d.Debug("input parsed", "run", d.runID, "path", in.Path, "snippets", len(in.Snippets), "programs", len(in.Programs))
	for i, snip := range in.Snippets {
		d.Debug("snippet", "run", d.runID, "index", i, "kind", snip.Kind, "name", snip.Name, "lines", len(snip.Lines))
	}
}

// DumpSpirv logs a one-line summary of every compiled SPIR-V blob,
// including its header fields decoded straight from the word stream —
// the same magic/version/bound/schema fields a SPIR-V binary disassembler
// reads off the front of the module.
func DumpSpirv(blobs []spirvc.Blob) {
	d := get()
	for _, b := range blobs {
		h, ok := decodeHeader(b.Words)
		if !ok {
			d.Debug("spirv blob", "run", d.runID, "snippet", b.SnippetIndex, "words", len(b.Words), "header", "invalid")
			continue
		}
		d.Debug("spirv blob", "run", d.runID, "snippet", b.SnippetIndex, "words", len(b.Words),
			"magic", fmt.Sprintf("0x%08x", h.magic), "version", h.version, "bound", h.bound, "schema", h.schema)
	}
}

// DumpCross logs a one-line summary per (snippet, target) translation, in
// ascending (SnippetIndex, Lang) order. result is a map, so iterating it
// directly would make dump output order vary run to run over identical
// input; sorting the keys first keeps --debug-dump byte-identical across
// otherwise-identical runs, same as every other Dump* function here.
func DumpCross(result crossc.Result) {
	d := get()
	keys := make([]crossc.Key, 0, len(result))
	for key := range result {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].SnippetIndex != keys[j].SnippetIndex {
			return keys[i].SnippetIndex < keys[j].SnippetIndex
		}
		return keys[i].Lang < keys[j].Lang
	})
	for _, key := range keys {
		ts := result[key]
		d.Debug("translated source", "run", d.runID, "snippet", key.SnippetIndex, "lang", key.Lang,
			"bytes", len(ts.SourceCode), "attrs", len(ts.Reflection.Attrs),
			"uniform_blocks", len(ts.Reflection.UniformBlocks), "images", len(ts.Reflection.Images))
	}
}

// DumpBytecode logs a one-line summary per native bytecode blob.
func DumpBytecode(blobs []bytecode.Blob) {
	d := get()
	for _, b := range blobs {
		d.Debug("bytecode blob", "run", d.runID, "snippet", b.SnippetIndex, "lang", b.Lang, "bytes", len(b.Bytes))
	}
}

// DumpTargets logs the requested target set once at the start of a run.
func DumpTargets(targets slang.Set) {
	get().Debug("target set", "run", RunID(), "targets", targets)
}

type spirvHeader struct {
	magic, version, bound, schema uint32
}

// decodeHeader reads the fixed five-word SPIR-V module header (magic,
// version, generator, bound, schema) straight from the blob's word
// stream, the same fields a disassembler prints before walking opcodes.
func decodeHeader(words []uint32) (spirvHeader, bool) {
	const spirvMagic = 0x07230203
	if len(words) < 5 || words[0] != spirvMagic {
		return spirvHeader{}, false
	}
	return spirvHeader{
		magic:   words[0],
		version: words[1],
		bound:   words[3],
		schema:  words[4],
	}, true
}
