package crossc

import (
	"fmt"

	"github.com/gogpu/shdc/errs"
	"github.com/gogpu/shdc/input"
	"github.com/gogpu/shdc/reflectutil"
	"github.com/gogpu/shdc/slang"
	"github.com/gogpu/shdc/spirvc"
)

// Key identifies one (snippet, target language) translation result.
type Key struct {
	SnippetIndex int
	Lang         slang.Lang
}

// Result is the full SpirvCross stage output: every successfully
// translated (snippet, target) pair. A missing key means that
// translation failed; the absence itself is the failure signal consumed
// by the LinkError check in the header stage.
type Result map[Key]TranslatedSource

// Find looks up the translation for one snippet/language pair.
func (r Result) Find(snippetIndex int, lang slang.Lang) (TranslatedSource, bool) {
	ts, ok := r[Key{snippetIndex, lang}]
	return ts, ok
}

var uniformKindByBaseType = map[string]reflectutil.UniformKind{
	"float": reflectutil.Float,
	"vec2":  reflectutil.Float2,
	"vec3":  reflectutil.Float3,
	"vec4":  reflectutil.Float4,
	"mat4":  reflectutil.Mat4,
	"int":   reflectutil.Int,
	"ivec2": reflectutil.Int2,
	"ivec3": reflectutil.Int3,
	"ivec4": reflectutil.Int4,
}

var imageKindByDim = map[string]reflectutil.ImageKind{
	"2D":      reflectutil.Image2D,
	"Cube":    reflectutil.ImageCube,
	"3D":      reflectutil.Image3D,
	"2DArray": reflectutil.ImageArray,
}

func stageFor(kind input.SnippetKind) (spirvc.Stage, ShaderStage) {
	if kind == input.Fragment {
		return spirvc.StageFragment, FS
	}
	return spirvc.StageVertex, VS
}

// Translate runs the SpirvCross stage: every SpirvBlob is translated into
// every requested target language, reflection is extracted on the same
// backend call, and — once every target for a snippet has translated —
// the cross-target reflection consistency invariant is checked. Target
// languages are iterated in ascending enum order for deterministic
// output, matching the Spirv stage's ascending-snippet-index iteration.
func Translate(in *input.Input, blobs []spirvc.Blob, targets slang.Set, backend Backend) (Result, errs.List) {
	result := Result{}
	var errList errs.List
	langs := targets.Langs()

	for _, blob := range blobs {
		snip := in.Snippets[blob.SnippetIndex]
		stage, reflStage := stageFor(snip.Kind)

		var collected []Reflection
		for _, lang := range langs {
			source, raw, diags, err := backend.Translate(blob, stage, lang)
			if err != nil {
				errList.Addf(in.Path, snip.FirstLine(), "%s %q [%s]: translation invocation failed: %v", snip.Kind, snip.Name, lang, err)
				continue
			}
			if len(diags) > 0 {
				for _, d := range diags {
					errList.Addf(in.Path, snip.FirstLine(), "%s %q [%s]: %s", snip.Kind, snip.Name, lang, d.Message)
				}
				continue
			}
			refl, buildErr := buildReflection(raw, reflStage)
			if buildErr != nil {
				errList.Addf(in.Path, snip.FirstLine(), "%s %q [%s]: %v", snip.Kind, snip.Name, lang, buildErr)
				continue
			}
			result[Key{SnippetIndex: blob.SnippetIndex, Lang: lang}] = TranslatedSource{
				SnippetIndex: blob.SnippetIndex,
				SourceCode:   source,
				Reflection:   refl,
			}
			collected = append(collected, refl)
		}

		for i := 1; i < len(collected); i++ {
			if !collected[0].Equal(collected[i]) {
				errList.Addf(in.Path, snip.FirstLine(), "%s %q: reflection differs between target languages", snip.Kind, snip.Name)
				break
			}
		}
	}

	return result, errList
}

// buildReflection converts a backend's raw reflection query result into
// this package's typed Reflection, assigning dense attribute slots in
// declaration order, resolving uniform-block and image binding slots,
// and mapping backend type tags to UniformKind/ImageKind. Returns an
// error for any non-representable member type or unsupported image
// dimension, per the CrossError contract.
func buildReflection(raw RawReflection, stage ShaderStage) (Reflection, error) {
	attrs := make([]Attribute, len(raw.Inputs))
	for i, ra := range raw.Inputs {
		sem := ra.UserSemantic
		if sem == "" {
			sem = fmt.Sprintf("TEXCOORD%d", i)
		}
		attrs[i] = Attribute{Slot: i, Name: ra.Name, SemanticName: sem, SemanticIdx: 0}
	}

	usedBlockSlots := map[int]bool{}
	for _, rb := range raw.UniformBlocks {
		if rb.Binding >= 0 {
			usedBlockSlots[rb.Binding] = true
		}
	}
	nextFreeBlockSlot := 0
	blocks := make([]UniformBlock, 0, len(raw.UniformBlocks))
	for _, rb := range raw.UniformBlocks {
		slot := rb.Binding
		if slot < 0 {
			for usedBlockSlots[nextFreeBlockSlot] {
				nextFreeBlockSlot++
			}
			slot = nextFreeBlockSlot
			usedBlockSlots[slot] = true
		}

		maxEnd := 0
		uniforms := make([]Uniform, 0, len(rb.Members))
		for _, rm := range rb.Members {
			kind, ok := uniformKindByBaseType[rm.BaseType]
			if !ok {
				return Reflection{}, fmt.Errorf("uniform block %q: member %q has non-representable type %q", rb.Name, rm.Name, rm.BaseType)
			}
			arrayCount := rm.ArrayCount
			if arrayCount < 1 {
				arrayCount = 1
			}
			end := rm.OffsetBytes + reflectutil.UniformSize(kind, arrayCount)
			if end > maxEnd {
				maxEnd = end
			}
			uniforms = append(uniforms, Uniform{
				Name:        rm.Name,
				Kind:        kind,
				ArrayCount:  arrayCount,
				OffsetBytes: rm.OffsetBytes,
			})
		}
		blocks = append(blocks, UniformBlock{
			Slot:     slot,
			ByteSize: reflectutil.RoundUp(maxEnd, 16),
			Name:     rb.Name,
			Uniforms: uniforms,
		})
	}

	usedImageSlots := map[int]bool{}
	for _, ri := range raw.Images {
		if ri.Binding >= 0 {
			usedImageSlots[ri.Binding] = true
		}
	}
	nextFreeImageSlot := 0
	images := make([]ImageBinding, 0, len(raw.Images))
	for _, ri := range raw.Images {
		kind, ok := imageKindByDim[ri.Dim]
		if !ok {
			return Reflection{}, fmt.Errorf("image %q has unsupported dimension %q", ri.Name, ri.Dim)
		}
		slot := ri.Binding
		if slot < 0 {
			for usedImageSlots[nextFreeImageSlot] {
				nextFreeImageSlot++
			}
			slot = nextFreeImageSlot
			usedImageSlots[slot] = true
		}
		images = append(images, ImageBinding{Slot: slot, Name: ri.Name, Kind: kind})
	}

	return Reflection{
		Stage:         stage,
		EntryPoint:    raw.EntryPoint,
		Attrs:         attrs,
		UniformBlocks: blocks,
		Images:        images,
	}, nil
}
