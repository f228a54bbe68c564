// Package crossc implements the SpirvCross stage: translating each
// compiled SPIR-V blob into every requested target shading language and
// extracting reflection metadata (attributes, uniform blocks, image
// bindings) on the same backend call that produced the source text, so
// bindings can never drift between the two.
package crossc

import "github.com/gogpu/shdc/reflectutil"

// ShaderStage identifies which pipeline stage a Reflection describes.
type ShaderStage uint8

const (
	VS ShaderStage = iota
	FS
)

func (s ShaderStage) String() string {
	if s == FS {
		return "FS"
	}
	return "VS"
}

// Attribute is one stage-input variable.
type Attribute struct {
	Slot         int
	Name         string
	SemanticName string
	SemanticIdx  int
}

// Uniform is one member of a UniformBlock.
type Uniform struct {
	Name        string
	Kind        reflectutil.UniformKind
	ArrayCount  int
	OffsetBytes int
}

// UniformBlock is one std140-rounded uniform buffer.
type UniformBlock struct {
	Slot     int
	ByteSize int
	Name     string
	Uniforms []Uniform
}

// ImageBinding is one sampled-image resource.
type ImageBinding struct {
	Slot int
	Name string
	Kind reflectutil.ImageKind
}

// Reflection is the machine-readable description of one shader's
// interface, which must be identical, binding slots included, across
// every target language for the same snippet.
type Reflection struct {
	Stage         ShaderStage
	EntryPoint    string
	Attrs         []Attribute
	UniformBlocks []UniformBlock
	Images        []ImageBinding
}

// Equal compares two Reflections by the fields the cross-target
// consistency invariant covers (attrs by slot/name/semantic; uniform
// blocks by slot/name/byte-size and member name/kind/array-count/offset;
// images by slot/name/kind). EntryPoint is deliberately excluded: HLSL
// always renames to "main", which is not a reflection mismatch.
func (r Reflection) Equal(o Reflection) bool {
	if r.Stage != o.Stage {
		return false
	}
	if len(r.Attrs) != len(o.Attrs) {
		return false
	}
	for i := range r.Attrs {
		if r.Attrs[i] != o.Attrs[i] {
			return false
		}
	}
	if len(r.UniformBlocks) != len(o.UniformBlocks) {
		return false
	}
	for i := range r.UniformBlocks {
		a, b := r.UniformBlocks[i], o.UniformBlocks[i]
		if a.Slot != b.Slot || a.Name != b.Name || a.ByteSize != b.ByteSize {
			return false
		}
		if len(a.Uniforms) != len(b.Uniforms) {
			return false
		}
		for j := range a.Uniforms {
			if a.Uniforms[j] != b.Uniforms[j] {
				return false
			}
		}
	}
	if len(r.Images) != len(o.Images) {
		return false
	}
	for i := range r.Images {
		if r.Images[i] != o.Images[i] {
			return false
		}
	}
	return true
}

// TranslatedSource is the per-(snippet, target) output of the SpirvCross
// stage: either a valid source+reflection pair, or nothing (a failed
// translation is simply absent from the driver's result map).
type TranslatedSource struct {
	SnippetIndex int
	SourceCode   string
	Reflection   Reflection
}
