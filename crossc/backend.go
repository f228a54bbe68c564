package crossc

import (
	"github.com/gogpu/shdc/slang"
	"github.com/gogpu/shdc/spirvc"
)

// RawAttribute is one stage-input variable as reported by the external
// SpirvCrossBackend's reflection query, before this package assigns
// dense slots and synthesizes semantics.
type RawAttribute struct {
	Name string
	// UserSemantic is a backend-detected explicit HLSL semantic
	// (e.g. from a `[[vk::location(0)]]`-style annotation); empty when
	// none was present, in which case a TEXCOORD{slot} semantic is
	// synthesized.
	UserSemantic string
}

// RawMember is one uniform-block member, with its SPIR-V type expressed
// as a backend-reported type tag rather than already mapped to
// UniformKind — that mapping, and rejecting non-representable types, is
// this package's job.
type RawMember struct {
	Name        string
	BaseType    string // "float", "vec2", "vec3", "vec4", "mat4", "int", "ivec2", "ivec3", "ivec4"
	ArrayCount  int    // 0 and 1 both mean "not an array"
	OffsetBytes int
}

// RawUniformBlock is one uniform buffer as reported by the backend's
// reflection query, prior to slot assignment and size rounding.
type RawUniformBlock struct {
	Name    string
	Binding int // explicit binding, or -1 if the backend assigned none
	Members []RawMember
}

// RawImage is one sampled image as reported by the backend, with its
// dimensionality expressed as a backend-reported dimension tag.
type RawImage struct {
	Name    string
	Binding int
	Dim     string // "2D", "Cube", "3D", "2DArray"; anything else is unsupported
}

// RawReflection is the backend's raw reflection query result for one
// (snippet, target) translation.
type RawReflection struct {
	EntryPoint    string
	Inputs        []RawAttribute
	UniformBlocks []RawUniformBlock
	Images        []RawImage
}

// BackendDiagnostic is one translation- or reflection-time problem
// reported by the external SpirvCrossBackend.
type BackendDiagnostic struct {
	Message string
}

// Backend is the external SPIR-V-to-source toolkit collaborator: one
// call both generates source text for a target language and extracts
// reflection, guaranteeing the two agree on bindings.
type Backend interface {
	Translate(blob spirvc.Blob, stage spirvc.Stage, lang slang.Lang) (source string, refl RawReflection, diags []BackendDiagnostic, err error)
}
