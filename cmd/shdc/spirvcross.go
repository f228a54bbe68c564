package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gogpu/shdc/crossc"
	"github.com/gogpu/shdc/slang"
	"github.com/gogpu/shdc/spirvc"
)

// spirvCrossBackend is the SpirvCrossBackend collaborator, backed by the
// `spirv-cross` command-line tool. One Translate call shells out twice
// against the same temp .spv file: once for source generation, once with
// `--reflect` for the JSON reflection query, so the two can never
// disagree about bindings within a single translation.
type spirvCrossBackend struct{}

func (spirvCrossBackend) Translate(blob spirvc.Blob, stage spirvc.Stage, lang slang.Lang) (string, crossc.RawReflection, []crossc.BackendDiagnostic, error) {
	if _, err := exec.LookPath("spirv-cross"); err != nil {
		return "", crossc.RawReflection{}, nil, fmt.Errorf("spirv-cross not found on PATH: %w", err)
	}

	dir, err := os.MkdirTemp("", "shdc-spirv-cross-*")
	if err != nil {
		return "", crossc.RawReflection{}, nil, err
	}
	defer os.RemoveAll(dir)

	spvPath := filepath.Join(dir, "shader.spv")
	if err := os.WriteFile(spvPath, bytesFromWords(blob.Words), 0o600); err != nil {
		return "", crossc.RawReflection{}, nil, err
	}

	source, diags, err := runSpirvCrossSource(spvPath, lang)
	if err != nil || len(diags) > 0 {
		return "", crossc.RawReflection{}, diags, err
	}

	raw, diags, err := runSpirvCrossReflect(spvPath, lang)
	if err != nil || len(diags) > 0 {
		return "", crossc.RawReflection{}, diags, err
	}

	return source, raw, nil, nil
}

func runSpirvCrossSource(spvPath string, lang slang.Lang) (string, []crossc.BackendDiagnostic, error) {
	out, err := exec.Command("spirv-cross", append(sourceFlags(lang), spvPath)...).CombinedOutput()
	if err != nil {
		return "", []crossc.BackendDiagnostic{{Message: string(out)}}, nil
	}
	return string(out), nil, nil
}

// sourceFlags maps a target language to the spirv-cross invocation that
// produces its source text. GLSL ES 1.0 (GLES2) has no uniform buffer
// objects and no separate sampler objects, so it additionally needs its
// uniform blocks flattened into plain uniform arrays and its
// texture/sampler pairs combined into a single `sampler2D`-style binding
// — spirv-cross does the latter automatically for any GLSL/ES target,
// the former only with `--flatten-ubo`.
func sourceFlags(lang slang.Lang) []string {
	switch lang {
	case slang.GLSLDesktop:
		return []string{"--version", "330", "--no-es"}
	case slang.GLSLES300:
		return []string{"--version", "300", "--es"}
	case slang.GLSLES100:
		return []string{"--version", "100", "--es", "--flatten-ubo"}
	case slang.HLSL:
		return []string{"--hlsl", "--shader-model", "50"}
	case slang.MetalMacOS:
		return []string{"--msl", "--msl-version", "20100"}
	case slang.MetalIOS:
		return []string{"--msl", "--msl-version", "20100", "--msl-ios"}
	default:
		return nil
	}
}

func runSpirvCrossReflect(spvPath string, lang slang.Lang) (crossc.RawReflection, []crossc.BackendDiagnostic, error) {
	args := append(sourceFlags(lang), "--reflect", spvPath)
	out, err := exec.Command("spirv-cross", args...).CombinedOutput()
	if err != nil {
		return crossc.RawReflection{}, []crossc.BackendDiagnostic{{Message: string(out)}}, nil
	}
	var doc reflectDoc
	if jsonErr := json.Unmarshal(out, &doc); jsonErr != nil {
		return crossc.RawReflection{}, nil, fmt.Errorf("parsing spirv-cross --reflect output: %w", jsonErr)
	}
	return doc.toRaw(), nil, nil
}

// reflectDoc mirrors the JSON shape spirv-cross emits for `--reflect`:
// flat input/ubo/texture lists, with uniform-block member layouts nested
// under a separate "types" map keyed by the block's type id.
type reflectDoc struct {
	EntryPoints []struct {
		Name string `json:"name"`
	} `json:"entryPoints"`
	Inputs []struct {
		Name     string `json:"name"`
		Semantic string `json:"semantic"`
	} `json:"inputs"`
	UBOs []struct {
		Name      string `json:"name"`
		Binding   int    `json:"binding"`
		BlockSize int    `json:"block_size"`
		Type      string `json:"type"`
	} `json:"ubos"`
	Textures []struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Binding int    `json:"binding"`
	} `json:"textures"`
	Types map[string]struct {
		Members []struct {
			Name   string `json:"name"`
			Type   string `json:"type"`
			Offset int    `json:"offset"`
			Array  []int  `json:"array"`
		} `json:"members"`
	} `json:"types"`
}

func (d reflectDoc) toRaw() crossc.RawReflection {
	raw := crossc.RawReflection{}
	if len(d.EntryPoints) > 0 {
		raw.EntryPoint = d.EntryPoints[0].Name
	}

	for _, in := range d.Inputs {
		raw.Inputs = append(raw.Inputs, crossc.RawAttribute{Name: in.Name, UserSemantic: in.Semantic})
	}

	for _, ubo := range d.UBOs {
		block := crossc.RawUniformBlock{Name: ubo.Name, Binding: ubo.Binding}
		if t, ok := d.Types[ubo.Type]; ok {
			for _, m := range t.Members {
				arrayCount := 1
				if len(m.Array) > 0 {
					arrayCount = m.Array[0]
				}
				block.Members = append(block.Members, crossc.RawMember{
					Name:        m.Name,
					BaseType:    spirvTypeToBaseType(m.Type),
					ArrayCount:  arrayCount,
					OffsetBytes: m.Offset,
				})
			}
		}
		raw.UniformBlocks = append(raw.UniformBlocks, block)
	}

	for _, tex := range d.Textures {
		raw.Images = append(raw.Images, crossc.RawImage{Name: tex.Name, Binding: tex.Binding, Dim: samplerTypeToDim(tex.Type)})
	}

	return raw
}

// spirvTypeToBaseType maps spirv-cross's reflection type names to the
// base-type tags crossc.buildReflection understands.
func spirvTypeToBaseType(t string) string {
	switch t {
	case "float":
		return "float"
	case "float2", "vec2":
		return "vec2"
	case "float3", "vec3":
		return "vec3"
	case "float4", "vec4":
		return "vec4"
	case "float4x4", "mat4":
		return "mat4"
	case "int", "int1":
		return "int"
	case "int2":
		return "ivec2"
	case "int3":
		return "ivec3"
	case "int4":
		return "ivec4"
	default:
		return t
	}
}

// samplerTypeToDim maps a GLSL-flavored sampler type name to the
// dimension tag crossc.buildReflection understands.
func samplerTypeToDim(t string) string {
	switch {
	case strings.Contains(t, "Cube"):
		return "Cube"
	case strings.Contains(t, "2DArray"):
		return "2DArray"
	case strings.Contains(t, "3D"):
		return "3D"
	case strings.Contains(t, "2D"):
		return "2D"
	default:
		return t
	}
}

func bytesFromWords(words []uint32) []byte {
	b := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}
