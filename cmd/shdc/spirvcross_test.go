package main

import (
	"testing"

	"github.com/gogpu/shdc/slang"
)

func allLangsForTest() []slang.Lang {
	return slang.NewSet(
		slang.GLSLDesktop, slang.GLSLES300, slang.GLSLES100,
		slang.HLSL, slang.MetalMacOS, slang.MetalIOS,
	).Langs()
}

func TestReflectDocToRaw(t *testing.T) {
	var doc reflectDoc
	doc.EntryPoints = append(doc.EntryPoints, struct {
		Name string `json:"name"`
	}{Name: "main"})
	doc.Inputs = append(doc.Inputs, struct {
		Name     string `json:"name"`
		Semantic string `json:"semantic"`
	}{Name: "a_pos"})
	doc.UBOs = append(doc.UBOs, struct {
		Name      string `json:"name"`
		Binding   int    `json:"binding"`
		BlockSize int    `json:"block_size"`
		Type      string `json:"type"`
	}{Name: "params", Binding: 0, BlockSize: 80, Type: "_13"})
	doc.Textures = append(doc.Textures, struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Binding int    `json:"binding"`
	}{Name: "tex", Type: "sampler2D", Binding: 0})

	doc.Types = map[string]struct {
		Members []struct {
			Name   string `json:"name"`
			Type   string `json:"type"`
			Offset int    `json:"offset"`
			Array  []int  `json:"array"`
		} `json:"members"`
	}{
		"_13": {Members: []struct {
			Name   string `json:"name"`
			Type   string `json:"type"`
			Offset int    `json:"offset"`
			Array  []int  `json:"array"`
		}{
			{Name: "mvp", Type: "float4x4", Offset: 0},
			{Name: "color", Type: "float4", Offset: 64},
		}},
	}

	raw := doc.toRaw()
	if raw.EntryPoint != "main" {
		t.Fatalf("unexpected entry point: %q", raw.EntryPoint)
	}
	if len(raw.UniformBlocks) != 1 || len(raw.UniformBlocks[0].Members) != 2 {
		t.Fatalf("unexpected blocks: %+v", raw.UniformBlocks)
	}
	if raw.UniformBlocks[0].Members[0].BaseType != "mat4" {
		t.Fatalf("expected float4x4 -> mat4, got %q", raw.UniformBlocks[0].Members[0].BaseType)
	}
	if len(raw.Images) != 1 || raw.Images[0].Dim != "2D" {
		t.Fatalf("unexpected images: %+v", raw.Images)
	}
}

func TestSamplerTypeToDim(t *testing.T) {
	cases := map[string]string{
		"sampler2D":      "2D",
		"samplerCube":    "Cube",
		"sampler3D":      "3D",
		"sampler2DArray": "2DArray",
	}
	for in, want := range cases {
		if got := samplerTypeToDim(in); got != want {
			t.Fatalf("samplerTypeToDim(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSourceFlagsFlattensUBOsForGLSLES100(t *testing.T) {
	flags := sourceFlags(slang.GLSLES100)
	found := false
	for _, f := range flags {
		if f == "--flatten-ubo" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected --flatten-ubo for GLSL ES 1.0 (no UBO support), got %v", flags)
	}
	// Desktop GLSL has native UBO support and must not be flattened.
	for _, f := range sourceFlags(slang.GLSLDesktop) {
		if f == "--flatten-ubo" {
			t.Fatal("desktop GLSL has UBO support, --flatten-ubo must not be set")
		}
	}
}

func TestSourceFlagsCoversEveryLang(t *testing.T) {
	// every target language must produce a non-nil invocation, or
	// Translate would shell out to spirv-cross with no mode flag at all.
	for _, lang := range allLangsForTest() {
		if flags := sourceFlags(lang); flags == nil {
			t.Fatalf("sourceFlags(%v) returned no flags", lang)
		}
	}
}
