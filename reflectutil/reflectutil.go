// Package reflectutil holds small, dependency-free helpers shared by the
// reflection and header-emission stages: uniform byte-size computation,
// alignment rounding, and the identifier-casing helpers a C-header
// generator needs for symbol names.
//
// Each function here is ported in spirit (not translated line-by-line)
// from the original sokol-shdc util.cc.
package reflectutil

import "strings"

// UniformKind enumerates the uniform value types the reflection stage can
// represent. Extensible to INT variants per the data model.
type UniformKind uint8

const (
	Float UniformKind = iota
	Float2
	Float3
	Float4
	Mat4
	Int
	Int2
	Int3
	Int4
)

func (k UniformKind) String() string {
	switch k {
	case Float:
		return "FLOAT"
	case Float2:
		return "FLOAT2"
	case Float3:
		return "FLOAT3"
	case Float4:
		return "FLOAT4"
	case Mat4:
		return "MAT4"
	case Int:
		return "INT"
	case Int2:
		return "INT2"
	case Int3:
		return "INT3"
	case Int4:
		return "INT4"
	default:
		return "INVALID"
	}
}

// UniformTypeString returns the GLSL-flavored type name used in generated
// header comments.
func UniformTypeString(k UniformKind) string {
	switch k {
	case Float:
		return "float"
	case Float2:
		return "vec2"
	case Float3:
		return "vec3"
	case Float4:
		return "vec4"
	case Mat4:
		return "mat4"
	case Int:
		return "int"
	case Int2:
		return "ivec2"
	case Int3:
		return "ivec3"
	case Int4:
		return "ivec4"
	default:
		return "FIXME"
	}
}

// UniformSize returns the std140-ish byte size of one uniform of kind k
// with the given array count (>= 1 for scalars, >1 for arrays).
func UniformSize(k UniformKind, arrayCount int) int {
	if arrayCount > 1 {
		switch k {
		case Float4, Int4:
			return 16 * arrayCount
		case Mat4:
			return 64 * arrayCount
		default:
			return 0
		}
	}
	switch k {
	case Float, Int:
		return 4
	case Float2, Int2:
		return 8
	case Float3, Int3:
		return 12
	case Float4, Int4:
		return 16
	case Mat4:
		return 64
	default:
		return 0
	}
}

// ImageKind enumerates supported sampled-image dimensionalities.
type ImageKind uint8

const (
	Image2D ImageKind = iota
	ImageCube
	Image3D
	ImageArray
)

func (k ImageKind) String() string {
	switch k {
	case Image2D:
		return "IMAGE_2D"
	case ImageCube:
		return "IMAGE_CUBE"
	case Image3D:
		return "IMAGE_3D"
	case ImageArray:
		return "IMAGE_ARRAY"
	default:
		return "INVALID"
	}
}

// RoundUp rounds val up to the next multiple of roundTo. roundTo must be a
// power of two.
func RoundUp(val, roundTo int) int {
	return (val + (roundTo - 1)) &^ (roundTo - 1)
}

// ModPrefix returns "" for an unset module name, or "name_" otherwise —
// the prefix HeaderEmitter applies to every generated symbol.
func ModPrefix(module string) string {
	if module == "" {
		return ""
	}
	return module + "_"
}

// ToPascalCase converts "snake_case" to "SnakeCase".
func ToPascalCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(capitalize(p))
	}
	return b.String()
}

// ToAdaCase converts "snake_case" to "Snake_Case".
func ToAdaCase(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, "_")
}

// ToCamelCase converts "snake_case" to "snakeCase".
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return pascal
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// ToUpperCase converts s to its uppercase form.
func ToUpperCase(s string) string {
	return strings.ToUpper(s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// ReplaceCCommentTokens replaces literal C comment delimiters inside a
// string that will itself be embedded in a C comment, so the generated
// header never contains a premature comment terminator.
func ReplaceCCommentTokens(s string) string {
	s = strings.ReplaceAll(s, "/*", "/_")
	s = strings.ReplaceAll(s, "*/", "_/")
	return s
}
