package reflectutil

import "testing"

func TestRoundUp(t *testing.T) {
	cases := []struct{ val, to, want int }{
		{0, 16, 0}, {1, 16, 16}, {16, 16, 16}, {17, 16, 32}, {64, 16, 64},
	}
	for _, c := range cases {
		if got := RoundUp(c.val, c.to); got != c.want {
			t.Errorf("RoundUp(%d,%d) = %d, want %d", c.val, c.to, got, c.want)
		}
	}
}

func TestModPrefix(t *testing.T) {
	if ModPrefix("") != "" {
		t.Error("empty module should yield empty prefix")
	}
	if ModPrefix("game") != "game_" {
		t.Errorf("got %q, want game_", ModPrefix("game"))
	}
}

func TestCasingHelpers(t *testing.T) {
	if got := ToPascalCase("hello_world"); got != "HelloWorld" {
		t.Errorf("ToPascalCase = %q", got)
	}
	if got := ToAdaCase("hello_world"); got != "Hello_World" {
		t.Errorf("ToAdaCase = %q", got)
	}
	if got := ToCamelCase("hello_world"); got != "helloWorld" {
		t.Errorf("ToCamelCase = %q", got)
	}
	if got := ToUpperCase("hello"); got != "HELLO" {
		t.Errorf("ToUpperCase = %q", got)
	}
}

func TestUniformSize(t *testing.T) {
	cases := []struct {
		k          UniformKind
		arrayCount int
		want       int
	}{
		{Float, 1, 4}, {Float2, 1, 8}, {Float3, 1, 12}, {Float4, 1, 16},
		{Mat4, 1, 64}, {Float4, 4, 64}, {Mat4, 2, 128}, {Int3, 1, 12},
	}
	for _, c := range cases {
		if got := UniformSize(c.k, c.arrayCount); got != c.want {
			t.Errorf("UniformSize(%v,%d) = %d, want %d", c.k, c.arrayCount, got, c.want)
		}
	}
}

func TestReplaceCCommentTokens(t *testing.T) {
	got := ReplaceCCommentTokens("/* hello */")
	if got != "/_ hello _/" {
		t.Errorf("got %q", got)
	}
}
