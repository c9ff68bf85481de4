package css_test

import (
	"fmt"
	"testing"

	"cascade/css"
)

func gradientLayer(t *testing.T, text string) css.LinearGradient {
	t.Helper()
	st := styleSingle(t, text)
	if st.BackgroundImage == nil || len(st.BackgroundImage.Layers) != 1 {
		t.Fatalf("expected one gradient layer, got %v", st.BackgroundImage)
	}
	return st.BackgroundImage.Layers[0]
}

func expectStops(t *testing.T, g css.LinearGradient, want []css.GradientStop) {
	t.Helper()
	if len(g.Stops) != len(want) {
		t.Fatalf("expected %d stops, got %d: %v", len(want), len(g.Stops), g.Stops)
	}
	for i, w := range want {
		got := g.Stops[i]
		if !approx(got.Pos, w.Pos) {
			t.Errorf("stop %d: expected pos %v, got %v", i, w.Pos, got.Pos)
		}
		if got.Color.Current != w.Color.Current {
			t.Errorf("stop %d: currentcolor mismatch", i)
			continue
		}
		if !w.Color.Current && got.Color.Color.Hex() != w.Color.Color.Hex() {
			t.Errorf("stop %d: expected color %s, got %s", i, w.Color.Color.Hex(), got.Color.Color.Hex())
		}
	}
}

func hexStop(pos float64, hex string) css.GradientStop {
	c, err := css.ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return css.GradientStop{Pos: pos, Color: css.ExactColor(c)}
}

func TestGradient_NoneAndDefaults(t *testing.T) {
	st := styleSingle(t, ".root { background-image: none; }")
	if st.BackgroundImage != nil {
		t.Errorf("expected none to clear the stack, got %v", st.BackgroundImage)
	}

	g := gradientLayer(t, ".root { background-image: linear-gradient(#fff, #000); }")
	if g.Angle.Kind != css.ToBottom {
		t.Errorf("expected default direction to bottom, got %v", g.Angle)
	}
	if g.Space != css.SpaceSrgb || g.Hue != css.HueShorter {
		t.Errorf("expected srgb shorter defaults, got %v %v", g.Space, g.Hue)
	}
	expectStops(t, g, []css.GradientStop{hexStop(0, "fff"), hexStop(1, "000")})
}

func TestGradient_Directions(t *testing.T) {
	for _, tc := range []struct {
		dir  string
		want css.GradientAngleKind
	}{
		{"to top", css.ToTop},
		{"to right", css.ToRight},
		{"to left", css.ToLeft},
		{"to bottom", css.ToBottom},
		{"to top right", css.ToTopRight},
		{"to right top", css.ToTopRight},
		{"to top left", css.ToTopLeft},
		{"to bottom right", css.ToBottomRight},
		{"to bottom left", css.ToBottomLeft},
	} {
		g := gradientLayer(t, fmt.Sprintf(".root { background-image: linear-gradient(%s, #fff, #000); }", tc.dir))
		if g.Angle.Kind != tc.want {
			t.Errorf("direction %q: expected %v, got %v", tc.dir, tc.want, g.Angle)
		}
	}

	g := gradientLayer(t, ".root { background-image: linear-gradient(90deg, #fff, #000); }")
	if g.Angle.Kind != css.AngleDegrees || !approx(g.Angle.Value, 90) {
		t.Errorf("expected 90deg, got %v", g.Angle)
	}
	g = gradientLayer(t, ".root { background-image: linear-gradient(-45deg, #fff, #000); }")
	if g.Angle.Kind != css.AngleDegrees || !approx(g.Angle.Value, -45) {
		t.Errorf("expected -45deg, got %v", g.Angle)
	}
	g = gradientLayer(t, ".root { background-image: linear-gradient(3.1415927rad, #fff, #000); }")
	if g.Angle.Kind != css.AngleRadians || !approx(g.Angle.Value, 3.1415927) {
		t.Errorf("expected pi radians, got %v", g.Angle)
	}
}

func TestGradient_StopPositions(t *testing.T) {
	g := gradientLayer(t, ".root { background-image: linear-gradient(to top, #FFF 25%, #000 75%); }")
	expectStops(t, g, []css.GradientStop{hexStop(0.25, "fff"), hexStop(0.75, "000")})

	// hard stops with two positions per color
	g = gradientLayer(t, ".root { background-image: linear-gradient(to right, #fff 0% 50%, #000 50% 100%); }")
	expectStops(t, g, []css.GradientStop{
		hexStop(0, "fff"), hexStop(0.5, "fff"),
		hexStop(0.5, "000"), hexStop(1, "000"),
	})

	// unplaced middle stops spread evenly
	g = gradientLayer(t, ".root { background-image: linear-gradient(#f00, #0f0, #00f); }")
	expectStops(t, g, []css.GradientStop{hexStop(0, "f00"), hexStop(0.5, "0f0"), hexStop(1, "00f")})

	g = gradientLayer(t, ".root { background-image: linear-gradient(#f00 20%, #0f0, #00f, #fff 80%); }")
	expectStops(t, g, []css.GradientStop{
		hexStop(0.2, "f00"), hexStop(0.4, "0f0"), hexStop(0.6, "00f"), hexStop(0.8, "fff"),
	})

	// positions never run backwards
	g = gradientLayer(t, ".root { background-image: linear-gradient(#fff 50%, #000 25%); }")
	expectStops(t, g, []css.GradientStop{hexStop(0.5, "fff"), hexStop(0.5, "000")})
}

func TestGradient_Hints(t *testing.T) {
	// a hint becomes a concrete stop blended between its neighbors
	g := gradientLayer(t, ".root { background-image: linear-gradient(#fff, 25%, #000); }")
	expectStops(t, g, []css.GradientStop{
		hexStop(0, "fff"), hexStop(0.25, "bfbfbf"), hexStop(1, "000"),
	})

	// midpoint hint is the plain average
	g = gradientLayer(t, ".root { background-image: linear-gradient(#fff, 50%, #000); }")
	expectStops(t, g, []css.GradientStop{
		hexStop(0, "fff"), hexStop(0.5, "808080"), hexStop(1, "000"),
	})
}

func TestGradient_InterpolationSpaces(t *testing.T) {
	for _, tc := range []struct {
		name string
		want css.ColorSpace
	}{
		{"srgb", css.SpaceSrgb},
		{"srgb-linear", css.SpaceSrgbLinear},
		{"linear-srgb", css.SpaceSrgbLinear},
		{"hsl", css.SpaceHsl},
		{"hwb", css.SpaceHwb},
		{"lab", css.SpaceLab},
		{"lch", css.SpaceLch},
		{"oklab", css.SpaceOklab},
		{"oklch", css.SpaceOklch},
	} {
		g := gradientLayer(t, fmt.Sprintf(".root { background-image: linear-gradient(to top in %s, #fff, #000); }", tc.name))
		if g.Space != tc.want {
			t.Errorf("space %q: expected %v, got %v", tc.name, tc.want, g.Space)
		}
	}

	// interpolation clause without a direction
	g := gradientLayer(t, ".root { background-image: linear-gradient(in oklab, red, blue); }")
	if g.Angle.Kind != css.ToBottom || g.Space != css.SpaceOklab {
		t.Errorf("expected default direction with oklab, got %v %v", g.Angle, g.Space)
	}

	// unsupported spaces reject the declaration
	st := styleSingle(t, ".root { background-image: linear-gradient(in display-p3, #fff, #000); }")
	if st.BackgroundImage != nil {
		t.Errorf("expected display-p3 rejection, got %v", st.BackgroundImage)
	}
}

func TestGradient_HueDirections(t *testing.T) {
	for _, tc := range []struct {
		dir  string
		want css.HueDirection
	}{
		{"shorter", css.HueShorter},
		{"longer", css.HueLonger},
		{"increasing", css.HueIncreasing},
		{"decreasing", css.HueDecreasing},
	} {
		g := gradientLayer(t, fmt.Sprintf(
			".root { background-image: linear-gradient(to top in lch %s hue, hsl(10 100%% 50%%), hsl(350 100%% 50%%)); }", tc.dir))
		if g.Hue != tc.want {
			t.Errorf("hue %q: expected %v, got %v", tc.dir, tc.want, g.Hue)
		}
		if g.Space != css.SpaceLch {
			t.Errorf("hue %q: expected lch space, got %v", tc.dir, g.Space)
		}
	}

	// "hue" keyword is mandatory after a direction
	st := styleSingle(t, ".root { background-image: linear-gradient(in lch longer, #fff, #000); }")
	if st.BackgroundImage != nil {
		t.Errorf("expected missing hue keyword rejection, got %v", st.BackgroundImage)
	}
}

func TestGradient_CaseAndWhitespace(t *testing.T) {
	g := gradientLayer(t, ".root { background-image: LiNeAr-GrAdIeNt(  to  right   in   lab  ,  #fff  ,  #000  ); }")
	if g.Angle.Kind != css.ToRight || g.Space != css.SpaceLab {
		t.Errorf("expected case-insensitive parse, got %v %v", g.Angle, g.Space)
	}
}

func TestGradient_MultipleLayers(t *testing.T) {
	st := styleSingle(t, ".root { background-image: linear-gradient(to top, #fff, #000), linear-gradient(to right in oklab, red, blue); }")
	if st.BackgroundImage == nil || len(st.BackgroundImage.Layers) != 2 {
		t.Fatalf("expected two layers, got %v", st.BackgroundImage)
	}
	if st.BackgroundImage.Layers[0].Angle.Kind != css.ToTop {
		t.Errorf("expected first layer to top, got %v", st.BackgroundImage.Layers[0].Angle)
	}
	if st.BackgroundImage.Layers[1].Space != css.SpaceOklab || st.BackgroundImage.Layers[1].Angle.Kind != css.ToRight {
		t.Errorf("expected second layer oklab to right, got %v", st.BackgroundImage.Layers[1])
	}
}

func TestGradient_Reject(t *testing.T) {
	for _, bad := range []string{
		"#fff",
		"foo",
		"radial-gradient(#fff, #000)",
		"url(test.png)",
		"linear-gradient()",
		"linear-gradient(#fff)",
		"linear-gradient(#fff, #000) extra",
		"linear-gradient(#fff, #000),",
		"linear-gradient(#fff #000)",
		"linear-gradient(#fff,, #000)",
		"linear-gradient(#fff,)",
		"linear-gradient(, #fff, #000)",
		"linear-gradient(#12, #000)",
		"linear-gradient(#ggg, #000)",
		"linear-gradient(#fff 10, #000)",
		"linear-gradient(#fff 10px, #000)",
		"linear-gradient(#fff 10deg, #000)",
		"linear-gradient(#fff 10% 20% 30%, #000)",
		"linear-gradient(#fff, 50px, #000)",
		"linear-gradient(#fff, 50% 60%, #000)",
		"linear-gradient(#fff, 20%, 30%, #000)",
		"linear-gradient(10%, #fff, #000)",
		"linear-gradient(10px, #fff, #000)",
		"linear-gradient(left, #fff, #000)",
		"linear-gradient(to up, #fff, #000)",
		"linear-gradient(to left right, #fff, #000)",
		"linear-gradient(to top bottom, #fff, #000)",
		"linear-gradient(to, #fff, #000)",
		"linear-gradient(to top #fff, #000)",
		"linear-gradient(in nope, #fff, #000)",
		"linear-gradient(in, #fff, #000)",
		"linear-gradient(in oklab red, blue)",
		"linear-gradient(in oklab, red)",
		"linear-gradient(in oklab,, red, blue)",
		"linear-gradient(rgb(255, 255, 255) rgb(0, 0, 0))",
		"linear-gradient(hsl(0 100% 50%), hsl(0 0%))",
	} {
		st := styleSingle(t, fmt.Sprintf(".root { background-image: %s; }", bad))
		if st.BackgroundImage != nil {
			t.Errorf("background-image: %s: expected rejection, got %v", bad, st.BackgroundImage)
		}
	}
}

func TestGradient_NotInherited(t *testing.T) {
	styles := styleTree(t, ".parent { background-image: linear-gradient(to top, #fff, #000); }", oneChildTree())
	if styles[0].BackgroundImage == nil {
		t.Fatal("expected parent gradient")
	}
	if styles[1].BackgroundImage != nil {
		t.Errorf("expected child gradient to stay nil, got %v", styles[1].BackgroundImage)
	}

	styles = styleTree(t, ".parent { background-image: linear-gradient(to top, #fff, #000); } .child { background-image: inherit; }", oneChildTree())
	if styles[1].BackgroundImage == nil || styles[1].BackgroundImage.Layers[0].Angle.Kind != css.ToTop {
		t.Errorf("expected explicit inherit to copy the stack, got %v", styles[1].BackgroundImage)
	}
}
