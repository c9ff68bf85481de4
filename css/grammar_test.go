package css_test

import (
	"fmt"
	"math"
	"testing"

	"cascade/css"
)

func expectBackground(t *testing.T, value, wantHex string) {
	t.Helper()
	st := styleSingle(t, fmt.Sprintf(".root { background-color: %s; }", value))
	if got := st.BackgroundColor.Hex(); got != wantHex {
		t.Errorf("background-color: %s: expected %s, got %s", value, wantHex, got)
	}
}

func expectBackgroundNear(t *testing.T, value string, want css.Color) {
	t.Helper()
	st := styleSingle(t, fmt.Sprintf(".root { background-color: %s; }", value))
	got := st.BackgroundColor
	for i, pair := range [][2]float64{{got.R, want.R}, {got.G, want.G}, {got.B, want.B}, {got.A, want.A}} {
		if math.Abs(pair[0]-pair[1]) > 0.02 {
			t.Errorf("background-color: %s: channel %d is %v, expected about %v", value, i, pair[0], pair[1])
			return
		}
	}
}

func expectBackgroundRejected(t *testing.T, value string) {
	t.Helper()
	st := styleSingle(t, fmt.Sprintf(".root { background-color: %s; }", value))
	def := css.DefaultStyle().BackgroundColor.Hex()
	if got := st.BackgroundColor.Hex(); got != def {
		t.Errorf("background-color: %s: expected rejection, got %s", value, got)
	}
}

func TestColor_HexForms(t *testing.T) {
	expectBackground(t, "#F00", "#FF0000")
	expectBackground(t, "#f00f", "#FF0000")
	expectBackground(t, "#00ff00", "#00FF00")
	expectBackground(t, "#0000ff80", "#0000FF80")

	expectBackgroundRejected(t, "#12")
	expectBackgroundRejected(t, "#12345")
	expectBackgroundRejected(t, "#ggg")
}

func TestColor_Named(t *testing.T) {
	expectBackground(t, "red", "#FF0000")
	expectBackground(t, "rebeccapurple", "#663399")
	expectBackground(t, "DarkSlateGray", "#2F4F4F")
	expectBackground(t, "transparent", "#00000000")

	expectBackgroundRejected(t, "notacolor")
}

func TestColor_RGBForms(t *testing.T) {
	expectBackground(t, "rgb(255, 0, 0)", "#FF0000")
	expectBackground(t, "rgb(255 0 0)", "#FF0000")
	expectBackground(t, "rgba(0, 0, 255, 0.5)", "#0000FF80")
	expectBackground(t, "rgb(0 0 255 / 50%)", "#0000FF80")
	expectBackground(t, "rgb(100%, 0%, 0%)", "#FF0000")

	expectBackgroundRejected(t, "rgb()")
	expectBackgroundRejected(t, "rgb(255, 0)")
	expectBackgroundRejected(t, "rgb(1, 2, 3, 4, 5)")
}

func TestColor_HSLForms(t *testing.T) {
	expectBackground(t, "hsl(0, 100%, 50%)", "#FF0000")
	expectBackground(t, "hsl(240 100% 50%)", "#0000FF")
	expectBackground(t, "hsla(120, 100%, 50%, 0.5)", "#00FF0080")
	expectBackground(t, "hsl(240deg 100% 50%)", "#0000FF")
	// hue wraps
	expectBackground(t, "hsl(600 100% 50%)", "#0000FF")

	expectBackgroundRejected(t, "hsl(0, 1, 0.5)")
	expectBackgroundRejected(t, "hsl(0 0%)")
}

func TestColor_HWB(t *testing.T) {
	expectBackground(t, "hwb(120 0% 0%)", "#00FF00")
	expectBackground(t, "hwb(0 0% 100%)", "#000000")
	expectBackground(t, "hwb(0 100% 0%)", "#FFFFFF")
	expectBackground(t, "hwb(240 0% 0% / 0.5)", "#0000FF80")
	// whiteness and blackness over 100% collapse to gray
	expectBackground(t, "hwb(30 100% 100%)", "#808080")

	expectBackgroundRejected(t, "hwb(120 0 0)")
}

func TestColor_LabLch(t *testing.T) {
	expectBackgroundNear(t, "lab(100% 0 0)", css.Color{R: 1, G: 1, B: 1, A: 1})
	expectBackgroundNear(t, "lab(0% 0 0)", css.Color{R: 0, G: 0, B: 0, A: 1})
	expectBackgroundNear(t, "lab(53.233% 80.109 67.22)", css.Color{R: 1, G: 0, B: 0, A: 1})
	expectBackgroundNear(t, "lch(53.233% 104.576 40)", css.Color{R: 1, G: 0, B: 0, A: 1})
	expectBackgroundNear(t, "lch(100% 0 0)", css.Color{R: 1, G: 1, B: 1, A: 1})

	st := styleSingle(t, ".root { background-color: lab(50% 40 59.5 / 0.5); }")
	if !approx(st.BackgroundColor.A, 0.5) {
		t.Errorf("expected lab alpha 0.5, got %v", st.BackgroundColor.A)
	}
}

func TestColor_Oklab(t *testing.T) {
	expectBackgroundNear(t, "oklab(1 0 0)", css.Color{R: 1, G: 1, B: 1, A: 1})
	expectBackgroundNear(t, "oklab(0 0 0)", css.Color{R: 0, G: 0, B: 0, A: 1})
	expectBackgroundNear(t, "oklab(0.62796 0.22486 0.12585)", css.Color{R: 1, G: 0, B: 0, A: 1})
	expectBackgroundNear(t, "oklch(0.62796 0.25768 29.23)", css.Color{R: 1, G: 0, B: 0, A: 1})

	st := styleSingle(t, ".root { background-color: oklch(0.7 0.1 150 / 25%); }")
	if !approx(st.BackgroundColor.A, 0.25) {
		t.Errorf("expected oklch alpha 0.25, got %v", st.BackgroundColor.A)
	}
}

func TestUnit_Values(t *testing.T) {
	cases := []struct {
		value string
		want  css.Unit
	}{
		{"auto", css.Auto()},
		{"10px", css.Px(10)},
		{"1.5em", css.Em(1.5)},
		{"50%", css.Percent(0.5)},
		{"2s", css.Stretch(2)},
		{"3", css.Stretch(3)},
		{"0", css.Stretch(0)},
	}
	for _, tc := range cases {
		st := styleSingle(t, fmt.Sprintf(".root { width: %s; }", tc.value))
		if st.Width != tc.want {
			t.Errorf("width: %s: expected %v, got %v", tc.value, tc.want, st.Width)
		}
	}

	def := css.DefaultStyle().Width
	for _, bad := range []string{"10deg", "10 px", "foo", "10px 20px"} {
		st := styleSingle(t, fmt.Sprintf(".root { width: %s; }", bad))
		if st.Width != def {
			t.Errorf("width: %s: expected rejection, got %v", bad, st.Width)
		}
	}
}

func TestLength_Values(t *testing.T) {
	st := styleSingle(t, ".root { border-top-width: 4px; }")
	if st.BorderTopWidth != css.PxLength(4) {
		t.Errorf("expected border width 4px, got %v", st.BorderTopWidth)
	}
	st = styleSingle(t, ".root { border-top-left-radius: 1.5em; }")
	if st.BorderTopLeftRadius != css.EmLength(1.5) {
		t.Errorf("expected radius 1.5em, got %v", st.BorderTopLeftRadius)
	}
	// bare zero is a zero px length
	st = styleSingle(t, ".root { outline-offset: 0; }")
	if st.OutlineOffset != css.PxLength(0) {
		t.Errorf("expected zero outline offset, got %v", st.OutlineOffset)
	}
	// negative widths are rejected
	st = styleSingle(t, ".root { border-top-width: -2px; }")
	if st.BorderTopWidth != (css.Length{}) {
		t.Errorf("expected negative width rejection, got %v", st.BorderTopWidth)
	}
	// percent is not a length
	st = styleSingle(t, ".root { border-top-width: 50%; }")
	if st.BorderTopWidth != (css.Length{}) {
		t.Errorf("expected percent width rejection, got %v", st.BorderTopWidth)
	}
}

func TestLength_Optional(t *testing.T) {
	st := styleSingle(t, ".root { max-width: 100px; }")
	if st.MaxWidth == nil || *st.MaxWidth != css.PxLength(100) {
		t.Errorf("expected max-width 100px, got %v", st.MaxWidth)
	}
	st = styleSingle(t, ".root { max-width: none; }")
	if st.MaxWidth != nil {
		t.Errorf("expected max-width none to stay nil, got %v", st.MaxWidth)
	}
	st = styleSingle(t, ".root { min-height: 2em; }")
	if st.MinHeight == nil || *st.MinHeight != css.EmLength(2) {
		t.Errorf("expected min-height 2em, got %v", st.MinHeight)
	}
}

func TestUnit_OptionalSpacing(t *testing.T) {
	st := styleSingle(t, ".root { letter-spacing: 2px; }")
	if st.LetterSpacing == nil || *st.LetterSpacing != css.Px(2) {
		t.Errorf("expected letter-spacing 2px, got %v", st.LetterSpacing)
	}
	st = styleSingle(t, ".root { word-spacing: 1em; }")
	if st.WordSpacing == nil || *st.WordSpacing != css.Em(1) {
		t.Errorf("expected word-spacing 1em, got %v", st.WordSpacing)
	}
}

func TestOpacity(t *testing.T) {
	st := styleSingle(t, ".root { opacity: 0.3; }")
	if !approx(st.Opacity, 0.3) {
		t.Errorf("expected opacity 0.3, got %v", st.Opacity)
	}
	st = styleSingle(t, ".root { opacity: 10%; }")
	if !approx(st.Opacity, 0.1) {
		t.Errorf("expected opacity 0.1, got %v", st.Opacity)
	}
	// out of range values clamp
	st = styleSingle(t, ".root { opacity: 1.5; }")
	if st.Opacity != 1 {
		t.Errorf("expected opacity clamped to 1, got %v", st.Opacity)
	}
	st = styleSingle(t, ".root { opacity: -0.5; }")
	if st.Opacity != 0 {
		t.Errorf("expected opacity clamped to 0, got %v", st.Opacity)
	}
}

func TestDisplay(t *testing.T) {
	for _, tc := range []struct {
		value string
		want  css.Direction
	}{
		{"row", css.Row},
		{"row-reverse", css.RowReverse},
		{"column", css.Column},
		{"column-reverse", css.ColumnReverse},
	} {
		st := styleSingle(t, fmt.Sprintf(".root { display: %s; }", tc.value))
		if st.Display == nil || *st.Display != tc.want {
			t.Errorf("display: %s: expected %v, got %v", tc.value, tc.want, st.Display)
		}
	}
	st := styleSingle(t, ".root { display: none; }")
	if st.Display != nil {
		t.Errorf("expected display none to be nil, got %v", st.Display)
	}
}

func TestPosition(t *testing.T) {
	st := styleSingle(t, ".root { position: self-directed; }")
	if st.Position != css.SelfDirected {
		t.Errorf("expected self-directed, got %v", st.Position)
	}
	st = styleSingle(t, ".root { position: fixed; }")
	if st.Position != css.Fixed {
		t.Errorf("expected fixed, got %v", st.Position)
	}
	st = styleSingle(t, ".root { position: absolute; }")
	if st.Position != css.ParentDirected {
		t.Errorf("expected unknown keyword rejection, got %v", st.Position)
	}
}

func TestTextAlign(t *testing.T) {
	for _, tc := range []struct {
		value string
		want  css.TextAlign
	}{
		{"start", css.AlignStart},
		{"end", css.AlignEnd},
		{"left", css.AlignLeft},
		{"right", css.AlignRight},
		{"center", css.AlignCenter},
		{"justify", css.AlignJustify},
	} {
		st := styleSingle(t, fmt.Sprintf(".root { text-align: %s; }", tc.value))
		if st.TextAlign != tc.want {
			t.Errorf("text-align: %s: expected %v, got %v", tc.value, tc.want, st.TextAlign)
		}
	}
}

func TestZIndex(t *testing.T) {
	st := styleSingle(t, ".root { z-index: 3; }")
	if st.ZIndex != 3 {
		t.Errorf("expected z-index 3, got %d", st.ZIndex)
	}
	st = styleSingle(t, ".root { z-index: -1; }")
	if st.ZIndex != -1 {
		t.Errorf("expected z-index -1, got %d", st.ZIndex)
	}
	st = styleSingle(t, ".root { z-index: 1.5; }")
	if st.ZIndex != 0 {
		t.Errorf("expected fractional z-index rejection, got %d", st.ZIndex)
	}
}

func TestFontFamily(t *testing.T) {
	st := styleSingle(t, ".root { font-family: Arial, sans-serif; }")
	if st.FontFamily != "Arial, sans-serif" {
		t.Errorf("expected source text preserved, got %q", st.FontFamily)
	}
	st = styleSingle(t, `.root { font-family: "Times New Roman"; }`)
	if st.FontFamily != `"Times New Roman"` {
		t.Errorf("expected quoted family preserved, got %q", st.FontFamily)
	}
}

func TestFontStyleProperty(t *testing.T) {
	st := styleSingle(t, ".root { font-style: italic; }")
	if st.FontStyle.Kind != css.FontItalic {
		t.Errorf("expected italic, got %v", st.FontStyle)
	}
	st = styleSingle(t, ".root { font-style: oblique 10deg; }")
	if st.FontStyle.Kind != css.FontOblique || !st.FontStyle.HasAngle || !approx(st.FontStyle.Angle, 10) {
		t.Errorf("expected oblique 10deg, got %v", st.FontStyle)
	}
	st = styleSingle(t, ".root { font-style: normal; }")
	if st.FontStyle.Kind != css.FontNormal {
		t.Errorf("expected normal, got %v", st.FontStyle)
	}
}

func TestFontWeight(t *testing.T) {
	st := styleSingle(t, ".root { font-weight: bold; }")
	if st.FontWeight != 700 {
		t.Errorf("expected bold 700, got %v", st.FontWeight)
	}
	st = styleSingle(t, ".root { font-weight: 350; }")
	if st.FontWeight != 350 {
		t.Errorf("expected 350, got %v", st.FontWeight)
	}
	// relative weights are recognized but unsupported
	st = styleSingle(t, ".root { font-weight: bolder; }")
	if st.FontWeight != 400 {
		t.Errorf("expected bolder rejection, got %v", st.FontWeight)
	}
}

func TestFontWidth(t *testing.T) {
	st := styleSingle(t, ".root { font-width: condensed; }")
	if !approx(st.FontWidth, 0.75) {
		t.Errorf("expected condensed 0.75, got %v", st.FontWidth)
	}
	st = styleSingle(t, ".root { font-width: ultra-expanded; }")
	if !approx(st.FontWidth, 2) {
		t.Errorf("expected ultra-expanded 2, got %v", st.FontWidth)
	}
	st = styleSingle(t, ".root { font-width: 125%; }")
	if !approx(st.FontWidth, 1.25) {
		t.Errorf("expected 1.25, got %v", st.FontWidth)
	}
}

func TestFontSize(t *testing.T) {
	st := styleSingle(t, ".root { font-size: 24px; }")
	if st.FontSize != 24 {
		t.Errorf("expected font-size 24, got %v", st.FontSize)
	}
	st = styleSingle(t, ".root { font-size: -4px; }")
	if st.FontSize != 16 {
		t.Errorf("expected negative size rejection, got %v", st.FontSize)
	}
}

func TestTransform(t *testing.T) {
	st := styleSingle(t, ".root { transform: none; }")
	if !sameAffine(st.Transform, css.Identity) {
		t.Errorf("expected identity, got %v", st.Transform)
	}

	st = styleSingle(t, ".root { transform: matrix(1, 0, 0, 1, 10, 20); }")
	if !sameAffine(st.Transform, css.Affine{1, 0, 0, 1, 10, 20}) {
		t.Errorf("expected translation matrix, got %v", st.Transform)
	}

	st = styleSingle(t, ".root { transform: translate(10px, 20px); }")
	if !sameAffine(st.Transform, css.Affine{1, 0, 0, 1, 10, 20}) {
		t.Errorf("expected translate, got %v", st.Transform)
	}

	st = styleSingle(t, ".root { transform: scale(2, 3); }")
	if !sameAffine(st.Transform, css.Affine{2, 0, 0, 3, 0, 0}) {
		t.Errorf("expected scale, got %v", st.Transform)
	}

	st = styleSingle(t, ".root { transform: rotate(90deg); }")
	theta := math.Pi / 2
	if !sameAffine(st.Transform, css.Affine{math.Cos(theta), math.Sin(theta), -math.Sin(theta), math.Cos(theta), 0, 0}) {
		t.Errorf("expected rotation, got %v", st.Transform)
	}

	st = styleSingle(t, ".root { transform: skew(45deg, 0deg); }")
	if !sameAffine(st.Transform, css.Affine{1, 0, math.Tan(math.Pi / 4), 1, 0, 0}) {
		t.Errorf("expected skew, got %v", st.Transform)
	}

	// functions compose left to right
	st = styleSingle(t, ".root { transform: translate(10px, 20px) scale(2); }")
	if !sameAffine(st.Transform, css.Affine{2, 0, 0, 2, 20, 40}) {
		t.Errorf("expected composed transform, got %v", st.Transform)
	}
}

func TestTransform_Reject(t *testing.T) {
	for _, bad := range []string{
		"auto",
		"foo",
		"#fff",
		"10px",
		"rotate",
		"none rotate(10deg)",
		"matrix(1,0,0,1,10,20) extra",
		"matrix()",
		"matrix(1)",
		"matrix(1, 0, 0, 1, 10)",
		"matrix(1, 0, 0, 1, 10, 20, 30)",
		"matrix(1, 0, 0, 1, 10px, 20)",
		"matrix(1, 0, 0, 1, 10%, 20)",
		"matrix(a, 0, 0, 1, 10, 20)",
		"translate()",
		"translate(10)",
		"translate(10%, 20px)",
		"translate(10px, 20px, 30px)",
		"scale()",
		"scale(2px, 3)",
		"scale(2%)",
		"rotate()",
		"rotate(90)",
		"rotate(90px)",
		"rotate(90deg, 1)",
		"skew(10)",
		"skew(10deg, 20deg, 30deg)",
		"rotatex(10deg)",
	} {
		st := styleSingle(t, fmt.Sprintf(".root { transform: %s; }", bad))
		if !sameAffine(st.Transform, css.Identity) {
			t.Errorf("transform: %s: expected rejection, got %v", bad, st.Transform)
		}
	}
}
