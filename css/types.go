package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// UnitKind discriminates Unit values.
type UnitKind uint8

const (
	UnitAuto UnitKind = iota
	UnitEm
	UnitPercent
	UnitPx
	UnitStretch
)

// Unit is a layout dimension: auto, em, a 0..1 percent fraction, device
// pixels, or a stretch flex-weight (the "s" suffix, a non-standard
// extension; a bare nonzero number parses as stretch too).
type Unit struct {
	Kind  UnitKind
	Value float64
}

func Auto() Unit             { return Unit{Kind: UnitAuto} }
func Em(v float64) Unit      { return Unit{Kind: UnitEm, Value: v} }
func Percent(v float64) Unit { return Unit{Kind: UnitPercent, Value: v} }
func Px(v float64) Unit      { return Unit{Kind: UnitPx, Value: v} }
func Stretch(v float64) Unit { return Unit{Kind: UnitStretch, Value: v} }

func (u Unit) String() string {
	switch u.Kind {
	case UnitAuto:
		return "auto"
	case UnitEm:
		return fmtFloat(u.Value) + "em"
	case UnitPercent:
		return fmtFloat(u.Value*100) + "%"
	case UnitPx:
		return fmtFloat(u.Value) + "px"
	default:
		return fmtFloat(u.Value) + "s"
	}
}

// LengthKind discriminates Length values.
type LengthKind uint8

const (
	LengthPx LengthKind = iota
	LengthEm
)

// Length is a px or em distance.
type Length struct {
	Kind  LengthKind
	Value float64
}

func PxLength(v float64) Length { return Length{Kind: LengthPx, Value: v} }
func EmLength(v float64) Length { return Length{Kind: LengthEm, Value: v} }

// Resolve converts the length to device pixels against a font size.
func (l Length) Resolve(fontSize float64) float64 {
	if l.Kind == LengthEm {
		return l.Value * fontSize
	}
	return l.Value
}

func (l Length) String() string {
	if l.Kind == LengthEm {
		return fmtFloat(l.Value) + "em"
	}
	return fmtFloat(l.Value) + "px"
}

// Color is an sRGB color with straight alpha, channels in 0..1.
type Color struct {
	R, G, B, A float64
}

func RGB8(r, g, b uint8) Color {
	return RGBA8(r, g, b, 255)
}

func RGBA8(r, g, b, a uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: float64(a) / 255}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(cc colorful.Color, a float64) Color {
	return Color{R: cc.R, G: cc.G, B: cc.B, A: a}
}

func channel8(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}

// Hex formats the color as uppercase #RRGGBB, or #RRGGBBAA when the alpha
// channel is not fully opaque.
func (c Color) Hex() string {
	if c.A >= 1 {
		return fmt.Sprintf("#%02X%02X%02X", channel8(c.R), channel8(c.G), channel8(c.B))
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", channel8(c.R), channel8(c.G), channel8(c.B), channel8(c.A))
}

func (c Color) String() string { return c.Hex() }

// ColorValue is either a concrete color or the currentcolor keyword.
type ColorValue struct {
	Current bool
	Color   Color
}

func CurrentColor() ColorValue      { return ColorValue{Current: true} }
func ExactColor(c Color) ColorValue { return ColorValue{Color: c} }

// Resolve substitutes the element's computed color for currentcolor.
func (cv ColorValue) Resolve(current Color) Color {
	if cv.Current {
		return current
	}
	return cv.Color
}

func (cv ColorValue) String() string {
	if cv.Current {
		return "currentcolor"
	}
	return cv.Color.Hex()
}

// Direction is the main layout axis.
type Direction uint8

const (
	Row Direction = iota
	RowReverse
	Column
	ColumnReverse
)

func (d Direction) String() string {
	switch d {
	case Row:
		return "row"
	case RowReverse:
		return "row-reverse"
	case Column:
		return "column"
	default:
		return "column-reverse"
	}
}

// Position selects the layout positioning scheme.
type Position uint8

const (
	ParentDirected Position = iota
	SelfDirected
	Fixed
)

func (p Position) String() string {
	switch p {
	case ParentDirected:
		return "parent-directed"
	case SelfDirected:
		return "self-directed"
	default:
		return "fixed"
	}
}

// TextAlign is the horizontal text alignment.
type TextAlign uint8

const (
	AlignStart TextAlign = iota
	AlignEnd
	AlignLeft
	AlignRight
	AlignCenter
	AlignJustify
)

func (a TextAlign) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignEnd:
		return "end"
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	default:
		return "justify"
	}
}

// FontStyleKind discriminates FontStyle values.
type FontStyleKind uint8

const (
	FontNormal FontStyleKind = iota
	FontItalic
	FontOblique
)

// FontStyle is normal, italic, or oblique with an optional slant angle in
// degrees.
type FontStyle struct {
	Kind     FontStyleKind
	Angle    float64
	HasAngle bool
}

func (f FontStyle) String() string {
	switch f.Kind {
	case FontNormal:
		return "normal"
	case FontItalic:
		return "italic"
	default:
		if f.HasAngle {
			return "oblique " + fmtFloat(f.Angle) + "deg"
		}
		return "oblique"
	}
}

// Affine is a 2x3 affine transform in CSS matrix(a, b, c, d, e, f) order.
type Affine [6]float64

// Identity is the no-op transform.
var Identity = Affine{1, 0, 0, 1, 0, 0}

// mul composes two transforms; m1 is applied first.
func mul(m2, m1 Affine) Affine {
	a2, b2, c2, d2, e2, f2 := m2[0], m2[1], m2[2], m2[3], m2[4], m2[5]
	a1, b1, c1, d1, e1, f1 := m1[0], m1[1], m1[2], m1[3], m1[4], m1[5]
	return Affine{
		a2*a1 + c2*b1,
		b2*a1 + d2*b1,
		a2*c1 + c2*d1,
		b2*c1 + d2*d1,
		a2*e1 + c2*f1 + e2,
		b2*e1 + d2*f1 + f2,
	}
}

func (m Affine) String() string {
	if m == Identity {
		return "none"
	}
	parts := make([]string, 6)
	for i, v := range m {
		parts[i] = fmtFloat(v)
	}
	return "matrix(" + strings.Join(parts, ", ") + ")"
}

// BoxShadow is one component of a box-shadow list. A nil Color means
// currentcolor, resolved by the painter.
type BoxShadow struct {
	OffsetX Length
	OffsetY Length
	Blur    Length
	Spread  Length
	Color   *Color
	Inset   bool
}

func (s BoxShadow) String() string {
	var sb strings.Builder
	if s.Inset {
		sb.WriteString("inset ")
	}
	sb.WriteString(s.OffsetX.String())
	sb.WriteByte(' ')
	sb.WriteString(s.OffsetY.String())
	sb.WriteByte(' ')
	sb.WriteString(s.Blur.String())
	sb.WriteByte(' ')
	sb.WriteString(s.Spread.String())
	sb.WriteByte(' ')
	if s.Color != nil {
		sb.WriteString(s.Color.Hex())
	} else {
		sb.WriteString("currentcolor")
	}
	return sb.String()
}

// TextShadow is one component of a text-shadow list; it has no spread and
// no inset. A nil Color means currentcolor.
type TextShadow struct {
	OffsetX Length
	OffsetY Length
	Blur    Length
	Color   *Color
}

func (s TextShadow) String() string {
	var sb strings.Builder
	sb.WriteString(s.OffsetX.String())
	sb.WriteByte(' ')
	sb.WriteString(s.OffsetY.String())
	sb.WriteByte(' ')
	sb.WriteString(s.Blur.String())
	sb.WriteByte(' ')
	if s.Color != nil {
		sb.WriteString(s.Color.Hex())
	} else {
		sb.WriteString("currentcolor")
	}
	return sb.String()
}

// GradientAngleKind discriminates gradient directions: eight side/corner
// keywords or an explicit angle.
type GradientAngleKind uint8

const (
	ToTop GradientAngleKind = iota
	ToTopRight
	ToRight
	ToBottomRight
	ToBottom
	ToBottomLeft
	ToLeft
	ToTopLeft
	AngleRadians
	AngleDegrees
)

// GradientAngle is a linear-gradient direction.
type GradientAngle struct {
	Kind  GradientAngleKind
	Value float64
}

func (g GradientAngle) String() string {
	switch g.Kind {
	case ToTop:
		return "to top"
	case ToTopRight:
		return "to top right"
	case ToRight:
		return "to right"
	case ToBottomRight:
		return "to bottom right"
	case ToBottom:
		return "to bottom"
	case ToBottomLeft:
		return "to bottom left"
	case ToLeft:
		return "to left"
	case ToTopLeft:
		return "to top left"
	case AngleRadians:
		return fmtFloat(g.Value) + "rad"
	default:
		return fmtFloat(g.Value) + "deg"
	}
}

// ColorSpace tags the interpolation color space of a gradient.
type ColorSpace uint8

const (
	SpaceSrgb ColorSpace = iota
	SpaceSrgbLinear
	SpaceHsl
	SpaceHwb
	SpaceLab
	SpaceLch
	SpaceOklab
	SpaceOklch
)

func (s ColorSpace) String() string {
	switch s {
	case SpaceSrgb:
		return "srgb"
	case SpaceSrgbLinear:
		return "srgb-linear"
	case SpaceHsl:
		return "hsl"
	case SpaceHwb:
		return "hwb"
	case SpaceLab:
		return "lab"
	case SpaceLch:
		return "lch"
	case SpaceOklab:
		return "oklab"
	default:
		return "oklch"
	}
}

// HueDirection selects how hue is interpolated in polar color spaces.
type HueDirection uint8

const (
	HueShorter HueDirection = iota
	HueLonger
	HueIncreasing
	HueDecreasing
)

func (h HueDirection) String() string {
	switch h {
	case HueShorter:
		return "shorter"
	case HueLonger:
		return "longer"
	case HueIncreasing:
		return "increasing"
	default:
		return "decreasing"
	}
}

// GradientStop is a resolved color stop at a 0..1 position.
type GradientStop struct {
	Pos   float64
	Color ColorValue
}

// LinearGradient is one fully normalized linear gradient layer.
type LinearGradient struct {
	Angle GradientAngle
	Stops []GradientStop
	Space ColorSpace
	Hue   HueDirection
}

func (g LinearGradient) String() string {
	var sb strings.Builder
	sb.WriteString("linear-gradient(")
	sb.WriteString(g.Angle.String())
	if g.Space != SpaceSrgb || g.Hue != HueShorter {
		sb.WriteString(" in ")
		sb.WriteString(g.Space.String())
		if g.Hue != HueShorter {
			sb.WriteByte(' ')
			sb.WriteString(g.Hue.String())
			sb.WriteString(" hue")
		}
	}
	for i, stop := range g.Stops {
		sb.WriteString(", ")
		sb.WriteString(stop.Color.String())
		if !(i == 0 && stop.Pos == 0) && !(i == len(g.Stops)-1 && stop.Pos == 1) {
			sb.WriteByte(' ')
			sb.WriteString(fmtFloat(stop.Pos*100) + "%")
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// GradientStack is an ordered list of gradient layers; copies of a Style
// share the same layer slice.
type GradientStack struct {
	Layers []LinearGradient
}

func (g GradientStack) String() string {
	parts := make([]string, len(g.Layers))
	for i, l := range g.Layers {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}
