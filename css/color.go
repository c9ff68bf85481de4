package css

import (
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	tcss "github.com/tdewolff/parse/v2/css"
)

// namedColors is the CSS named color table plus transparent.
var namedColors = map[string]Color{
	"aliceblue":            RGB8(240, 248, 255),
	"antiquewhite":         RGB8(250, 235, 215),
	"aqua":                 RGB8(0, 255, 255),
	"aquamarine":           RGB8(127, 255, 212),
	"azure":                RGB8(240, 255, 255),
	"beige":                RGB8(245, 245, 220),
	"bisque":               RGB8(255, 228, 196),
	"black":                RGB8(0, 0, 0),
	"blanchedalmond":       RGB8(255, 235, 205),
	"blue":                 RGB8(0, 0, 255),
	"blueviolet":           RGB8(138, 43, 226),
	"brown":                RGB8(165, 42, 42),
	"burlywood":            RGB8(222, 184, 135),
	"cadetblue":            RGB8(95, 158, 160),
	"chartreuse":           RGB8(127, 255, 0),
	"chocolate":            RGB8(210, 105, 30),
	"coral":                RGB8(255, 127, 80),
	"cornflowerblue":       RGB8(100, 149, 237),
	"cornsilk":             RGB8(255, 248, 220),
	"crimson":              RGB8(220, 20, 60),
	"cyan":                 RGB8(0, 255, 255),
	"darkblue":             RGB8(0, 0, 139),
	"darkcyan":             RGB8(0, 139, 139),
	"darkgoldenrod":        RGB8(184, 134, 11),
	"darkgray":             RGB8(169, 169, 169),
	"darkgreen":            RGB8(0, 100, 0),
	"darkgrey":             RGB8(169, 169, 169),
	"darkkhaki":            RGB8(189, 183, 107),
	"darkmagenta":          RGB8(139, 0, 139),
	"darkolivegreen":       RGB8(85, 107, 47),
	"darkorange":           RGB8(255, 140, 0),
	"darkorchid":           RGB8(153, 50, 204),
	"darkred":              RGB8(139, 0, 0),
	"darksalmon":           RGB8(233, 150, 122),
	"darkseagreen":         RGB8(143, 188, 143),
	"darkslateblue":        RGB8(72, 61, 139),
	"darkslategray":        RGB8(47, 79, 79),
	"darkslategrey":        RGB8(47, 79, 79),
	"darkturquoise":        RGB8(0, 206, 209),
	"darkviolet":           RGB8(148, 0, 211),
	"deeppink":             RGB8(255, 20, 147),
	"deepskyblue":          RGB8(0, 191, 255),
	"dimgray":              RGB8(105, 105, 105),
	"dimgrey":              RGB8(105, 105, 105),
	"dodgerblue":           RGB8(30, 144, 255),
	"firebrick":            RGB8(178, 34, 34),
	"floralwhite":          RGB8(255, 250, 240),
	"forestgreen":          RGB8(34, 139, 34),
	"fuchsia":              RGB8(255, 0, 255),
	"gainsboro":            RGB8(220, 220, 220),
	"ghostwhite":           RGB8(248, 248, 255),
	"gold":                 RGB8(255, 215, 0),
	"goldenrod":            RGB8(218, 165, 32),
	"gray":                 RGB8(128, 128, 128),
	"green":                RGB8(0, 128, 0),
	"greenyellow":          RGB8(173, 255, 47),
	"grey":                 RGB8(128, 128, 128),
	"honeydew":             RGB8(240, 255, 240),
	"hotpink":              RGB8(255, 105, 180),
	"indianred":            RGB8(205, 92, 92),
	"indigo":               RGB8(75, 0, 130),
	"ivory":                RGB8(255, 255, 240),
	"khaki":                RGB8(240, 230, 140),
	"lavender":             RGB8(230, 230, 250),
	"lavenderblush":        RGB8(255, 240, 245),
	"lawngreen":            RGB8(124, 252, 0),
	"lemonchiffon":         RGB8(255, 250, 205),
	"lightblue":            RGB8(173, 216, 230),
	"lightcoral":           RGB8(240, 128, 128),
	"lightcyan":            RGB8(224, 255, 255),
	"lightgoldenrodyellow": RGB8(250, 250, 210),
	"lightgray":            RGB8(211, 211, 211),
	"lightgreen":           RGB8(144, 238, 144),
	"lightgrey":            RGB8(211, 211, 211),
	"lightpink":            RGB8(255, 182, 193),
	"lightsalmon":          RGB8(255, 160, 122),
	"lightseagreen":        RGB8(32, 178, 170),
	"lightskyblue":         RGB8(135, 206, 250),
	"lightslategray":       RGB8(119, 136, 153),
	"lightslategrey":       RGB8(119, 136, 153),
	"lightsteelblue":       RGB8(176, 196, 222),
	"lightyellow":          RGB8(255, 255, 224),
	"lime":                 RGB8(0, 255, 0),
	"limegreen":            RGB8(50, 205, 50),
	"linen":                RGB8(250, 240, 230),
	"magenta":              RGB8(255, 0, 255),
	"maroon":               RGB8(128, 0, 0),
	"mediumaquamarine":     RGB8(102, 205, 170),
	"mediumblue":           RGB8(0, 0, 205),
	"mediumorchid":         RGB8(186, 85, 211),
	"mediumpurple":         RGB8(147, 112, 219),
	"mediumseagreen":       RGB8(60, 179, 113),
	"mediumslateblue":      RGB8(123, 104, 238),
	"mediumspringgreen":    RGB8(0, 250, 154),
	"mediumturquoise":      RGB8(72, 209, 204),
	"mediumvioletred":      RGB8(199, 21, 133),
	"midnightblue":         RGB8(25, 25, 112),
	"mintcream":            RGB8(245, 255, 250),
	"mistyrose":            RGB8(255, 228, 225),
	"moccasin":             RGB8(255, 228, 181),
	"navajowhite":          RGB8(255, 222, 173),
	"navy":                 RGB8(0, 0, 128),
	"oldlace":              RGB8(253, 245, 230),
	"olive":                RGB8(128, 128, 0),
	"olivedrab":            RGB8(107, 142, 35),
	"orange":               RGB8(255, 165, 0),
	"orangered":            RGB8(255, 69, 0),
	"orchid":               RGB8(218, 112, 214),
	"palegoldenrod":        RGB8(238, 232, 170),
	"palegreen":            RGB8(152, 251, 152),
	"paleturquoise":        RGB8(175, 238, 238),
	"palevioletred":        RGB8(219, 112, 147),
	"papayawhip":           RGB8(255, 239, 213),
	"peachpuff":            RGB8(255, 218, 185),
	"peru":                 RGB8(205, 133, 63),
	"pink":                 RGB8(255, 192, 203),
	"plum":                 RGB8(221, 160, 221),
	"powderblue":           RGB8(176, 224, 230),
	"purple":               RGB8(128, 0, 128),
	"rebeccapurple":        RGB8(102, 51, 153),
	"red":                  RGB8(255, 0, 0),
	"rosybrown":            RGB8(188, 143, 143),
	"royalblue":            RGB8(65, 105, 225),
	"saddlebrown":          RGB8(139, 69, 19),
	"salmon":               RGB8(250, 128, 114),
	"sandybrown":           RGB8(244, 164, 96),
	"seagreen":             RGB8(46, 139, 87),
	"seashell":             RGB8(255, 245, 238),
	"sienna":               RGB8(160, 82, 45),
	"silver":               RGB8(192, 192, 192),
	"skyblue":              RGB8(135, 206, 235),
	"slateblue":            RGB8(106, 90, 205),
	"slategray":            RGB8(112, 128, 144),
	"slategrey":            RGB8(112, 128, 144),
	"snow":                 RGB8(255, 250, 250),
	"springgreen":          RGB8(0, 255, 127),
	"steelblue":            RGB8(70, 130, 180),
	"tan":                  RGB8(210, 180, 140),
	"teal":                 RGB8(0, 128, 128),
	"thistle":              RGB8(216, 191, 216),
	"tomato":               RGB8(255, 99, 71),
	"transparent":          RGBA8(0, 0, 0, 0),
	"turquoise":            RGB8(64, 224, 208),
	"violet":               RGB8(238, 130, 238),
	"wheat":                RGB8(245, 222, 179),
	"white":                RGB8(255, 255, 255),
	"whitesmoke":           RGB8(245, 245, 245),
	"yellow":               RGB8(255, 255, 0),
	"yellowgreen":          RGB8(154, 205, 50),
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// parseHexColor parses 3, 4, 6 and 8 digit hex colors (without the hash).
func parseHexColor(s string) (Color, bool) {
	nib := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		n, ok := hexNibble(s[i])
		if !ok {
			return Color{}, false
		}
		nib[i] = n
	}
	switch len(s) {
	case 3:
		return RGB8(nib[0]*17, nib[1]*17, nib[2]*17), true
	case 4:
		return RGBA8(nib[0]*17, nib[1]*17, nib[2]*17, nib[3]*17), true
	case 6:
		return RGB8(nib[0]<<4|nib[1], nib[2]<<4|nib[3], nib[4]<<4|nib[5]), true
	case 8:
		return RGBA8(nib[0]<<4|nib[1], nib[2]<<4|nib[3], nib[4]<<4|nib[5], nib[6]<<4|nib[7]), true
	}
	return Color{}, false
}

// colorArg is one component of an rgb()/hsl() argument list.
type colorArg struct {
	v       float64
	percent bool
}

// colorArgs collects the numeric components of a color function, accepting
// both the comma and the whitespace/slash syntax. A var() inside the
// arguments raises the deferred-capture signal.
func colorArgs(c *cursor) ([]colorArg, error) {
	var args []colorArg
	for {
		t, ok := c.next()
		if !ok {
			return args, nil
		}
		switch t.tt {
		case tcss.CommaToken:
			continue
		case tcss.DelimToken:
			if t.s == "/" {
				continue
			}
			return nil, invalidToken(t)
		case tcss.NumberToken:
			v, _ := t.number()
			args = append(args, colorArg{v: v})
		case tcss.PercentageToken:
			v, _ := t.percentage()
			args = append(args, colorArg{v: v, percent: true})
		case tcss.DimensionToken:
			// hsl() hue may carry an angle unit
			v, unit, _ := t.dimension()
			switch unit {
			case "deg":
				args = append(args, colorArg{v: v})
			case "rad":
				args = append(args, colorArg{v: v * 180 / math.Pi})
			case "grad":
				args = append(args, colorArg{v: v * 0.9})
			case "turn":
				args = append(args, colorArg{v: v * 360})
			default:
				return nil, invalidToken(t)
			}
		case tcss.FunctionToken:
			if strings.EqualFold(t.fnName(), "var") {
				return nil, errVarFunction
			}
			return nil, invalidToken(t)
		case tcss.IdentToken:
			if strings.EqualFold(t.s, "none") {
				args = append(args, colorArg{})
				continue
			}
			return nil, invalidToken(t)
		default:
			return nil, invalidToken(t)
		}
	}
}

func rgbChannel(a colorArg) float64 {
	if a.percent {
		return math.Min(math.Max(a.v, 0), 1)
	}
	return math.Min(math.Max(a.v/255, 0), 1)
}

func alphaChannel(a colorArg) float64 {
	if a.percent {
		return math.Min(math.Max(a.v, 0), 1)
	}
	return math.Min(math.Max(a.v, 0), 1)
}

// labLightness maps the CIE lightness component to the 0..1 range the
// conversions expect. Percentages arrive as fractions already; plain
// numbers use the 0..100 CSS scale.
func labLightness(a colorArg) float64 {
	if a.percent {
		return a.v
	}
	return a.v / 100
}

// hueDegrees normalizes a hue component into [0, 360).
func hueDegrees(a colorArg) float64 {
	return math.Mod(math.Mod(a.v, 360)+360, 360)
}

// scaledChannel maps a component where percentages reference a different
// absolute range than plain numbers (lab a/b reference 125, lch chroma 150
// and so on). div rescales plain numbers, ref rescales percentages.
func scaledChannel(a colorArg, div, ref float64) float64 {
	if a.percent {
		return a.v * ref
	}
	return a.v / div
}

// parseColorValue reads one color from the cursor: a hex hash, a named
// color, currentcolor, or one of the rgb()/rgba()/hsl()/hsla()/hwb()/
// lab()/lch()/oklab()/oklch() functions. Everything is converted to
// straight-alpha sRGB on the spot.
func parseColorValue(c *cursor) (ColorValue, error) {
	t, ok := c.next()
	if !ok {
		return ColorValue{}, errInvalid("expected color")
	}
	switch t.tt {
	case tcss.HashToken:
		col, ok := parseHexColor(strings.TrimPrefix(t.s, "#"))
		if !ok {
			return ColorValue{}, invalidToken(t)
		}
		return ExactColor(col), nil
	case tcss.IdentToken:
		name := strings.ToLower(t.s)
		if name == "currentcolor" {
			return CurrentColor(), nil
		}
		if col, ok := namedColors[name]; ok {
			return ExactColor(col), nil
		}
		return ColorValue{}, invalidToken(t)
	case tcss.FunctionToken:
		name := strings.ToLower(t.fnName())
		if name == "var" {
			return ColorValue{}, errVarFunction
		}
		args, err := func() ([]colorArg, error) {
			sub, err := c.nested()
			if err != nil {
				return nil, err
			}
			return colorArgs(sub)
		}()
		if err != nil {
			return ColorValue{}, err
		}
		switch name {
		case "rgb", "rgba":
			if len(args) < 3 || len(args) > 4 {
				return ColorValue{}, errInvalid("rgb() needs 3 or 4 components")
			}
			col := Color{R: rgbChannel(args[0]), G: rgbChannel(args[1]), B: rgbChannel(args[2]), A: 1}
			if len(args) == 4 {
				col.A = alphaChannel(args[3])
			}
			return ExactColor(col), nil
		case "hsl", "hsla":
			if len(args) < 3 || len(args) > 4 {
				return ColorValue{}, errInvalid("hsl() needs 3 or 4 components")
			}
			if !args[1].percent || !args[2].percent {
				return ColorValue{}, errInvalid("hsl() saturation and lightness must be percentages")
			}
			cc := colorful.Hsl(hueDegrees(args[0]), args[1].v, args[2].v)
			col := fromColorful(cc.Clamped(), 1)
			if len(args) == 4 {
				col.A = alphaChannel(args[3])
			}
			return ExactColor(col), nil
		case "hwb":
			if len(args) < 3 || len(args) > 4 {
				return ColorValue{}, errInvalid("hwb() needs 3 or 4 components")
			}
			if !args[1].percent || !args[2].percent {
				return ColorValue{}, errInvalid("hwb() whiteness and blackness must be percentages")
			}
			w := math.Min(math.Max(args[1].v, 0), 1)
			b := math.Min(math.Max(args[2].v, 0), 1)
			var col Color
			if w+b >= 1 {
				gray := w / (w + b)
				col = Color{R: gray, G: gray, B: gray, A: 1}
			} else {
				v := 1 - b
				cc := colorful.Hsv(hueDegrees(args[0]), 1-w/v, v)
				col = fromColorful(cc.Clamped(), 1)
			}
			if len(args) == 4 {
				col.A = alphaChannel(args[3])
			}
			return ExactColor(col), nil
		case "lab":
			if len(args) < 3 || len(args) > 4 {
				return ColorValue{}, errInvalid("lab() needs 3 or 4 components")
			}
			cc := colorful.Lab(labLightness(args[0]), scaledChannel(args[1], 100, 1.25), scaledChannel(args[2], 100, 1.25))
			col := fromColorful(cc.Clamped(), 1)
			if len(args) == 4 {
				col.A = alphaChannel(args[3])
			}
			return ExactColor(col), nil
		case "lch":
			if len(args) < 3 || len(args) > 4 {
				return ColorValue{}, errInvalid("lch() needs 3 or 4 components")
			}
			cc := colorful.Hcl(hueDegrees(args[2]), scaledChannel(args[1], 100, 1.5), labLightness(args[0]))
			col := fromColorful(cc.Clamped(), 1)
			if len(args) == 4 {
				col.A = alphaChannel(args[3])
			}
			return ExactColor(col), nil
		case "oklab":
			if len(args) < 3 || len(args) > 4 {
				return ColorValue{}, errInvalid("oklab() needs 3 or 4 components")
			}
			cc := colorful.OkLab(args[0].v, scaledChannel(args[1], 1, 0.4), scaledChannel(args[2], 1, 0.4))
			col := fromColorful(cc.Clamped(), 1)
			if len(args) == 4 {
				col.A = alphaChannel(args[3])
			}
			return ExactColor(col), nil
		case "oklch":
			if len(args) < 3 || len(args) > 4 {
				return ColorValue{}, errInvalid("oklch() needs 3 or 4 components")
			}
			cc := colorful.OkLch(args[0].v, scaledChannel(args[1], 1, 0.4), hueDegrees(args[2]))
			col := fromColorful(cc.Clamped(), 1)
			if len(args) == 4 {
				col.A = alphaChannel(args[3])
			}
			return ExactColor(col), nil
		}
		return ColorValue{}, invalidToken(t)
	}
	return ColorValue{}, invalidToken(t)
}

// ParseHexColor parses a standalone "#RRGGBB" style string. Used by tests
// and tooling; stylesheet parsing goes through parseColorValue.
func ParseHexColor(s string) (Color, error) {
	col, ok := parseHexColor(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if !ok {
		return Color{}, errInvalid("invalid hex color " + strconv.Quote(s))
	}
	return col, nil
}
