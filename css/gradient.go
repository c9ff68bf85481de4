package css

import (
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	tcss "github.com/tdewolff/parse/v2/css"
)

func backgroundImageGrammar(c *cursor, loc SourceLoc) ([]Property, error) {
	if v, ok := initialOrInherit(c); ok {
		return []Property{{ID: PropBackgroundImage, Val: v}}, nil
	}
	if keywordExhausted(c, "none") {
		return []Property{{ID: PropBackgroundImage, Val: initial()}}, nil
	}

	var layers []LinearGradient
	for {
		t, ok := c.next()
		if !ok {
			return nil, errInvalid("expected gradient")
		}
		if isVarFn(t) {
			return capture(PropBackgroundImage, c, loc, errVarFunction)
		}
		if t.tt != tcss.FunctionToken || !strings.EqualFold(t.fnName(), "linear-gradient") {
			return nil, invalidToken(t)
		}
		sub, err := c.nested()
		if err != nil {
			return nil, err
		}
		g, err := parseLinearGradient(sub)
		if err != nil {
			return capture(PropBackgroundImage, c, loc, err)
		}
		layers = append(layers, g)
		if c.done() {
			break
		}
		if err := c.expectComma(); err != nil {
			return nil, err
		}
	}
	return []Property{{ID: PropBackgroundImage, Val: exact(&GradientStack{Layers: layers})}}, nil
}

// Side bits for the "to <side-or-corner>" form.
const (
	sideLeft = 1 << iota
	sideRight
	sideTop
	sideBottom
)

var cornerAngles = map[uint8]GradientAngleKind{
	sideLeft:               ToLeft,
	sideRight:              ToRight,
	sideTop:                ToTop,
	sideBottom:             ToBottom,
	sideLeft | sideTop:     ToTopLeft,
	sideLeft | sideBottom:  ToBottomLeft,
	sideRight | sideTop:    ToTopRight,
	sideRight | sideBottom: ToBottomRight,
}

func parseLinearGradient(c *cursor) (LinearGradient, error) {
	g := LinearGradient{
		Angle: GradientAngle{Kind: ToBottom},
		Space: SpaceSrgb,
		Hue:   HueShorter,
	}
	hadPrelude := false

	angle, found, err := gradientAngle(c)
	if err != nil {
		return g, err
	}
	if found {
		g.Angle = angle
		hadPrelude = true
	}

	space, hue, found, err := interpolationMethod(c)
	if err != nil {
		return g, err
	}
	if found {
		g.Space = space
		g.Hue = hue
		hadPrelude = true
	}

	if hadPrelude {
		if err := c.expectComma(); err != nil {
			return g, err
		}
	}

	pieces, err := gradientPieces(c)
	if err != nil {
		return g, err
	}
	stops, err := normalizeStops(pieces, g.Space, g.Hue)
	if err != nil {
		return g, err
	}
	g.Stops = stops
	return g, nil
}

// gradientAngle reads the optional <angle> or "to <side-or-corner>" prelude.
func gradientAngle(c *cursor) (GradientAngle, bool, error) {
	mark := c.save()
	t, ok := c.next()
	if !ok {
		return GradientAngle{}, false, nil
	}
	if isVarFn(t) {
		return GradientAngle{}, false, errVarFunction
	}
	if v, okn := t.number(); okn && v == 0 {
		return GradientAngle{Kind: AngleRadians}, true, nil
	}
	if v, unit, okd := t.dimension(); okd {
		switch unit {
		case "deg":
			return GradientAngle{Kind: AngleDegrees, Value: v}, true, nil
		case "rad":
			return GradientAngle{Kind: AngleRadians, Value: v}, true, nil
		case "grad":
			return GradientAngle{Kind: AngleDegrees, Value: v * 0.9}, true, nil
		case "turn":
			return GradientAngle{Kind: AngleRadians, Value: v * 2 * math.Pi}, true, nil
		}
	}
	if t.tt != tcss.IdentToken || !strings.EqualFold(t.s, "to") {
		c.restore(mark)
		return GradientAngle{}, false, nil
	}

	var mask uint8
	for range 2 {
		st := c.save()
		n, ok := c.next()
		if !ok {
			break
		}
		if isVarFn(n) {
			return GradientAngle{}, false, errVarFunction
		}
		var bit uint8
		if n.tt == tcss.IdentToken {
			switch strings.ToLower(n.s) {
			case "left":
				bit = sideLeft
			case "right":
				bit = sideRight
			case "top":
				bit = sideTop
			case "bottom":
				bit = sideBottom
			}
		}
		if bit == 0 {
			c.restore(st)
			break
		}
		if mask&bit != 0 {
			return GradientAngle{}, false, invalidToken(n)
		}
		mask |= bit
	}
	kind, ok := cornerAngles[mask]
	if !ok {
		return GradientAngle{}, false, errInvalid("bad gradient direction")
	}
	return GradientAngle{Kind: kind}, true, nil
}

// interpolationMethod reads the optional "in <color-space> [<dir> hue]"
// prelude.
func interpolationMethod(c *cursor) (ColorSpace, HueDirection, bool, error) {
	mark := c.save()
	t, ok := c.next()
	if !ok {
		return 0, 0, false, nil
	}
	if isVarFn(t) {
		return 0, 0, false, errVarFunction
	}
	if t.tt != tcss.IdentToken || !strings.EqualFold(t.s, "in") {
		c.restore(mark)
		return 0, 0, false, nil
	}

	n, ok := c.next()
	if !ok {
		return 0, 0, false, errInvalid("expected color space")
	}
	if isVarFn(n) {
		return 0, 0, false, errVarFunction
	}
	if n.tt != tcss.IdentToken {
		return 0, 0, false, invalidToken(n)
	}
	var space ColorSpace
	switch strings.ToLower(n.s) {
	case "srgb":
		space = SpaceSrgb
	case "srgb-linear", "linear-srgb":
		space = SpaceSrgbLinear
	case "hsl":
		space = SpaceHsl
	case "hwb":
		space = SpaceHwb
	case "lab":
		space = SpaceLab
	case "lch":
		space = SpaceLch
	case "oklab":
		space = SpaceOklab
	case "oklch":
		space = SpaceOklch
	case "display-p3", "a98-rgb", "prophoto-rgb", "rec2020", "xyz", "xyz-d50", "xyz-d65", "acescg", "aces-cg", "aces2065-1":
		return 0, 0, false, errUnsupported("color space " + n.s)
	default:
		return 0, 0, false, invalidToken(n)
	}

	hue := HueShorter
	st := c.save()
	if d, ok := c.next(); ok {
		if isVarFn(d) {
			return 0, 0, false, errVarFunction
		}
		var dir HueDirection
		matched := true
		if d.tt == tcss.IdentToken {
			switch strings.ToLower(d.s) {
			case "shorter":
				dir = HueShorter
			case "longer":
				dir = HueLonger
			case "increasing":
				dir = HueIncreasing
			case "decreasing":
				dir = HueDecreasing
			default:
				matched = false
			}
		} else {
			matched = false
		}
		if matched {
			kw, ok := c.next()
			if ok && isVarFn(kw) {
				return 0, 0, false, errVarFunction
			}
			if !ok || kw.tt != tcss.IdentToken || !strings.EqualFold(kw.s, "hue") {
				c.restore(st)
			} else {
				hue = dir
			}
		} else {
			c.restore(st)
		}
	}
	return space, hue, true, nil
}

type stopKind uint8

const (
	pieceColor stopKind = iota
	piecePos
	pieceBoth
)

// stopPiece is one raw component of the stop list: a color, a positional
// hint, or a color with an explicit position.
type stopPiece struct {
	kind  stopKind
	color ColorValue
	pos   float64
}

func gradientPieces(c *cursor) ([]stopPiece, error) {
	var pieces []stopPiece
	for {
		if t, ok := c.peek(); ok && t.tt == tcss.PercentageToken {
			c.next()
			v, _ := t.percentage()
			pieces = append(pieces, stopPiece{kind: piecePos, pos: v})
		} else {
			cv, err := parseColorValue(c)
			if err != nil {
				return nil, err
			}
			pos1, ok1 := tryPercentage(c)
			if ok1 {
				pieces = append(pieces, stopPiece{kind: pieceBoth, color: cv, pos: pos1})
				if pos2, ok2 := tryPercentage(c); ok2 {
					pieces = append(pieces, stopPiece{kind: pieceBoth, color: cv, pos: pos2})
				}
			} else {
				pieces = append(pieces, stopPiece{kind: pieceColor, color: cv})
			}
		}

		if t, ok := c.peek(); !ok || t.tt != tcss.CommaToken {
			break
		}
		c.next()
	}
	if err := c.expectDone(); err != nil {
		return nil, err
	}
	return pieces, nil
}

func tryPercentage(c *cursor) (float64, bool) {
	if t, ok := c.peek(); ok && t.tt == tcss.PercentageToken {
		c.next()
		v, _ := t.percentage()
		return v, true
	}
	return 0, false
}

// normalizeStops turns the raw piece list into definite color stops:
// missing end positions default to 0 and 1, colors without positions are
// spread evenly over their segment, positional hints become interpolated
// color stops, and positions are clamped to stay monotonic.
func normalizeStops(pieces []stopPiece, space ColorSpace, hue HueDirection) ([]GradientStop, error) {
	colorCount := 0
	first, last := -1, 0
	for i, p := range pieces {
		if p.kind == piecePos {
			if first < 0 {
				return nil, errInvalid("gradient hint before first color stop")
			}
			continue
		}
		colorCount++
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 || colorCount < 2 {
		return nil, errInvalid("gradient needs at least two color stops")
	}

	if pieces[first].kind == pieceColor {
		pieces[first].kind = pieceBoth
		pieces[first].pos = 0
	}
	if pieces[last].kind == pieceColor {
		pieces[last].kind = pieceBoth
		pieces[last].pos = 1
	}

	lastColor, lastPos := pieces[first].color, pieces[first].pos

	i := first + 1
	for i <= last {
		// Scan to the next definite stop, counting colors in between.
		k := i
		missing := 0
		for pieces[k].kind != pieceBoth {
			if pieces[k].kind == pieceColor {
				missing++
			}
			k++
		}

		endColor := pieces[k].color
		endPos := math.Max(pieces[k].pos, lastPos)
		pieces[k].pos = endPos

		step := (endPos - lastPos) / float64(missing+1)

		assign := 0
		prevColor, prevPos := lastColor, lastPos
		hintIdx, hintRaw := -1, 0.0
		for j := i; j <= k; j++ {
			switch pieces[j].kind {
			case piecePos:
				if hintIdx >= 0 {
					return nil, errInvalid("consecutive gradient hints")
				}
				hintIdx, hintRaw = j, pieces[j].pos
			case pieceColor:
				assign++
				pos := lastPos + step*float64(assign)
				pieces[j].kind = pieceBoth
				pieces[j].pos = pos
				if hintIdx >= 0 {
					hc, hpos := resolveHint(prevColor, prevPos, pieces[j].color, pos, hintRaw, space, hue)
					pieces[hintIdx] = stopPiece{kind: pieceBoth, color: hc, pos: hpos}
					hintIdx = -1
				}
				prevColor, prevPos = pieces[j].color, pos
			case pieceBoth:
				if j != k {
					return nil, errInvalid("misplaced gradient stop")
				}
				if hintIdx >= 0 {
					hc, hpos := resolveHint(prevColor, prevPos, pieces[j].color, pieces[j].pos, hintRaw, space, hue)
					pieces[hintIdx] = stopPiece{kind: pieceBoth, color: hc, pos: hpos}
					hintIdx = -1
				}
				prevColor, prevPos = pieces[j].color, pieces[j].pos
			}
		}
		if hintIdx >= 0 {
			return nil, errInvalid("gradient hint without following color stop")
		}

		lastColor, lastPos = endColor, endPos
		i = k + 1
	}

	stops := make([]GradientStop, 0, len(pieces))
	for _, p := range pieces {
		if p.kind != pieceBoth {
			return nil, errInvalid("unresolved gradient stop")
		}
		stops = append(stops, GradientStop{Pos: p.pos, Color: p.color})
	}
	return stops, nil
}

// resolveHint converts a positional hint into a concrete stop between its
// neighbors. A hint next to currentcolor stays currentcolor.
func resolveHint(prev ColorValue, prevPos float64, next ColorValue, nextPos, raw float64, space ColorSpace, hue HueDirection) (ColorValue, float64) {
	hpos := math.Min(math.Max(raw, prevPos), nextPos)
	if prev.Current || next.Current {
		return CurrentColor(), hpos
	}
	denom := nextPos - prevPos
	t := 0.5
	if math.Abs(denom) > 1e-9 {
		t = math.Min(math.Max((hpos-prevPos)/denom, 0), 1)
	}
	return ExactColor(blendColors(prev.Color, next.Color, t, space, hue)), hpos
}

// lerpHue interpolates two hue angles in degrees along the requested arc.
func lerpHue(h1, h2, t float64, dir HueDirection) float64 {
	d := math.Mod(h2-h1, 360)
	if d < 0 {
		d += 360
	}
	switch dir {
	case HueShorter:
		if d > 180 {
			d -= 360
		}
	case HueLonger:
		if d < 180 {
			d -= 360
		}
	case HueDecreasing:
		if d > 0 {
			d -= 360
		}
	}
	h := math.Mod(h1+d*t, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// blendColors mixes two colors at t in the given interpolation space.
// Alpha is always interpolated linearly.
func blendColors(a, b Color, t float64, space ColorSpace, hue HueDirection) Color {
	alpha := lerp(a.A, b.A, t)
	ca, cb := a.colorful(), b.colorful()

	var out = ca
	switch space {
	case SpaceSrgb:
		out = ca.BlendRgb(cb, t)
	case SpaceSrgbLinear:
		out = ca.BlendLinearRgb(cb, t)
	case SpaceLab:
		out = ca.BlendLab(cb, t)
	case SpaceOklab:
		out = ca.BlendOkLab(cb, t)
	case SpaceOklch:
		// Non-default hue arcs are approximated with the shorter arc.
		out = ca.BlendOkLch(cb, t)
	case SpaceLch:
		if hue == HueShorter {
			out = ca.BlendHcl(cb, t)
		} else {
			h1, c1, l1 := ca.Hcl()
			h2, c2, l2 := cb.Hcl()
			out = colorful.Hcl(lerpHue(h1, h2, t, hue), lerp(c1, c2, t), lerp(l1, l2, t))
		}
	case SpaceHsl:
		h1, s1, l1 := ca.Hsl()
		h2, s2, l2 := cb.Hsl()
		out = colorful.Hsl(lerpHue(h1, h2, t, hue), lerp(s1, s2, t), lerp(l1, l2, t))
	case SpaceHwb:
		h1, s1, v1 := ca.Hsv()
		h2, s2, v2 := cb.Hsv()
		w1, bk1 := (1-s1)*v1, 1-v1
		w2, bk2 := (1-s2)*v2, 1-v2
		h := lerpHue(h1, h2, t, hue)
		w, bk := lerp(w1, w2, t), lerp(bk1, bk2, t)
		v := 1 - bk
		s := 0.0
		if v > 1e-9 {
			s = 1 - w/v
		}
		out = colorful.Hsv(h, s, v)
	}
	return fromColorful(out.Clamped(), alpha)
}
