package css

import (
	"errors"
	"math"
	"strings"

	tcss "github.com/tdewolff/parse/v2/css"
)

// grammarFn parses one declaration value into properties. Shorthands return
// several; everything else returns one.
type grammarFn func(c *cursor, loc SourceLoc) ([]Property, error)

// grammars is the static name-to-grammar dispatch table; lookups are done
// on the lowercased declaration name.
var grammars = map[string]grammarFn{}

var grammarByID [numProps]grammarFn

func register(name string, id PropID, fn grammarFn) {
	grammars[name] = fn
	grammarByID[id] = fn
	propName[id] = name
}

func registerSimple[T any](name string, id PropID, g func(*cursor) (T, error)) {
	register(name, id, simple(id, g))
}

// initialOrInherit matches a value that is exactly one of the two keywords.
func initialOrInherit(c *cursor) (Value, bool) {
	mark := c.save()
	t, ok := c.next()
	if ok && t.tt == tcss.IdentToken && c.done() {
		if strings.EqualFold(t.s, "initial") {
			return initial(), true
		}
		if strings.EqualFold(t.s, "inherit") {
			return inherit(), true
		}
	}
	c.restore(mark)
	return Value{}, false
}

// keywordExhausted matches a value that is exactly the given keyword.
func keywordExhausted(c *cursor, kw string) bool {
	mark := c.save()
	t, ok := c.next()
	if ok && t.tt == tcss.IdentToken && strings.EqualFold(t.s, kw) && c.done() {
		return true
	}
	c.restore(mark)
	return false
}

// simple wraps an exact-value reader with the generic declaration policy:
// bare initial/inherit first, then the grammar over the whole value, and a
// rewind to deferred capture if a var() call was hit.
func simple[T any](id PropID, g func(*cursor) (T, error)) grammarFn {
	return func(c *cursor, loc SourceLoc) ([]Property, error) {
		if v, ok := initialOrInherit(c); ok {
			return []Property{{ID: id, Val: v}}, nil
		}
		x, err := g(c)
		if err == nil {
			err = c.expectDone()
		}
		if err != nil {
			if errors.Is(err, errVarFunction) {
				return []Property{{ID: id, Val: deferred(rawText(c.toks), loc)}}, nil
			}
			return nil, err
		}
		return []Property{{ID: id, Val: exact(x)}}, nil
	}
}

func isVarFn(t token) bool {
	return t.tt == tcss.FunctionToken && strings.EqualFold(t.fnName(), "var")
}

func parseUnit(c *cursor) (Unit, error) {
	t, ok := c.next()
	if !ok {
		return Unit{}, errInvalid("expected unit")
	}
	switch t.tt {
	case tcss.FunctionToken:
		if isVarFn(t) {
			return Unit{}, errVarFunction
		}
	case tcss.NumberToken:
		v, _ := t.number()
		return Stretch(v), nil
	case tcss.DimensionToken:
		v, unit, _ := t.dimension()
		switch unit {
		case "s":
			return Stretch(v), nil
		case "px":
			return Px(v), nil
		case "em":
			return Em(v), nil
		}
	case tcss.PercentageToken:
		v, _ := t.percentage()
		return Percent(v), nil
	case tcss.IdentToken:
		if strings.EqualFold(t.s, "auto") {
			return Auto(), nil
		}
	}
	return Unit{}, invalidToken(t)
}

func parsePositiveUnit(c *cursor) (Unit, error) {
	u, err := parseUnit(c)
	if err != nil {
		return Unit{}, err
	}
	if u.Kind != UnitAuto && u.Value < 0 {
		return Unit{}, errInvalid("negative value")
	}
	return u, nil
}

func parseLength(c *cursor) (Length, error) {
	t, ok := c.next()
	if !ok {
		return Length{}, errInvalid("expected length")
	}
	switch t.tt {
	case tcss.FunctionToken:
		if isVarFn(t) {
			return Length{}, errVarFunction
		}
	case tcss.DimensionToken:
		v, unit, _ := t.dimension()
		switch unit {
		case "px":
			return PxLength(v), nil
		case "em":
			return EmLength(v), nil
		}
	case tcss.NumberToken:
		if v, _ := t.number(); v == 0 {
			return PxLength(0), nil
		}
	}
	return Length{}, invalidToken(t)
}

func parsePositiveLength(c *cursor) (Length, error) {
	l, err := parseLength(c)
	if err != nil {
		return Length{}, err
	}
	if l.Value < 0 {
		return Length{}, errInvalid("negative length")
	}
	return l, nil
}

func parseNumber(c *cursor) (float64, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected number")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	if v, ok := t.number(); ok {
		return v, nil
	}
	return 0, invalidToken(t)
}

// parseAngle reads an angle and returns radians; a bare 0 is allowed,
// grads are 0.9 degrees and a turn is 2 pi.
func parseAngle(c *cursor) (float64, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected angle")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	switch t.tt {
	case tcss.NumberToken:
		if v, _ := t.number(); v == 0 {
			return 0, nil
		}
	case tcss.DimensionToken:
		v, unit, _ := t.dimension()
		switch unit {
		case "rad":
			return v, nil
		case "deg":
			return v * math.Pi / 180, nil
		case "grad":
			return v * 0.9 * math.Pi / 180, nil
		case "turn":
			return v * 2 * math.Pi, nil
		default:
			return 0, errUnsupported("angle unit " + unit)
		}
	}
	return 0, invalidToken(t)
}

func parseOpacity(c *cursor) (float64, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected opacity")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	if v, ok := t.percentage(); ok {
		return math.Min(math.Max(v, 0), 1), nil
	}
	if v, ok := t.number(); ok {
		return math.Min(math.Max(v, 0), 1), nil
	}
	return 0, invalidToken(t)
}

func parseInt(c *cursor) (int, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected integer")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	if v, ok := t.integer(); ok {
		return v, nil
	}
	return 0, invalidToken(t)
}

func parseDisplay(c *cursor) (*Direction, error) {
	t, ok := c.next()
	if !ok {
		return nil, errInvalid("expected display")
	}
	if isVarFn(t) {
		return nil, errVarFunction
	}
	if t.tt == tcss.IdentToken {
		var d Direction
		switch strings.ToLower(t.s) {
		case "row":
			d = Row
		case "row-reverse":
			d = RowReverse
		case "column":
			d = Column
		case "column-reverse":
			d = ColumnReverse
		case "none":
			return nil, nil
		default:
			return nil, invalidToken(t)
		}
		return &d, nil
	}
	return nil, invalidToken(t)
}

func parsePosition(c *cursor) (Position, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected position")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	if t.tt == tcss.IdentToken {
		switch strings.ToLower(t.s) {
		case "parent-directed":
			return ParentDirected, nil
		case "self-directed":
			return SelfDirected, nil
		case "fixed":
			return Fixed, nil
		}
	}
	return 0, invalidToken(t)
}

func parseTextAlign(c *cursor) (TextAlign, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected text-align")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	if t.tt == tcss.IdentToken {
		switch strings.ToLower(t.s) {
		case "start":
			return AlignStart, nil
		case "end":
			return AlignEnd, nil
		case "left":
			return AlignLeft, nil
		case "right":
			return AlignRight, nil
		case "center":
			return AlignCenter, nil
		case "justify":
			return AlignJustify, nil
		}
	}
	return 0, invalidToken(t)
}

func parseFontStyle(c *cursor) (FontStyle, error) {
	t, ok := c.next()
	if !ok {
		return FontStyle{}, errInvalid("expected font-style")
	}
	if isVarFn(t) {
		return FontStyle{}, errVarFunction
	}
	if t.tt != tcss.IdentToken {
		return FontStyle{}, invalidToken(t)
	}
	switch strings.ToLower(t.s) {
	case "normal":
		return FontStyle{Kind: FontNormal}, nil
	case "italic":
		return FontStyle{Kind: FontItalic}, nil
	case "oblique":
		fs := FontStyle{Kind: FontOblique}
		mark := c.save()
		if n, ok := c.next(); ok {
			if isVarFn(n) {
				return FontStyle{}, errVarFunction
			}
			if v, unit, ok := n.dimension(); ok && unit == "deg" {
				fs.Angle = v
				fs.HasAngle = true
			} else {
				c.restore(mark)
			}
		}
		return fs, nil
	}
	return FontStyle{}, invalidToken(t)
}

func parseFontSize(c *cursor) (float64, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected font-size")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	if v, ok := t.number(); ok {
		if v < 0 {
			return 0, errInvalid("negative font-size")
		}
		return v, nil
	}
	if v, unit, ok := t.dimension(); ok {
		if unit != "px" {
			return 0, errUnsupported("font-size unit " + unit)
		}
		if v < 0 {
			return 0, errInvalid("negative font-size")
		}
		return v, nil
	}
	return 0, invalidToken(t)
}

func parseFontWeight(c *cursor) (float64, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected font-weight")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	if t.tt == tcss.IdentToken {
		switch strings.ToLower(t.s) {
		case "normal":
			return 400, nil
		case "bold":
			return 700, nil
		case "bolder", "lighter":
			return 0, errUnsupported("relative font-weight")
		}
		return 0, invalidToken(t)
	}
	if v, ok := t.number(); ok {
		return math.Min(math.Max(v, 1), 1000), nil
	}
	return 0, invalidToken(t)
}

func parseFontWidth(c *cursor) (float64, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected font-width")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	if v, ok := t.percentage(); ok {
		if v < 0 {
			return 0, errInvalid("negative font-width")
		}
		return v, nil
	}
	if t.tt == tcss.IdentToken {
		switch strings.ToLower(t.s) {
		case "ultra-condensed":
			return 0.5, nil
		case "extra-condensed":
			return 0.625, nil
		case "condensed":
			return 0.75, nil
		case "semi-condensed":
			return 0.875, nil
		case "normal":
			return 1.0, nil
		case "semi-expanded":
			return 1.125, nil
		case "expanded":
			return 1.25, nil
		case "extra-expanded":
			return 1.5, nil
		case "ultra-expanded":
			return 2.0, nil
		}
	}
	return 0, invalidToken(t)
}

// parseFontFamily validates a comma-separated family list, each entry one
// quoted string or a maximal run of identifiers, and keeps the trimmed
// source text.
func parseFontFamily(c *cursor) (string, error) {
	start := c.save()
	first := true
	for !c.done() {
		if !first {
			if err := c.expectComma(); err != nil {
				return "", err
			}
			if c.done() {
				return "", errInvalid("trailing comma in font-family")
			}
		}
		t, _ := c.next()
		switch {
		case isVarFn(t):
			return "", errVarFunction
		case t.tt == tcss.StringToken:
		case t.tt == tcss.IdentToken:
			// consume the rest of the identifier run
			for {
				n, ok := c.peek()
				if !ok || n.tt == tcss.CommaToken {
					break
				}
				if isVarFn(n) {
					return "", errVarFunction
				}
				if n.tt != tcss.IdentToken {
					return "", invalidToken(n)
				}
				c.next()
			}
		default:
			return "", invalidToken(t)
		}
		first = false
	}
	if first {
		return "", errInvalid("empty font-family")
	}
	return rawText(c.toks[start:]), nil
}

// parseTransform composes a sequence of transform functions into one
// affine matrix. A bare none resets to identity and must stand alone.
func parseTransform(c *cursor) (Affine, error) {
	if keywordExhausted(c, "none") {
		return Identity, nil
	}

	acc := Identity
	for !c.done() {
		t, _ := c.next()
		if isVarFn(t) {
			return Affine{}, errVarFunction
		}
		if t.tt != tcss.FunctionToken {
			return Affine{}, invalidToken(t)
		}
		sub, err := c.nested()
		if err != nil {
			return Affine{}, err
		}
		var m Affine
		switch strings.ToLower(t.fnName()) {
		case "translate":
			m, err = transformTranslate(sub)
		case "rotate":
			m, err = transformRotate(sub)
		case "scale":
			m, err = transformScale(sub)
		case "skew":
			m, err = transformSkew(sub)
		case "matrix":
			m, err = transformMatrix(sub)
		default:
			return Affine{}, errUnsupported("transform function " + t.fnName())
		}
		if err != nil {
			return Affine{}, err
		}
		acc = mul(m, acc)
	}
	return acc, nil
}

// transform translations are px only; other dimensions and percentages are
// recognized but unsupported.
func translateComponent(c *cursor) (float64, error) {
	t, ok := c.next()
	if !ok {
		return 0, errInvalid("expected translation")
	}
	if isVarFn(t) {
		return 0, errVarFunction
	}
	switch t.tt {
	case tcss.NumberToken:
		if v, _ := t.number(); v == 0 {
			return 0, nil
		}
	case tcss.DimensionToken:
		v, unit, _ := t.dimension()
		if unit == "px" {
			return v, nil
		}
		return 0, errUnsupported("translation unit " + unit)
	case tcss.PercentageToken:
		return 0, errUnsupported("percentage translation")
	}
	return 0, invalidToken(t)
}

func transformTranslate(c *cursor) (Affine, error) {
	tx, err := translateComponent(c)
	if err != nil {
		return Affine{}, err
	}
	if c.done() {
		return Affine{1, 0, 0, 1, tx, 0}, nil
	}
	c.optionalComma()
	ty, err := translateComponent(c)
	if err != nil {
		return Affine{}, err
	}
	if err := c.expectDone(); err != nil {
		return Affine{}, err
	}
	return Affine{1, 0, 0, 1, tx, ty}, nil
}

func transformRotate(c *cursor) (Affine, error) {
	theta, err := parseAngle(c)
	if err != nil {
		return Affine{}, err
	}
	if err := c.expectDone(); err != nil {
		return Affine{}, err
	}
	s, cos := math.Sin(theta), math.Cos(theta)
	return Affine{cos, s, -s, cos, 0, 0}, nil
}

func transformScale(c *cursor) (Affine, error) {
	sx, err := parseNumber(c)
	if err != nil {
		return Affine{}, err
	}
	if c.done() {
		return Affine{sx, 0, 0, sx, 0, 0}, nil
	}
	c.optionalComma()
	sy, err := parseNumber(c)
	if err != nil {
		return Affine{}, err
	}
	if err := c.expectDone(); err != nil {
		return Affine{}, err
	}
	return Affine{sx, 0, 0, sy, 0, 0}, nil
}

func transformSkew(c *cursor) (Affine, error) {
	ax, err := parseAngle(c)
	if err != nil {
		return Affine{}, err
	}
	ay := 0.0
	if !c.done() {
		c.optionalComma()
		ay, err = parseAngle(c)
		if err != nil {
			return Affine{}, err
		}
	}
	if err := c.expectDone(); err != nil {
		return Affine{}, err
	}
	return Affine{1, math.Tan(ay), math.Tan(ax), 1, 0, 0}, nil
}

func transformMatrix(c *cursor) (Affine, error) {
	var m Affine
	for i := 0; i < 6; i++ {
		if i > 0 {
			c.optionalComma()
		}
		v, err := parseNumber(c)
		if err != nil {
			return Affine{}, err
		}
		m[i] = v
	}
	if err := c.expectDone(); err != nil {
		return Affine{}, err
	}
	return m, nil
}

func init() {
	registerSimple("background-color", PropBackgroundColor, parseColorValue)
	register("background-image", PropBackgroundImage, backgroundImageGrammar)
	registerSimple("border-bottom-color", PropBorderBottomColor, parseColorValue)
	registerSimple("border-bottom-left-radius", PropBorderBottomLeftRadius, parsePositiveLength)
	registerSimple("border-bottom-right-radius", PropBorderBottomRightRadius, parsePositiveLength)
	registerSimple("border-bottom-width", PropBorderBottomWidth, parsePositiveLength)
	register("border-bottom", PropBorderBottom, borderSideGrammar(PropBorderBottom, PropBorderBottomColor, PropBorderBottomWidth))
	register("border-color", PropBorderColor, quadGrammar(PropBorderColor, borderColorIDs, parseColorValue))
	registerSimple("border-left-color", PropBorderLeftColor, parseColorValue)
	registerSimple("border-left-width", PropBorderLeftWidth, parsePositiveLength)
	register("border-left", PropBorderLeft, borderSideGrammar(PropBorderLeft, PropBorderLeftColor, PropBorderLeftWidth))
	register("border-radius", PropBorderRadius, quadGrammar(PropBorderRadius, borderRadiusIDs, parsePositiveLength))
	registerSimple("border-right-color", PropBorderRightColor, parseColorValue)
	registerSimple("border-right-width", PropBorderRightWidth, parsePositiveLength)
	register("border-right", PropBorderRight, borderSideGrammar(PropBorderRight, PropBorderRightColor, PropBorderRightWidth))
	registerSimple("border-top-color", PropBorderTopColor, parseColorValue)
	registerSimple("border-top-left-radius", PropBorderTopLeftRadius, parsePositiveLength)
	registerSimple("border-top-right-radius", PropBorderTopRightRadius, parsePositiveLength)
	registerSimple("border-top-width", PropBorderTopWidth, parsePositiveLength)
	register("border-top", PropBorderTop, borderSideGrammar(PropBorderTop, PropBorderTopColor, PropBorderTopWidth))
	register("border-width", PropBorderWidth, quadGrammar(PropBorderWidth, borderWidthIDs, borderWidthComponent))
	register("border", PropBorder, borderGrammar)
	registerSimple("bottom", PropBottom, parseUnit)
	registerSimple("left", PropLeft, parseUnit)
	registerSimple("right", PropRight, parseUnit)
	registerSimple("top", PropTop, parseUnit)
	register("box-shadow", PropBoxShadow, boxShadowGrammar)
	registerSimple("child-between", PropChildBetween, parsePositiveUnit)
	registerSimple("child-bottom", PropChildBottom, parsePositiveUnit)
	registerSimple("child-left", PropChildLeft, parsePositiveUnit)
	registerSimple("child-right", PropChildRight, parsePositiveUnit)
	register("child-space", PropChildSpace, quadGrammar(PropChildSpace, childSpaceIDs, parseUnit))
	registerSimple("child-top", PropChildTop, parsePositiveUnit)
	registerSimple("color", PropColor, parseColorValue)
	registerSimple("display", PropDisplay, parseDisplay)
	registerSimple("flex-basis", PropFlexBasis, parsePositiveLength)
	registerSimple("font-family", PropFontFamily, parseFontFamily)
	registerSimple("font-size", PropFontSize, parseFontSize)
	registerSimple("font-width", PropFontWidth, parseFontWidth)
	registerSimple("font-style", PropFontStyle, parseFontStyle)
	registerSimple("font-weight", PropFontWeight, parseFontWeight)
	register("font", PropFont, fontGrammar)
	registerSimple("height", PropHeight, parsePositiveUnit)
	registerSimple("width", PropWidth, parsePositiveUnit)
	registerSimple("letter-spacing", PropLetterSpacing, parseUnit)
	registerSimple("word-spacing", PropWordSpacing, parseUnit)
	registerSimple("line-height", PropLineHeight, parsePositiveUnit)
	registerSimple("max-bottom", PropMaxBottom, parsePositiveLength)
	registerSimple("max-child-between", PropMaxChildBetween, parsePositiveLength)
	registerSimple("max-child-bottom", PropMaxChildBottom, parsePositiveLength)
	registerSimple("max-child-left", PropMaxChildLeft, parsePositiveLength)
	registerSimple("max-child-right", PropMaxChildRight, parsePositiveLength)
	registerSimple("max-child-top", PropMaxChildTop, parsePositiveLength)
	registerSimple("max-height", PropMaxHeight, parsePositiveLength)
	registerSimple("max-left", PropMaxLeft, parsePositiveLength)
	registerSimple("max-right", PropMaxRight, parsePositiveLength)
	registerSimple("max-top", PropMaxTop, parsePositiveLength)
	registerSimple("max-width", PropMaxWidth, parsePositiveLength)
	registerSimple("min-bottom", PropMinBottom, parsePositiveLength)
	registerSimple("min-child-between", PropMinChildBetween, parsePositiveLength)
	registerSimple("min-child-bottom", PropMinChildBottom, parsePositiveLength)
	registerSimple("min-child-left", PropMinChildLeft, parsePositiveLength)
	registerSimple("min-child-right", PropMinChildRight, parsePositiveLength)
	registerSimple("min-child-top", PropMinChildTop, parsePositiveLength)
	registerSimple("min-height", PropMinHeight, parsePositiveLength)
	registerSimple("min-left", PropMinLeft, parsePositiveLength)
	registerSimple("min-right", PropMinRight, parsePositiveLength)
	registerSimple("min-top", PropMinTop, parsePositiveLength)
	registerSimple("min-width", PropMinWidth, parsePositiveLength)
	registerSimple("opacity", PropOpacity, parseOpacity)
	registerSimple("outline-color", PropOutlineColor, parseColorValue)
	registerSimple("outline-offset", PropOutlineOffset, parseLength)
	registerSimple("outline-width", PropOutlineWidth, parsePositiveLength)
	register("outline", PropOutline, outlineGrammar)
	registerSimple("position", PropPosition, parsePosition)
	registerSimple("selection-background", PropSelectionBackground, parseColorValue)
	registerSimple("selection-color", PropSelectionColor, parseColorValue)
	register("space", PropSpace, quadGrammar(PropSpace, spaceIDs, parseUnit))
	registerSimple("text-align", PropTextAlign, parseTextAlign)
	register("text-shadow", PropTextShadow, textShadowGrammar)
	registerSimple("transform", PropTransform, parseTransform)
	registerSimple("z-index", PropZIndex, parseInt)
}
