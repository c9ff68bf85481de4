package css

import (
	"errors"
	"strings"

	tcss "github.com/tdewolff/parse/v2/css"
)

// Side and corner orders mirror the usual declaration order.
var (
	borderColorIDs  = [4]PropID{PropBorderTopColor, PropBorderRightColor, PropBorderBottomColor, PropBorderLeftColor}
	borderWidthIDs  = [4]PropID{PropBorderTopWidth, PropBorderRightWidth, PropBorderBottomWidth, PropBorderLeftWidth}
	borderRadiusIDs = [4]PropID{PropBorderTopLeftRadius, PropBorderTopRightRadius, PropBorderBottomRightRadius, PropBorderBottomLeftRadius}
	spaceIDs        = [4]PropID{PropTop, PropRight, PropBottom, PropLeft}
	childSpaceIDs   = [4]PropID{PropChildTop, PropChildRight, PropChildBottom, PropChildLeft}
)

func expandAll(ids []PropID, v Value) []Property {
	props := make([]Property, len(ids))
	for i, id := range ids {
		props[i] = Property{ID: id, Val: v}
	}
	return props
}

// capture turns a shorthand error into a deferred value when it was caused
// by a var() call.
func capture(id PropID, c *cursor, loc SourceLoc, err error) ([]Property, error) {
	if errors.Is(err, errVarFunction) {
		return []Property{{ID: id, Val: deferred(rawText(c.toks), loc)}}, nil
	}
	return nil, err
}

// quadValues reads one to four values and expands them to the four sides:
// one value for all, two as vertical then horizontal, three as top,
// horizontal, bottom.
func quadValues[T any](c *cursor, elem func(*cursor) (T, error)) ([4]T, error) {
	var q [4]T
	v1, err := elem(c)
	if err != nil {
		return q, err
	}
	if c.done() {
		return [4]T{v1, v1, v1, v1}, nil
	}
	v2, err := elem(c)
	if err != nil {
		return q, err
	}
	if c.done() {
		return [4]T{v1, v2, v1, v2}, nil
	}
	v3, err := elem(c)
	if err != nil {
		return q, err
	}
	if c.done() {
		return [4]T{v1, v2, v3, v2}, nil
	}
	v4, err := elem(c)
	if err != nil {
		return q, err
	}
	if err := c.expectDone(); err != nil {
		return q, err
	}
	return [4]T{v1, v2, v3, v4}, nil
}

func quadGrammar[T any](id PropID, ids [4]PropID, elem func(*cursor) (T, error)) grammarFn {
	return func(c *cursor, loc SourceLoc) ([]Property, error) {
		if v, ok := initialOrInherit(c); ok {
			return expandAll(ids[:], v), nil
		}
		q, err := quadValues(c, elem)
		if err != nil {
			return capture(id, c, loc, err)
		}
		props := make([]Property, 4)
		for i := range q {
			props[i] = Property{ID: ids[i], Val: exact(q[i])}
		}
		return props, nil
	}
}

// borderWidthComponent accepts the width keywords on top of the plain
// length grammar.
func borderWidthComponent(c *cursor) (Length, error) {
	mark := c.save()
	if t, ok := c.next(); ok && t.tt == tcss.IdentToken {
		switch strings.ToLower(t.s) {
		case "thin":
			return PxLength(2), nil
		case "medium":
			return PxLength(4), nil
		case "thick":
			return PxLength(6), nil
		}
		return Length{}, invalidToken(t)
	}
	c.restore(mark)
	return parsePositiveLength(c)
}

// strokeComponents reads an unordered color, width and style, each at most
// once. Only the solid style is drawable; the other CSS styles are
// recognized and rejected as unsupported.
func strokeComponents(c *cursor, colorID, widthID PropID, width func(*cursor) (Length, error)) ([]Property, error) {
	var out []Property
	var seenColor, seenWidth, seenStyle bool

	for !c.done() {
		mark := c.save()
		if cv, err := parseColorValue(c); err == nil {
			if seenColor {
				return nil, errInvalid("duplicate color")
			}
			seenColor = true
			out = append(out, Property{ID: colorID, Val: exact(cv)})
			continue
		} else if errors.Is(err, errVarFunction) {
			return nil, err
		}
		c.restore(mark)

		if l, err := width(c); err == nil {
			if seenWidth {
				return nil, errInvalid("duplicate width")
			}
			seenWidth = true
			out = append(out, Property{ID: widthID, Val: exact(l)})
			continue
		} else if errors.Is(err, errVarFunction) {
			return nil, err
		}
		c.restore(mark)

		t, _ := c.next()
		if isVarFn(t) {
			return nil, errVarFunction
		}
		if t.tt != tcss.IdentToken {
			return nil, invalidToken(t)
		}
		switch strings.ToLower(t.s) {
		case "solid":
			if seenStyle {
				return nil, errInvalid("duplicate style")
			}
			seenStyle = true
		case "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
			return nil, errUnsupported("border style " + t.s)
		default:
			return nil, invalidToken(t)
		}
	}
	return out, nil
}

func borderSideGrammar(id, colorID, widthID PropID) grammarFn {
	return func(c *cursor, loc SourceLoc) ([]Property, error) {
		if v, ok := initialOrInherit(c); ok {
			return []Property{{ID: colorID, Val: v}, {ID: widthID, Val: v}}, nil
		}
		out, err := strokeComponents(c, colorID, widthID, parsePositiveLength)
		if err != nil {
			return capture(id, c, loc, err)
		}
		return out, nil
	}
}

// borderGrammar applies one stroke to all four sides at once.
func borderGrammar(c *cursor, loc SourceLoc) ([]Property, error) {
	if v, ok := initialOrInherit(c); ok {
		out := expandAll(borderColorIDs[:], v)
		return append(out, expandAll(borderWidthIDs[:], v)...), nil
	}

	var out []Property
	var seenColor, seenWidth, seenStyle bool
	for !c.done() {
		mark := c.save()
		if cv, err := parseColorValue(c); err == nil {
			if seenColor {
				return nil, errInvalid("duplicate color")
			}
			seenColor = true
			for _, id := range borderColorIDs {
				out = append(out, Property{ID: id, Val: exact(cv)})
			}
			continue
		} else if errors.Is(err, errVarFunction) {
			return capture(PropBorder, c, loc, err)
		}
		c.restore(mark)

		if l, err := borderWidthComponent(c); err == nil {
			if seenWidth {
				return nil, errInvalid("duplicate width")
			}
			seenWidth = true
			for _, id := range borderWidthIDs {
				out = append(out, Property{ID: id, Val: exact(l)})
			}
			continue
		} else if errors.Is(err, errVarFunction) {
			return capture(PropBorder, c, loc, err)
		}
		c.restore(mark)

		t, _ := c.next()
		if isVarFn(t) {
			return capture(PropBorder, c, loc, errVarFunction)
		}
		if t.tt != tcss.IdentToken {
			return nil, invalidToken(t)
		}
		switch strings.ToLower(t.s) {
		case "solid":
			if seenStyle {
				return nil, errInvalid("duplicate style")
			}
			seenStyle = true
		case "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
			return nil, errUnsupported("border style " + t.s)
		default:
			return nil, invalidToken(t)
		}
	}
	return out, nil
}

func outlineGrammar(c *cursor, loc SourceLoc) ([]Property, error) {
	if v, ok := initialOrInherit(c); ok {
		return []Property{{ID: PropOutlineColor, Val: v}, {ID: PropOutlineWidth, Val: v}}, nil
	}
	out, err := strokeComponents(c, PropOutlineColor, PropOutlineWidth, parsePositiveLength)
	if err != nil {
		return capture(PropOutline, c, loc, err)
	}
	return out, nil
}

var fontLonghands = []PropID{PropFontFamily, PropFontStyle, PropFontWeight, PropFontWidth, PropFontSize, PropLineHeight}

// fontGrammar reads the font shorthand: optional style, weight and width in
// any order, a mandatory size with optional /line-height, then a mandatory
// family list.
func fontGrammar(c *cursor, loc SourceLoc) ([]Property, error) {
	if v, ok := initialOrInherit(c); ok {
		return expandAll(fontLonghands, v), nil
	}

	style, weight, width := initial(), initial(), initial()
	haveStyle, haveWeight, haveWidth := false, false, false
	for {
		if !haveStyle {
			mark := c.save()
			if fs, err := parseFontStyle(c); err == nil {
				style, haveStyle = exact(fs), true
				continue
			}
			c.restore(mark)
		}
		if !haveWeight {
			mark := c.save()
			if v, err := parseFontWeight(c); err == nil {
				weight, haveWeight = exact(v), true
				continue
			}
			c.restore(mark)
		}
		if !haveWidth {
			mark := c.save()
			if v, err := parseFontWidth(c); err == nil {
				width, haveWidth = exact(v), true
				continue
			}
			c.restore(mark)
		}
		break
	}

	sizeVal, err := parseFontSize(c)
	if err != nil {
		return capture(PropFont, c, loc, err)
	}

	lineHeight := initial()
	if t, ok := c.peek(); ok && t.tt == tcss.DelimToken && t.s == "/" {
		c.next()
		if keyword, ok := c.peek(); ok && keyword.tt == tcss.IdentToken && strings.EqualFold(keyword.s, "normal") {
			c.next()
		} else {
			u, err := parseUnit(c)
			if err != nil {
				return capture(PropFont, c, loc, err)
			}
			lineHeight = exact(u)
		}
	}

	family, err := parseFontFamily(c)
	if err != nil {
		return capture(PropFont, c, loc, err)
	}

	return []Property{
		{ID: PropFontStyle, Val: style},
		{ID: PropFontWeight, Val: weight},
		{ID: PropFontWidth, Val: width},
		{ID: PropFontSize, Val: exact(sizeVal)},
		{ID: PropLineHeight, Val: lineHeight},
		{ID: PropFontFamily, Val: exact(family)},
	}, nil
}

// shadowComponent accumulates one comma-separated shadow entry.
type shadowComponent struct {
	vals      [4]Length
	vlen      int
	color     *Color
	inset     bool
	seenColor bool
	seenInset bool
}

func (sc *shadowComponent) reset() {
	*sc = shadowComponent{}
}

// finish validates the accumulated lengths: offsets are mandatory, blur and
// spread optional, blur must not be negative.
func (sc *shadowComponent) finish() (ox, oy, blur, spread Length, hasBlur, hasSpread bool, err error) {
	switch sc.vlen {
	case 2:
		ox, oy = sc.vals[0], sc.vals[1]
	case 3:
		ox, oy, blur, hasBlur = sc.vals[0], sc.vals[1], sc.vals[2], true
	case 4:
		ox, oy, blur, spread, hasBlur, hasSpread = sc.vals[0], sc.vals[1], sc.vals[2], sc.vals[3], true, true
	default:
		err = errInvalid("shadow needs two to four lengths")
		return
	}
	if hasBlur && blur.Value < 0 {
		err = errInvalid("negative blur radius")
	}
	return
}

func shadowComponents(c *cursor, allowInset bool, emit func(sc *shadowComponent) error) error {
	var sc shadowComponent
	flush := func() error {
		if err := emit(&sc); err != nil {
			return err
		}
		sc.reset()
		return nil
	}

	for !c.done() {
		mark := c.save()
		if cv, err := parseColorValue(c); err == nil {
			if sc.seenColor {
				return errInvalid("duplicate shadow color")
			}
			sc.seenColor = true
			if !cv.Current {
				col := cv.Color
				sc.color = &col
			}
			continue
		} else if errors.Is(err, errVarFunction) {
			return err
		}
		c.restore(mark)

		if l, err := parseLength(c); err == nil {
			if sc.vlen == 4 {
				return errInvalid("too many shadow lengths")
			}
			sc.vals[sc.vlen] = l
			sc.vlen++
			continue
		} else if errors.Is(err, errVarFunction) {
			return err
		}
		c.restore(mark)

		t, _ := c.next()
		switch {
		case isVarFn(t):
			return errVarFunction
		case allowInset && t.tt == tcss.IdentToken && strings.EqualFold(t.s, "inset"):
			if sc.seenInset {
				return errInvalid("duplicate inset")
			}
			sc.seenInset = true
			sc.inset = true
		case t.tt == tcss.CommaToken:
			if err := flush(); err != nil {
				return err
			}
		default:
			return invalidToken(t)
		}
	}
	return flush()
}

func boxShadowGrammar(c *cursor, loc SourceLoc) ([]Property, error) {
	if v, ok := initialOrInherit(c); ok {
		return []Property{{ID: PropBoxShadow, Val: v}}, nil
	}
	if keywordExhausted(c, "none") {
		return []Property{{ID: PropBoxShadow, Val: initial()}}, nil
	}

	var shadows []BoxShadow
	err := shadowComponents(c, true, func(sc *shadowComponent) error {
		ox, oy, blur, spread, _, _, err := sc.finish()
		if err != nil {
			return err
		}
		shadows = append(shadows, BoxShadow{
			OffsetX: ox,
			OffsetY: oy,
			Blur:    blur,
			Spread:  spread,
			Color:   sc.color,
			Inset:   sc.inset,
		})
		return nil
	})
	if err != nil {
		return capture(PropBoxShadow, c, loc, err)
	}
	return []Property{{ID: PropBoxShadow, Val: exact(shadows)}}, nil
}

func textShadowGrammar(c *cursor, loc SourceLoc) ([]Property, error) {
	if v, ok := initialOrInherit(c); ok {
		return []Property{{ID: PropTextShadow, Val: v}}, nil
	}
	if keywordExhausted(c, "none") {
		return []Property{{ID: PropTextShadow, Val: initial()}}, nil
	}

	var shadows []TextShadow
	err := shadowComponents(c, false, func(sc *shadowComponent) error {
		ox, oy, blur, _, _, hasSpread, err := sc.finish()
		if err != nil {
			return err
		}
		if hasSpread {
			return errInvalid("text shadow has no spread")
		}
		shadows = append(shadows, TextShadow{
			OffsetX: ox,
			OffsetY: oy,
			Blur:    blur,
			Color:   sc.color,
		})
		return nil
	})
	if err != nil {
		return capture(PropTextShadow, c, loc, err)
	}
	return []Property{{ID: PropTextShadow, Val: exact(shadows)}}, nil
}
