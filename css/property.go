package css

// PropID identifies a supported property, longhand or shorthand.
type PropID uint8

const (
	PropBackgroundColor PropID = iota
	PropBackgroundImage
	PropBorder
	PropBorderBottom
	PropBorderBottomColor
	PropBorderBottomLeftRadius
	PropBorderBottomRightRadius
	PropBorderBottomWidth
	PropBorderColor
	PropBorderLeft
	PropBorderLeftColor
	PropBorderLeftWidth
	PropBorderRadius
	PropBorderRight
	PropBorderRightColor
	PropBorderRightWidth
	PropBorderTop
	PropBorderTopColor
	PropBorderTopLeftRadius
	PropBorderTopRightRadius
	PropBorderTopWidth
	PropBorderWidth
	PropBottom
	PropBoxShadow
	PropChildBetween
	PropChildBottom
	PropChildLeft
	PropChildRight
	PropChildSpace
	PropChildTop
	PropColor
	PropDisplay
	PropFlexBasis
	PropFont
	PropFontFamily
	PropFontSize
	PropFontStyle
	PropFontWeight
	PropFontWidth
	PropHeight
	PropLeft
	PropLetterSpacing
	PropLineHeight
	PropMaxBottom
	PropMaxChildBetween
	PropMaxChildBottom
	PropMaxChildLeft
	PropMaxChildRight
	PropMaxChildTop
	PropMaxHeight
	PropMaxLeft
	PropMaxRight
	PropMaxTop
	PropMaxWidth
	PropMinBottom
	PropMinChildBetween
	PropMinChildBottom
	PropMinChildLeft
	PropMinChildRight
	PropMinChildTop
	PropMinHeight
	PropMinLeft
	PropMinRight
	PropMinTop
	PropMinWidth
	PropOpacity
	PropOutline
	PropOutlineColor
	PropOutlineOffset
	PropOutlineWidth
	PropPosition
	PropRight
	PropSelectionBackground
	PropSelectionColor
	PropSpace
	PropTextAlign
	PropTextShadow
	PropTop
	PropTransform
	PropWidth
	PropWordSpacing
	PropZIndex

	numProps
)

// propName holds the canonical declaration name per ID, filled by the
// grammar registry.
var propName [numProps]string

// Name returns the canonical declaration name.
func (id PropID) Name() string { return propName[id] }

// AffectsLayout reports whether changing this property can change geometry,
// letting a layout pass skip recomputation for paint-only changes. This is
// a fixed table, not inferred.
func (id PropID) AffectsLayout() bool {
	switch id {
	case PropBackgroundColor, PropBackgroundImage,
		PropBorderBottomColor, PropBorderLeftColor, PropBorderRightColor, PropBorderTopColor,
		PropBorderColor,
		PropBoxShadow, PropColor, PropOpacity,
		PropOutline, PropOutlineColor, PropOutlineOffset, PropOutlineWidth,
		PropSelectionBackground, PropSelectionColor,
		PropTextShadow, PropTransform, PropZIndex:
		return false
	}
	return true
}

// Property is one parsed declaration: a property ID with its value.
type Property struct {
	ID  PropID
	Val Value
}

func (p Property) String() string {
	return propName[p.ID] + ": " + p.Val.String()
}

// Variable is one captured custom-property declaration.
type Variable struct {
	Name string
	Raw  string
}

func applyVal[T any](v Value, field *T, parentVal, defVal T) {
	switch v.Kind {
	case ValueExact:
		*field = v.X.(T)
	case ValueInherit:
		*field = parentVal
	case ValueInitial:
		*field = defVal
	}
}

func applyColor(v Value, field *Color, parentVal, defVal, current Color) {
	switch v.Kind {
	case ValueExact:
		*field = v.X.(ColorValue).Resolve(current)
	case ValueInherit:
		*field = parentVal
	case ValueInitial:
		*field = defVal
	}
}

func applyOptColor(v Value, field **Color, parentVal *Color, current Color) {
	switch v.Kind {
	case ValueExact:
		c := v.X.(ColorValue).Resolve(current)
		*field = &c
	case ValueInherit:
		*field = parentVal
	case ValueInitial:
		*field = nil
	}
}

// applyOptUnit treats an exact auto as "none".
func applyOptUnit(v Value, field **Unit, parentVal *Unit) {
	switch v.Kind {
	case ValueExact:
		u := v.X.(Unit)
		if u.Kind == UnitAuto {
			*field = nil
		} else {
			*field = &u
		}
	case ValueInherit:
		*field = parentVal
	case ValueInitial:
		*field = nil
	}
}

func applyOptLength(v Value, field **Length, parentVal *Length) {
	switch v.Kind {
	case ValueExact:
		l := v.X.(Length)
		*field = &l
	case ValueInherit:
		*field = parentVal
	case ValueInitial:
		*field = nil
	}
}

// apply mutates one field of st according to the value. Deferred values are
// resolved through rs first and the resulting concrete properties applied
// recursively; a resolution failure leaves the field untouched.
func (p Property) apply(st, parent, def *Style, rs *resolver) error {
	if p.Val.Kind == ValueDeferred {
		props, err := rs.resolveDeferred(p)
		if err != nil {
			return err
		}
		for _, q := range props {
			if err := q.apply(st, parent, def, rs); err != nil {
				return err
			}
		}
		return nil
	}

	par := parent
	if par == nil {
		par = def
	}
	v := p.Val

	switch p.ID {
	case PropBackgroundColor:
		applyColor(v, &st.BackgroundColor, par.BackgroundColor, def.BackgroundColor, st.Color)
	case PropBackgroundImage:
		applyVal(v, &st.BackgroundImage, par.BackgroundImage, def.BackgroundImage)
	case PropBorderBottomColor:
		applyColor(v, &st.BorderBottomColor, par.BorderBottomColor, def.BorderBottomColor, st.Color)
	case PropBorderLeftColor:
		applyColor(v, &st.BorderLeftColor, par.BorderLeftColor, def.BorderLeftColor, st.Color)
	case PropBorderRightColor:
		applyColor(v, &st.BorderRightColor, par.BorderRightColor, def.BorderRightColor, st.Color)
	case PropBorderTopColor:
		applyColor(v, &st.BorderTopColor, par.BorderTopColor, def.BorderTopColor, st.Color)
	case PropBorderBottomLeftRadius:
		applyVal(v, &st.BorderBottomLeftRadius, par.BorderBottomLeftRadius, def.BorderBottomLeftRadius)
	case PropBorderBottomRightRadius:
		applyVal(v, &st.BorderBottomRightRadius, par.BorderBottomRightRadius, def.BorderBottomRightRadius)
	case PropBorderTopLeftRadius:
		applyVal(v, &st.BorderTopLeftRadius, par.BorderTopLeftRadius, def.BorderTopLeftRadius)
	case PropBorderTopRightRadius:
		applyVal(v, &st.BorderTopRightRadius, par.BorderTopRightRadius, def.BorderTopRightRadius)
	case PropBorderBottomWidth:
		applyVal(v, &st.BorderBottomWidth, par.BorderBottomWidth, def.BorderBottomWidth)
	case PropBorderLeftWidth:
		applyVal(v, &st.BorderLeftWidth, par.BorderLeftWidth, def.BorderLeftWidth)
	case PropBorderRightWidth:
		applyVal(v, &st.BorderRightWidth, par.BorderRightWidth, def.BorderRightWidth)
	case PropBorderTopWidth:
		applyVal(v, &st.BorderTopWidth, par.BorderTopWidth, def.BorderTopWidth)
	case PropBottom:
		applyVal(v, &st.Bottom, par.Bottom, def.Bottom)
	case PropLeft:
		applyVal(v, &st.Left, par.Left, def.Left)
	case PropRight:
		applyVal(v, &st.Right, par.Right, def.Right)
	case PropTop:
		applyVal(v, &st.Top, par.Top, def.Top)
	case PropBoxShadow:
		applyVal(v, &st.BoxShadow, par.BoxShadow, def.BoxShadow)
	case PropChildBetween:
		applyVal(v, &st.ChildBetween, par.ChildBetween, def.ChildBetween)
	case PropChildBottom:
		applyVal(v, &st.ChildBottom, par.ChildBottom, def.ChildBottom)
	case PropChildLeft:
		applyVal(v, &st.ChildLeft, par.ChildLeft, def.ChildLeft)
	case PropChildRight:
		applyVal(v, &st.ChildRight, par.ChildRight, def.ChildRight)
	case PropChildTop:
		applyVal(v, &st.ChildTop, par.ChildTop, def.ChildTop)
	case PropColor:
		applyColor(v, &st.Color, par.Color, def.Color, st.Color)
	case PropDisplay:
		applyVal(v, &st.Display, par.Display, def.Display)
	case PropFlexBasis:
		applyVal(v, &st.FlexBasis, par.FlexBasis, def.FlexBasis)
	case PropFontFamily:
		applyVal(v, &st.FontFamily, par.FontFamily, def.FontFamily)
	case PropFontSize:
		applyVal(v, &st.FontSize, par.FontSize, def.FontSize)
	case PropFontStyle:
		applyVal(v, &st.FontStyle, par.FontStyle, def.FontStyle)
	case PropFontWeight:
		applyVal(v, &st.FontWeight, par.FontWeight, def.FontWeight)
	case PropFontWidth:
		applyVal(v, &st.FontWidth, par.FontWidth, def.FontWidth)
	case PropHeight:
		applyVal(v, &st.Height, par.Height, def.Height)
	case PropWidth:
		applyVal(v, &st.Width, par.Width, def.Width)
	case PropLetterSpacing:
		applyOptUnit(v, &st.LetterSpacing, par.LetterSpacing)
	case PropWordSpacing:
		applyOptUnit(v, &st.WordSpacing, par.WordSpacing)
	case PropLineHeight:
		applyVal(v, &st.LineHeight, par.LineHeight, def.LineHeight)
	case PropMaxBottom:
		applyOptLength(v, &st.MaxBottom, par.MaxBottom)
	case PropMaxChildBetween:
		applyOptLength(v, &st.MaxChildBetween, par.MaxChildBetween)
	case PropMaxChildBottom:
		applyOptLength(v, &st.MaxChildBottom, par.MaxChildBottom)
	case PropMaxChildLeft:
		applyOptLength(v, &st.MaxChildLeft, par.MaxChildLeft)
	case PropMaxChildRight:
		applyOptLength(v, &st.MaxChildRight, par.MaxChildRight)
	case PropMaxChildTop:
		applyOptLength(v, &st.MaxChildTop, par.MaxChildTop)
	case PropMaxHeight:
		applyOptLength(v, &st.MaxHeight, par.MaxHeight)
	case PropMaxLeft:
		applyOptLength(v, &st.MaxLeft, par.MaxLeft)
	case PropMaxRight:
		applyOptLength(v, &st.MaxRight, par.MaxRight)
	case PropMaxTop:
		applyOptLength(v, &st.MaxTop, par.MaxTop)
	case PropMaxWidth:
		applyOptLength(v, &st.MaxWidth, par.MaxWidth)
	case PropMinBottom:
		applyOptLength(v, &st.MinBottom, par.MinBottom)
	case PropMinChildBetween:
		applyOptLength(v, &st.MinChildBetween, par.MinChildBetween)
	case PropMinChildBottom:
		applyOptLength(v, &st.MinChildBottom, par.MinChildBottom)
	case PropMinChildLeft:
		applyOptLength(v, &st.MinChildLeft, par.MinChildLeft)
	case PropMinChildRight:
		applyOptLength(v, &st.MinChildRight, par.MinChildRight)
	case PropMinChildTop:
		applyOptLength(v, &st.MinChildTop, par.MinChildTop)
	case PropMinHeight:
		applyOptLength(v, &st.MinHeight, par.MinHeight)
	case PropMinLeft:
		applyOptLength(v, &st.MinLeft, par.MinLeft)
	case PropMinRight:
		applyOptLength(v, &st.MinRight, par.MinRight)
	case PropMinTop:
		applyOptLength(v, &st.MinTop, par.MinTop)
	case PropMinWidth:
		applyOptLength(v, &st.MinWidth, par.MinWidth)
	case PropOpacity:
		applyVal(v, &st.Opacity, par.Opacity, def.Opacity)
	case PropOutlineColor:
		applyColor(v, &st.OutlineColor, par.OutlineColor, def.OutlineColor, st.Color)
	case PropOutlineOffset:
		applyVal(v, &st.OutlineOffset, par.OutlineOffset, def.OutlineOffset)
	case PropOutlineWidth:
		applyVal(v, &st.OutlineWidth, par.OutlineWidth, def.OutlineWidth)
	case PropPosition:
		applyVal(v, &st.Position, par.Position, def.Position)
	case PropSelectionBackground:
		applyColor(v, &st.SelectionBackground, par.SelectionBackground, def.SelectionBackground, st.Color)
	case PropSelectionColor:
		applyOptColor(v, &st.SelectionColor, par.SelectionColor, st.Color)
	case PropTextAlign:
		applyVal(v, &st.TextAlign, par.TextAlign, def.TextAlign)
	case PropTextShadow:
		applyVal(v, &st.TextShadow, par.TextShadow, def.TextShadow)
	case PropTransform:
		applyVal(v, &st.Transform, par.Transform, def.Transform)
	case PropZIndex:
		applyVal(v, &st.ZIndex, par.ZIndex, def.ZIndex)
	}
	return nil
}
