package css

// Style is the flat, fully computed style record consumed by layout and
// paint. Optional fields use nil for "none". Slice and pointer fields are
// shared between styles that inherit them; treat a computed Style as
// read-only.
type Style struct {
	BackgroundColor Color
	BackgroundImage *GradientStack

	BorderBottomColor Color
	BorderLeftColor   Color
	BorderRightColor  Color
	BorderTopColor    Color

	BorderBottomLeftRadius  Length
	BorderBottomRightRadius Length
	BorderTopLeftRadius     Length
	BorderTopRightRadius    Length

	BorderBottomWidth Length
	BorderLeftWidth   Length
	BorderRightWidth  Length
	BorderTopWidth    Length

	Bottom Unit
	Left   Unit
	Right  Unit
	Top    Unit

	BoxShadow []BoxShadow

	ChildBetween Unit
	ChildBottom  Unit
	ChildLeft    Unit
	ChildRight   Unit
	ChildTop     Unit

	Color Color

	Display *Direction

	FlexBasis Length

	FontFamily string
	FontSize   float64
	FontStyle  FontStyle
	FontWeight float64
	FontWidth  float64

	Height Unit
	Width  Unit

	LetterSpacing *Unit
	WordSpacing   *Unit
	LineHeight    Unit

	MaxBottom       *Length
	MaxChildBetween *Length
	MaxChildBottom  *Length
	MaxChildLeft    *Length
	MaxChildRight   *Length
	MaxChildTop     *Length
	MaxHeight       *Length
	MaxLeft         *Length
	MaxRight        *Length
	MaxTop          *Length
	MaxWidth        *Length

	MinBottom       *Length
	MinChildBetween *Length
	MinChildBottom  *Length
	MinChildLeft    *Length
	MinChildRight   *Length
	MinChildTop     *Length
	MinHeight       *Length
	MinLeft         *Length
	MinRight        *Length
	MinTop          *Length
	MinWidth        *Length

	Opacity float64

	OutlineColor  Color
	OutlineOffset Length
	OutlineWidth  Length

	Position Position

	SelectionBackground Color
	SelectionColor      *Color

	TextAlign  TextAlign
	TextShadow []TextShadow

	Transform Affine

	Visibility bool

	ZIndex int
}

// DefaultStyle returns the style every element starts from at the root.
func DefaultStyle() Style {
	display := Column
	return Style{
		BackgroundColor: RGBA8(0, 0, 0, 0),

		BorderBottomColor: RGB8(0, 0, 0),
		BorderLeftColor:   RGB8(0, 0, 0),
		BorderRightColor:  RGB8(0, 0, 0),
		BorderTopColor:    RGB8(0, 0, 0),

		Bottom: Auto(),
		Left:   Auto(),
		Right:  Auto(),
		Top:    Auto(),

		ChildBetween: Auto(),
		ChildBottom:  Auto(),
		ChildLeft:    Auto(),
		ChildRight:   Auto(),
		ChildTop:     Auto(),

		Color: RGB8(0, 0, 0),

		Display: &display,

		FontSize:   16,
		FontWeight: 400,
		FontWidth:  1,

		Height: Stretch(1),
		Width:  Stretch(1),

		LineHeight: Stretch(1.2),

		Opacity: 1,

		OutlineColor: RGB8(0, 0, 0),

		Position: ParentDirected,

		SelectionBackground: RGBA8(4, 101, 175, 128),

		TextAlign: AlignStart,

		Transform: Identity,

		Visibility: true,
	}
}

// NewStyle seeds a node's style: inherited fields come from the parent,
// everything else from the defaults. A nil parent means the root.
func NewStyle(parent *Style) Style {
	s := DefaultStyle()
	if parent == nil {
		return s
	}
	s.Color = parent.Color
	s.FontFamily = parent.FontFamily
	s.FontSize = parent.FontSize
	s.FontStyle = parent.FontStyle
	s.FontWeight = parent.FontWeight
	s.FontWidth = parent.FontWidth
	s.LetterSpacing = parent.LetterSpacing
	s.WordSpacing = parent.WordSpacing
	s.LineHeight = parent.LineHeight
	s.TextShadow = parent.TextShadow
	return s
}
