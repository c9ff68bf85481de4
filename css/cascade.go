package css

import (
	"go.uber.org/zap"
)

// Cascade computes styles for nodes against one stylesheet. It owns
// reusable scratch space, so a Cascade must not be shared between
// goroutines; the Stylesheet itself may be.
type Cascade struct {
	sheet   *Stylesheet
	log     *zap.Logger
	scratch Scratch
	def     Style
}

// NewCascade creates a cascade over sheet.
func NewCascade(sheet *Stylesheet, log *zap.Logger) *Cascade {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cascade{
		sheet: sheet,
		log:   log.Named("css-cascade"),
		def:   DefaultStyle(),
	}
}

// ComputeStyle computes the style for n. parent is the parent's computed
// style, nil at the root; scope is the variable scope in effect at the
// parent. It returns the computed style, whether any applied property
// affects layout, and the scope to use for n's children.
//
// Matched rules apply in ascending specificity with declaration order
// breaking ties. The color property applies in a first phase so that
// currentcolor resolves against the node's final color everywhere else.
func (c *Cascade) ComputeStyle(n Node, parent *Style, scope *VarScope) (Style, bool, *VarScope) {
	st := NewStyle(parent)
	matched := c.sheet.MatchingRules(n)

	var vals map[string]string
	for _, r := range matched {
		for _, v := range r.Variables {
			if vals == nil {
				vals = make(map[string]string)
			}
			vals[v.Name] = v.Raw
		}
	}
	scope = NewVarScope(scope, vals)
	rs := &resolver{vars: scope, scratch: &c.scratch}

	affectsLayout := false
	for phase := 0; phase < 2; phase++ {
		for _, r := range matched {
			for i := range r.Properties {
				p := &r.Properties[i]
				isColor := p.ID == PropColor
				if (phase == 0) != isColor {
					continue
				}
				if phase == 1 && p.ID.AffectsLayout() {
					affectsLayout = true
				}
				if err := p.apply(&st, parent, &c.def, rs); err != nil {
					c.log.Warn("failed to apply property",
						zap.String("sheet", c.sheet.Name),
						zap.String("property", p.ID.Name()),
						zap.Error(err))
				}
			}
		}
	}
	return st, affectsLayout, scope
}
