package css

import (
	"strings"
	"unique"

	tcss "github.com/tdewolff/parse/v2/css"
)

// ClassID is an interned class name. Comparing handles is cheap, which
// keeps selector matching free of string comparisons.
type ClassID = unique.Handle[string]

// Intern returns the canonical handle for a class name.
func Intern(name string) ClassID {
	return unique.Make(name)
}

// SelectorKind is one atom of a compound selector chain.
type SelectorKind uint8

const (
	// SelClass matches nodes carrying a class.
	SelClass SelectorKind = iota
	// SelWildcard matches any node.
	SelWildcard
	// SelDescendant is the whitespace combinator.
	SelDescendant
	// SelChild is the > combinator.
	SelChild
	SelHover
	SelFocus
	SelActive
	SelDisabled
	SelEnabled
)

// Selector is one parsed selector atom. Class is only set for SelClass.
type Selector struct {
	Kind  SelectorKind
	Class ClassID
}

func (s Selector) String() string {
	switch s.Kind {
	case SelClass:
		return "." + s.Class.Value()
	case SelWildcard:
		return "*"
	case SelDescendant:
		return " "
	case SelChild:
		return " > "
	case SelHover:
		return ":hover"
	case SelFocus:
		return ":focus"
	case SelActive:
		return ":active"
	case SelDisabled:
		return ":disabled"
	default:
		return ":enabled"
	}
}

// NodeState is the interaction state a node exposes to pseudo-class
// selectors.
type NodeState uint8

const (
	StateHovered NodeState = 1 << iota
	StateFocused
	StateActive
	StateDisabled
)

// Node is the tree interface styling runs against. Parent returns nil at
// the root.
type Node interface {
	Classes() []ClassID
	State() NodeState
	Parent() Node
}

// Rule is one selector chain with its declaration block. Rules produced
// from a grouped prelude share the same property list.
type Rule struct {
	Selectors   []Selector
	Properties  []Property
	Variables   []Variable
	Specificity int
	HasPseudos  bool
}

func (r *Rule) String() string {
	var sb strings.Builder
	for _, s := range r.Selectors {
		sb.WriteString(s.String())
	}
	sb.WriteString(" {")
	for _, p := range r.Properties {
		sb.WriteString("\t")
		sb.WriteString(p.String())
		sb.WriteString(";")
	}
	for _, v := range r.Variables {
		sb.WriteString("\t")
		sb.WriteString(v.Name)
		sb.WriteString(": ")
		sb.WriteString(v.Raw)
		sb.WriteString(";")
	}
	sb.WriteString("}")
	return sb.String()
}

// parseSelectorChain parses one comma-free selector prelude chunk.
// Whitespace between atoms is the descendant combinator; a chain with no
// concrete atom, or one ending in a combinator, is rejected.
func parseSelectorChain(toks []token) ([]Selector, error) {
	var sels []Selector
	var pending *Selector
	foundClass := false

	flush := func() {
		if pending != nil {
			sels = append(sels, *pending)
			pending = nil
		}
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.tt == tcss.WhitespaceToken:
			if foundClass && pending == nil {
				pending = &Selector{Kind: SelDescendant}
			}
		case t.tt == tcss.DelimToken && t.s == ">":
			pending = &Selector{Kind: SelChild}
		case t.tt == tcss.DelimToken && t.s == "*":
			flush()
			sels = append(sels, Selector{Kind: SelWildcard})
			foundClass = true
		case t.tt == tcss.ColonToken:
			i++
			for i < len(toks) && toks[i].tt == tcss.WhitespaceToken {
				i++
			}
			if i >= len(toks) || toks[i].tt != tcss.IdentToken {
				return nil, errInvalid("expected pseudo-class name")
			}
			var kind SelectorKind
			switch strings.ToLower(toks[i].s) {
			case "focus":
				kind = SelFocus
			case "hover":
				kind = SelHover
			case "active":
				kind = SelActive
			case "disabled":
				kind = SelDisabled
			case "enabled":
				kind = SelEnabled
			default:
				return nil, errInvalid("unknown pseudo-class :" + toks[i].s)
			}
			flush()
			sels = append(sels, Selector{Kind: kind})
			foundClass = true
		case t.tt == tcss.IdentToken:
			flush()
			sels = append(sels, Selector{Kind: SelClass, Class: Intern(t.s)})
			foundClass = true
		case t.tt == tcss.DelimToken && t.s == ".":
			// Element selectors are treated as class selectors, so the
			// leading dot carries no information.
		default:
			return nil, invalidToken(t)
		}
	}

	if pending != nil && pending.Kind == SelDescendant {
		pending = nil
	}
	if !foundClass || pending != nil {
		return nil, errInvalid("selector ends in a combinator")
	}
	return sels, nil
}

// chainSpecificity scores a chain: ten per class or pseudo-class atom.
func chainSpecificity(sels []Selector) (spec int, pseudos bool) {
	for _, s := range sels {
		switch s.Kind {
		case SelClass:
			spec += 10
		case SelHover, SelFocus, SelActive, SelDisabled, SelEnabled:
			spec += 10
			pseudos = true
		}
	}
	return spec, pseudos
}

func hasClass(n Node, id ClassID) bool {
	for _, c := range n.Classes() {
		if c == id {
			return true
		}
	}
	return false
}

// Matches walks the selector chain right to left against the node and its
// ancestors. Class atoms in descendant position greedily bind to the
// nearest ancestor carrying the class.
func (r *Rule) Matches(n Node) bool {
	cmp := n
	isFirst := true
	prevClass := false
	prevChild := false

selector:
	for i := len(r.Selectors) - 1; i >= 0; i-- {
		sel := r.Selectors[i]
		for cmp != nil {
			switch sel.Kind {
			case SelClass:
				if hasClass(cmp, sel.Class) {
					isFirst, prevClass, prevChild = false, true, false
					continue selector
				}
				if isFirst || prevClass || prevChild {
					return false
				}
				isFirst, prevClass, prevChild = false, true, false
				cmp = cmp.Parent()
				continue

			case SelWildcard:
				isFirst, prevClass, prevChild = false, false, false
				continue selector

			case SelChild:
				prevClass, prevChild = false, true
				cmp = cmp.Parent()
				continue selector

			case SelDescendant:
				prevClass, prevChild = false, false
				cmp = cmp.Parent()
				continue selector

			case SelHover:
				if cmp.State()&StateHovered == 0 {
					return false
				}
				prevClass, prevChild = false, false
				continue selector

			case SelFocus:
				if cmp.State()&StateFocused == 0 {
					return false
				}
				prevClass, prevChild = false, false
				continue selector

			case SelActive:
				if cmp.State()&StateActive == 0 {
					return false
				}
				prevClass, prevChild = false, false
				continue selector

			case SelEnabled, SelDisabled:
				disabled := cmp.State()&StateDisabled != 0
				if disabled != (sel.Kind == SelDisabled) {
					return false
				}
				prevClass, prevChild = false, false
				continue selector
			}
		}
		return false
	}
	return true
}
