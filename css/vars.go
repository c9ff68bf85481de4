package css

import (
	"errors"
	"strings"

	tcss "github.com/tdewolff/parse/v2/css"
)

// varResolveLimit bounds the number of substitution passes. Values that
// still expand after this many rounds are cyclic or pathological.
const varResolveLimit = 8

// VarScope is an immutable chain of custom property bindings. Child scopes
// shadow their parents, sibling scopes never see each other.
type VarScope struct {
	parent *VarScope
	vals   map[string]string
}

// NewVarScope extends parent with the given bindings. A nil map or empty
// map returns the parent unchanged.
func NewVarScope(parent *VarScope, vals map[string]string) *VarScope {
	if len(vals) == 0 {
		return parent
	}
	return &VarScope{parent: parent, vals: vals}
}

func (s *VarScope) lookup(name string) (string, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vals[name]; ok {
			return v, true
		}
	}
	return "", false
}

// resolver rewrites deferred values by substituting var() calls and
// reparsing the result through the property's own grammar.
type resolver struct {
	vars    *VarScope
	scratch *Scratch
}

func (rs *resolver) resolveDeferred(p Property) ([]Property, error) {
	raw := p.Val.Raw
	loc := p.Val.Loc

	value, err := resolveVars(rs.scratch, raw, rs.vars)
	if err != nil {
		var ve *VarError
		if errors.As(err, &ve) {
			ve.Raw, ve.Loc = raw, loc
			return nil, ve
		}
		return nil, &VarError{Kind: VarParseFailed, Raw: raw, Loc: loc, Err: err}
	}

	toks, err := tokenize(value)
	if err != nil {
		return nil, &VarError{Kind: VarParseFailed, Raw: raw, Loc: loc, Err: err}
	}
	fn := grammarByID[p.ID]
	if fn == nil {
		return nil, &VarError{Kind: VarParseFailed, Raw: raw, Loc: loc}
	}
	props, err := fn(newCursor(toks), loc)
	if err != nil {
		return nil, &VarError{Kind: VarParseFailed, Raw: raw, Loc: loc, Err: err}
	}
	for _, rp := range props {
		if rp.Val.Kind == ValueDeferred {
			return nil, &VarError{Kind: VarParseFailed, Raw: raw, Loc: loc}
		}
	}
	return props, nil
}

// resolveVars runs substitution passes over raw until a pass changes
// nothing, alternating between the two scratch buffers.
func resolveVars(scratch *Scratch, raw string, vars *VarScope) (string, error) {
	cur, nxt := &scratch.one, &scratch.two
	cur.Reset()
	nxt.Reset()

	changed, err := resolveVarsPass(raw, vars, cur)
	if err != nil {
		return "", err
	}
	if !changed {
		return raw, nil
	}

	for i := 1; i < varResolveLimit; i++ {
		changed, err = resolveVarsPass(cur.String(), vars, nxt)
		if err != nil {
			return "", err
		}
		if !changed {
			return cur.String(), nil
		}
		cur, nxt = nxt, cur
		nxt.Reset()
	}
	return "", &VarError{Kind: VarDepthExceeded}
}

// resolveVarsPass performs one substitution pass. It reports whether any
// var() call was expanded into out.
func resolveVarsPass(input string, vars *VarScope, out *strings.Builder) (bool, error) {
	toks, err := tokenize(input)
	if err != nil {
		return false, &VarError{Kind: VarParseFailed, Err: err}
	}

	wrote := false
	depth := 0
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.tt == tcss.FunctionToken && strings.EqualFold(t.fnName(), "var"):
			end, rep, err := substituteVar(toks, i, vars)
			if err != nil {
				return false, err
			}
			out.WriteString(rep)
			wrote = true
			i = end
		case t.isOpen():
			depth++
			out.WriteString(t.s)
		case t.isClose():
			if depth == 0 {
				return false, &VarError{Kind: VarParseFailed}
			}
			depth--
			out.WriteString(t.s)
		default:
			out.WriteString(t.s)
		}
	}
	if depth != 0 {
		return false, &VarError{Kind: VarParseFailed}
	}
	return wrote, nil
}

// substituteVar expands the var() call whose function token is at index i.
// It returns the index of the closing parenthesis and the replacement text:
// the bound value if the name resolves, otherwise the fallback.
func substituteVar(toks []token, i int, vars *VarScope) (int, string, error) {
	end, err := matchClose(toks, i)
	if err != nil {
		return 0, "", err
	}

	j := i + 1
	for j < end && toks[j].tt == tcss.WhitespaceToken {
		j++
	}
	if j >= end || (toks[j].tt != tcss.IdentToken && toks[j].tt != tcss.CustomPropertyNameToken) {
		return 0, "", &VarError{Kind: VarParseFailed}
	}
	name := toks[j].s
	j++
	for j < end && toks[j].tt == tcss.WhitespaceToken {
		j++
	}
	hasComma := j < end && toks[j].tt == tcss.CommaToken
	if !hasComma && j < end {
		return 0, "", &VarError{Kind: VarParseFailed}
	}

	if v, ok := vars.lookup(name); ok {
		return end, v, nil
	}
	if !hasComma {
		return 0, "", &VarError{Kind: VarUnresolved}
	}

	j++
	for j < end && toks[j].tt == tcss.WhitespaceToken {
		j++
	}
	var fb strings.Builder
	for k := j; k < end; k++ {
		fb.WriteString(toks[k].s)
	}
	return end, fb.String(), nil
}

// matchClose finds the closing token balancing the open token at i.
func matchClose(toks []token, i int) (int, error) {
	depth := 1
	for k := i + 1; k < len(toks); k++ {
		if toks[k].isOpen() {
			depth++
		} else if toks[k].isClose() {
			depth--
			if depth == 0 {
				return k, nil
			}
		}
	}
	return 0, &VarError{Kind: VarParseFailed}
}
