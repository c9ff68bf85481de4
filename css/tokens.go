package css

import (
	"errors"
	"io"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"
)

// token is one lexed CSS component value token.
type token struct {
	tt tcss.TokenType
	s  string
}

func (t token) isOpen() bool {
	switch t.tt {
	case tcss.FunctionToken, tcss.LeftParenthesisToken, tcss.LeftBracketToken, tcss.LeftBraceToken:
		return true
	}
	return false
}

func (t token) isClose() bool {
	switch t.tt {
	case tcss.RightParenthesisToken, tcss.RightBracketToken, tcss.RightBraceToken:
		return true
	}
	return false
}

// fnName returns the function name without the trailing "(".
func (t token) fnName() string {
	return strings.TrimSuffix(t.s, "(")
}

func (t token) number() (float64, bool) {
	if t.tt != tcss.NumberToken {
		return 0, false
	}
	v, err := strconv.ParseFloat(t.s, 64)
	return v, err == nil
}

func (t token) integer() (int, bool) {
	if t.tt != tcss.NumberToken || strings.ContainsAny(t.s, ".eE") {
		return 0, false
	}
	v, err := strconv.Atoi(t.s)
	return v, err == nil
}

// dimension splits a DimensionToken into value and lowercased unit.
func (t token) dimension() (float64, string, bool) {
	if t.tt != tcss.DimensionToken {
		return 0, "", false
	}
	i := 0
	for i < len(t.s) {
		c := t.s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' {
			i++
			continue
		}
		break
	}
	v, err := strconv.ParseFloat(t.s[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return v, strings.ToLower(t.s[i:]), true
}

// percentage returns the token value as a 0..1 fraction.
func (t token) percentage() (float64, bool) {
	if t.tt != tcss.PercentageToken {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(t.s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

func fromTokens(vals []tcss.Token) []token {
	toks := make([]token, 0, len(vals))
	for _, v := range vals {
		if v.TokenType == tcss.CommentToken {
			continue
		}
		toks = append(toks, token{tt: v.TokenType, s: string(v.Data)})
	}
	return toks
}

// tokenize lexes raw text into tokens, comments dropped, whitespace kept.
func tokenize(s string) ([]token, error) {
	l := tcss.NewLexer(parse.NewInput(strings.NewReader(s)))
	var toks []token
	for {
		tt, data := l.Next()
		if tt == tcss.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return toks, nil
		}
		if tt == tcss.CommentToken {
			continue
		}
		toks = append(toks, token{tt: tt, s: string(data)})
	}
}

// rawText reconstructs source text from tokens, collapsing whitespace runs
// to single spaces and trimming the ends.
func rawText(toks []token) string {
	var sb strings.Builder
	space := false
	for _, t := range toks {
		if t.tt == tcss.WhitespaceToken {
			if sb.Len() > 0 {
				space = true
			}
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteString(t.s)
	}
	return sb.String()
}

// cursor reads a token slice with save/restore and balanced nested blocks.
type cursor struct {
	toks []token
	pos  int
}

func newCursor(toks []token) *cursor {
	return &cursor{toks: toks}
}

func (c *cursor) save() int     { return c.pos }
func (c *cursor) restore(p int) { c.pos = p }

// next returns the next non-whitespace token.
func (c *cursor) next() (token, bool) {
	for c.pos < len(c.toks) {
		t := c.toks[c.pos]
		c.pos++
		if t.tt == tcss.WhitespaceToken {
			continue
		}
		return t, true
	}
	return token{}, false
}

func (c *cursor) peek() (token, bool) {
	p := c.pos
	t, ok := c.next()
	c.pos = p
	return t, ok
}

// done reports whether only whitespace remains.
func (c *cursor) done() bool {
	_, ok := c.peek()
	return !ok
}

func (c *cursor) expectDone() error {
	if t, ok := c.peek(); ok {
		return invalidToken(t)
	}
	return nil
}

// nested returns a sub-cursor over the balanced block opened by the token
// just consumed, advancing past the matching close.
func (c *cursor) nested() (*cursor, error) {
	start := c.pos
	depth := 1
	for c.pos < len(c.toks) {
		t := c.toks[c.pos]
		c.pos++
		if t.isOpen() {
			depth++
		} else if t.isClose() {
			depth--
			if depth == 0 {
				return newCursor(c.toks[start : c.pos-1]), nil
			}
		}
	}
	return nil, errInvalid("unbalanced block")
}

// skipBlock consumes a balanced block without returning it.
func (c *cursor) skipBlock() error {
	_, err := c.nested()
	return err
}

// expectComma consumes a comma token, failing on anything else.
func (c *cursor) expectComma() error {
	t, ok := c.next()
	if !ok {
		return errInvalid("expected comma")
	}
	if t.tt != tcss.CommaToken {
		return invalidToken(t)
	}
	return nil
}

// optionalComma consumes a comma if one is next.
func (c *cursor) optionalComma() {
	if t, ok := c.peek(); ok && t.tt == tcss.CommaToken {
		c.next()
	}
}
