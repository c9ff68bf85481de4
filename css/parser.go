package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses stylesheet text into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new stylesheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses stylesheet text. The name identifies the source in logs.
// Malformed rules and declarations are logged and skipped; only a broken
// token stream fails the whole parse.
func (p *Parser) Parse(data []byte, name string) (*Stylesheet, error) {
	p.log.Debug("parsing stylesheet", zap.String("source", name), zap.Int("bytes", len(data)))

	input := parse.NewInput(bytes.NewReader(data))
	parser := tcss.NewParser(input, false)

	var rules []Rule
	var pendingChains [][]Selector
	groupBad := false

	for {
		gt, _, gdata := parser.Next()

		switch gt {
		case tcss.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				p.log.Debug("css parse error", zap.String("source", name), zap.Error(err))
				return nil, err
			}
			sheet := &Stylesheet{Name: name, Rules: rules}
			sheet.finish()
			return sheet, nil

		case tcss.QualifiedRuleGrammar:
			// One comma-separated prelude chunk before the last one.
			chains, err := p.selectorChains(gdata, parser.Values())
			if err != nil {
				p.log.Debug("rejecting selector", zap.String("source", name), zap.Error(err))
				groupBad = true
				continue
			}
			pendingChains = append(pendingChains, chains...)

		case tcss.BeginRulesetGrammar:
			chains, err := p.selectorChains(gdata, parser.Values())
			if err != nil {
				p.log.Debug("rejecting selector", zap.String("source", name), zap.Error(err))
				groupBad = true
			} else {
				pendingChains = append(pendingChains, chains...)
			}

			props, vars := p.declarations(parser, name)

			// A bad chunk anywhere in the prelude rejects the whole group.
			if !groupBad {
				for _, chain := range pendingChains {
					spec, pseudos := chainSpecificity(chain)
					rules = append(rules, Rule{
						Selectors:   chain,
						Properties:  props,
						Variables:   vars,
						Specificity: spec,
						HasPseudos:  pseudos,
					})
				}
			}
			pendingChains = nil
			groupBad = false

		case tcss.BeginAtRuleGrammar:
			p.log.Debug("skipping at-rule block", zap.String("rule", string(gdata)))
			p.skipAtRuleBlock(parser)

		case tcss.AtRuleGrammar:
			p.log.Debug("skipping at-rule", zap.String("rule", string(gdata)))
		}
	}
}

// selectorChains splits a rule prelude into comma-separated chains.
func (p *Parser) selectorChains(data []byte, values []tcss.Token) ([][]Selector, error) {
	toks := fromTokens(values)
	if len(data) > 0 {
		lead, err := tokenize(string(data))
		if err != nil {
			return nil, err
		}
		toks = append(lead, toks...)
	}

	var chains [][]Selector
	start := 0
	for i := 0; i <= len(toks); i++ {
		if i < len(toks) && toks[i].tt != tcss.CommaToken {
			continue
		}
		chunk := toks[start:i]
		start = i + 1
		if isBlankTokens(chunk) {
			continue
		}
		chain, err := parseSelectorChain(chunk)
		if err != nil {
			return nil, err
		}
		chains = append(chains, chain)
	}
	if len(chains) == 0 {
		return nil, errInvalid("empty selector")
	}
	return chains, nil
}

func isBlankTokens(toks []token) bool {
	for _, t := range toks {
		if t.tt != tcss.WhitespaceToken {
			return false
		}
	}
	return true
}

// declarations parses the declaration block until the ruleset ends.
// Custom properties are captured raw; everything else goes through the
// per-property grammar table.
func (p *Parser) declarations(parser *tcss.Parser, source string) ([]Property, []Variable) {
	var props []Property
	var vars []Variable

	for {
		gt, _, data := parser.Next()

		switch gt {
		case tcss.ErrorGrammar, tcss.EndRulesetGrammar:
			return props, vars

		case tcss.DeclarationGrammar:
			name := strings.ToLower(string(data))
			fn, ok := grammars[name]
			if !ok {
				p.log.Debug("unknown property", zap.String("source", source), zap.String("property", name))
				continue
			}
			toks := fromTokens(parser.Values())
			parsed, err := fn(newCursor(toks), SourceLoc{})
			if err != nil {
				if errors.Is(err, ErrUnsupported) {
					p.log.Debug("unsupported css value",
						zap.String("source", source), zap.String("property", name), zap.Error(err))
				} else {
					p.log.Debug("failed to parse css property",
						zap.String("source", source), zap.String("property", name), zap.Error(err))
				}
				continue
			}
			props = append(props, parsed...)

		case tcss.CustomPropertyGrammar:
			raw := strings.TrimSpace(rawText(fromTokens(parser.Values())))
			vars = append(vars, Variable{Name: string(data), Raw: raw})
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an at-rule block.
func (p *Parser) skipAtRuleBlock(parser *tcss.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case tcss.ErrorGrammar:
			return
		case tcss.BeginAtRuleGrammar, tcss.BeginRulesetGrammar:
			depth++
		case tcss.EndAtRuleGrammar, tcss.EndRulesetGrammar:
			depth--
		}
	}
}
