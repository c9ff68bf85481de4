package css

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Stylesheet is a parsed set of rules, sorted by ascending specificity.
// Equal specificities keep their source order, so later rules win ties.
// A Stylesheet is immutable after parsing and safe for concurrent use.
type Stylesheet struct {
	Name  string
	Rules []Rule

	// Inverted index from the rightmost concrete selector atom to rule
	// indexes. Rules whose rightmost atom is not a class land in wildcard.
	index    map[ClassID][]int
	wildcard []int
}

// finish sorts the rules and builds the inverted index.
func (s *Stylesheet) finish() {
	sort.SliceStable(s.Rules, func(i, j int) bool {
		return s.Rules[i].Specificity < s.Rules[j].Specificity
	})

	s.index = make(map[ClassID][]int)
	for idx := range s.Rules {
		indexed := false
		sels := s.Rules[idx].Selectors
		for i := len(sels) - 1; i >= 0; i-- {
			switch sels[i].Kind {
			case SelHover, SelFocus, SelActive, SelDisabled, SelEnabled:
				// Pseudos never narrow the candidate set.
				continue
			case SelWildcard, SelChild, SelDescendant:
				// A combinator before any concrete key means the rightmost
				// simple selector matches any node.
				s.wildcard = append(s.wildcard, idx)
			case SelClass:
				c := sels[i].Class
				s.index[c] = append(s.index[c], idx)
			}
			indexed = true
			break
		}
		if !indexed {
			s.wildcard = append(s.wildcard, idx)
		}
	}
}

// MatchingRules returns the rules matching n in ascending specificity
// order. The inverted index keeps the candidate set small.
func (s *Stylesheet) MatchingRules(n Node) []*Rule {
	candidates := append([]int(nil), s.wildcard...)
	for _, c := range n.Classes() {
		candidates = append(candidates, s.index[c]...)
	}
	sort.Ints(candidates)

	var out []*Rule
	prev := -1
	for _, idx := range candidates {
		if idx == prev {
			continue
		}
		prev = idx
		if r := &s.Rules[idx]; r.Matches(n) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Stylesheet) String() string {
	var sb strings.Builder
	for i := range s.Rules {
		sb.WriteString(s.Rules[i].String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteTo writes the sheet in its serialized form.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// ParseString parses stylesheet text without logging.
func ParseString(text string) (*Stylesheet, error) {
	return NewParser(nil).Parse([]byte(text), "")
}

// Loader reads a stylesheet from disk and republishes it on change. The
// current sheet is swapped atomically, so readers never block.
type Loader struct {
	path   string
	parser *Parser
	log    *zap.Logger

	modified time.Time
	current  atomic.Pointer[Stylesheet]
}

// NewLoader creates a loader for path. Call Load before Current.
func NewLoader(path string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		path:   path,
		parser: NewParser(log),
		log:    log.Named("css-loader"),
	}
}

// Load reads and parses the file, publishing the result.
func (l *Loader) Load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("reading stylesheet %s: %w", l.path, err)
	}
	fi, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("reading stylesheet %s: %w", l.path, err)
	}
	sheet, err := l.parser.Parse(data, l.path)
	if err != nil {
		return fmt.Errorf("parsing stylesheet %s: %w", l.path, err)
	}
	l.modified = fi.ModTime()
	l.current.Store(sheet)
	l.log.Debug("stylesheet loaded", zap.String("path", l.path), zap.Int("rules", len(sheet.Rules)))
	return nil
}

// Reload re-reads the file if it changed on disk. It reports whether a new
// sheet was published.
func (l *Loader) Reload() (bool, error) {
	fi, err := os.Stat(l.path)
	if err != nil {
		return false, fmt.Errorf("checking stylesheet %s: %w", l.path, err)
	}
	if !fi.ModTime().After(l.modified) {
		return false, nil
	}
	if err := l.Load(); err != nil {
		return false, err
	}
	return true, nil
}

// Current returns the last published sheet, or nil before the first Load.
func (l *Loader) Current() *Stylesheet {
	return l.current.Load()
}
