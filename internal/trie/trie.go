// Package trie indexes ticker symbols for prefix search ranked by market cap.
package trie

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultMaxPrefixResults caps the descendants returned after an exact match
const DefaultMaxPrefixResults = 4

// ErrInvalidSymbol is returned for symbols or prefixes that are not upper-case letters
var ErrInvalidSymbol = errors.New("invalid ticker symbol")

// Match is one search hit
type Match struct {
	Symbol    string
	MarketCap int64
}

type node struct {
	children  map[rune]*node
	marketCap int64
	terminal  bool
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Trie is safe for concurrent use
type Trie struct {
	mu         sync.RWMutex
	root       *node
	size       int
	maxResults int
}

// New creates an empty trie returning at most maxResults prefix matches
// after the exact match. Non-positive values select the default.
func New(maxResults int) *Trie {
	if maxResults <= 0 {
		maxResults = DefaultMaxPrefixResults
	}
	return &Trie{root: newNode(), maxResults: maxResults}
}

// ValidSymbol reports whether s is a non-empty run of A-Z
func ValidSymbol(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Insert adds or replaces a symbol
func (t *Trie) Insert(symbol string, marketCap int64) error {
	if !ValidSymbol(symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	if marketCap < 0 {
		return fmt.Errorf("%w: negative market cap for %s", ErrInvalidSymbol, symbol)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	n := t.root
	for _, r := range symbol {
		child, ok := n.children[r]
		if !ok {
			child = newNode()
			n.children[r] = child
		}
		n = child
	}
	if !n.terminal {
		t.size++
	}
	n.terminal = true
	n.marketCap = marketCap
	return nil
}

// Len returns the number of symbols stored
func (t *Trie) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Search returns the exact match for prefix, if stored, followed by the
// largest descendants by market cap. The prefix is upper-cased first; an
// empty prefix yields no matches.
func (t *Trie) Search(prefix string) ([]Match, error) {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, nil
	}
	if !ValidSymbol(prefix) {
		return nil, fmt.Errorf("%w: prefix %q", ErrInvalidSymbol, prefix)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	n := t.root
	for _, r := range prefix {
		child, ok := n.children[r]
		if !ok {
			return nil, nil
		}
		n = child
	}

	var matches []Match
	if n.terminal {
		matches = append(matches, Match{Symbol: prefix, MarketCap: n.marketCap})
	}

	var descendants []Match
	for r, child := range n.children {
		collect(child, prefix+string(r), &descendants)
	}

	sort.Slice(descendants, func(i, j int) bool {
		if descendants[i].MarketCap != descendants[j].MarketCap {
			return descendants[i].MarketCap > descendants[j].MarketCap
		}
		return descendants[i].Symbol < descendants[j].Symbol
	})
	if len(descendants) > t.maxResults {
		descendants = descendants[:t.maxResults]
	}

	return append(matches, descendants...), nil
}

// Symbols returns the symbols of Search's matches
func (t *Trie) Symbols(prefix string) ([]string, error) {
	matches, err := t.Search(prefix)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, len(matches))
	for i, m := range matches {
		symbols[i] = m.Symbol
	}
	return symbols, nil
}

func collect(n *node, symbol string, out *[]Match) {
	if n.terminal {
		*out = append(*out, Match{Symbol: symbol, MarketCap: n.marketCap})
	}
	for r, child := range n.children {
		collect(child, symbol+string(r), out)
	}
}
