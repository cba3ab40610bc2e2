// Package market holds the reference company dataset and its formatting rules.
package market

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"stocksearch/internal/domain"
	"stocksearch/internal/logging"
	"stocksearch/internal/trie"
)

//go:embed default_companies.yaml
var defaultCompaniesYAML []byte

// ErrUnknownSymbol is returned when a symbol is not in the dataset
var ErrUnknownSymbol = errors.New("stock not found")

type datasetFile struct {
	Companies []domain.Company `yaml:"companies"`
}

// Directory is a read-only, indexed company dataset
type Directory struct {
	companies map[string]domain.Company
	index     *trie.Trie
}

// Load reads a dataset file; an empty path selects the built-in dataset
func Load(path string, maxResults int, logger zerolog.Logger) (*Directory, error) {
	if path == "" {
		return Parse(defaultCompaniesYAML, maxResults, logger)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(data, maxResults, logger)
}

// Parse decodes a YAML dataset and indexes it. Entries with invalid symbols
// are skipped with a warning; the first entry for a duplicated symbol wins.
func Parse(data []byte, maxResults int, logger zerolog.Logger) (*Directory, error) {
	logger = logging.Component(logger, "market")

	var file datasetFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	d := &Directory{
		companies: make(map[string]domain.Company, len(file.Companies)),
		index:     trie.New(maxResults),
	}
	for _, c := range file.Companies {
		if _, dup := d.companies[c.Symbol]; dup {
			logger.Warn().Str("symbol", c.Symbol).Msg("duplicate symbol in dataset, keeping first")
			continue
		}
		if err := d.index.Insert(c.Symbol, int64(math.Round(c.MarketCap))); err != nil {
			logger.Warn().Err(err).Msg("skipping dataset entry")
			continue
		}
		d.companies[c.Symbol] = c
	}

	logger.Debug().Int("companies", len(d.companies)).Msg("dataset loaded")
	return d, nil
}

// Len returns the number of indexed companies
func (d *Directory) Len() int {
	return len(d.companies)
}

// Search returns ranked prefix matches with their market caps
func (d *Directory) Search(prefix string) ([]trie.Match, error) {
	return d.index.Search(prefix)
}

// Suggest returns ranked symbols for a prefix
func (d *Directory) Suggest(prefix string) ([]string, error) {
	return d.index.Symbols(prefix)
}

// Lookup finds a company by symbol, case-insensitively
func (d *Directory) Lookup(symbol string) (domain.Company, error) {
	c, ok := d.companies[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return domain.Company{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return c, nil
}
