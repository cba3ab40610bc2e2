package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// SymbolField is the only field of a detail record the client relies on
const SymbolField = "symbol"

// DetailRecord is the resolved payload for one security.
// Everything except the symbol field is passed through untouched.
type DetailRecord struct {
	raw json.RawMessage
}

// ParseDetailRecord validates a raw backend payload and wraps it
func ParseDetailRecord(data []byte) (DetailRecord, error) {
	if !gjson.ValidBytes(data) {
		return DetailRecord{}, fmt.Errorf("detail record is not valid JSON")
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return DetailRecord{}, fmt.Errorf("detail record is not a JSON object")
	}
	symbol := parsed.Get(SymbolField)
	if symbol.Type != gjson.String || strings.TrimSpace(symbol.String()) == "" {
		return DetailRecord{}, fmt.Errorf("detail record has no %q field", SymbolField)
	}

	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return DetailRecord{raw: raw}, nil
}

// IsZero reports whether the record was never populated
func (r DetailRecord) IsZero() bool {
	return len(r.raw) == 0
}

// Symbol returns the identifier the record was resolved for
func (r DetailRecord) Symbol() string {
	return r.Get(SymbolField).String()
}

// Get looks up a gjson path in the record
func (r DetailRecord) Get(path string) gjson.Result {
	if r.IsZero() {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.raw, path)
}

// Raw returns a copy of the underlying JSON
func (r DetailRecord) Raw() []byte {
	out := make([]byte, len(r.raw))
	copy(out, r.raw)
	return out
}

// Fields returns the top-level keys other than the symbol in payload order
func (r DetailRecord) Fields() []Field {
	if r.IsZero() {
		return nil
	}
	var fields []Field
	gjson.ParseBytes(r.raw).ForEach(func(key, value gjson.Result) bool {
		if key.String() == SymbolField {
			return true
		}
		fields = append(fields, Field{Name: key.String(), Value: value})
		return true
	})
	return fields
}

// Field is one top-level entry of a detail record
type Field struct {
	Name  string
	Value gjson.Result
}

// Company is one row of the reference dataset served by the backend
type Company struct {
	Symbol     string          `yaml:"symbol" json:"symbol"`
	Name       string          `yaml:"name" json:"name"`
	Price      *float64        `yaml:"price,omitempty" json:"price,omitempty"`
	MarketCap  float64         `yaml:"market_cap" json:"market_cap"`
	Metrics    Metrics         `yaml:"metrics" json:"-"`
	Dividends  []Dividend      `yaml:"dividends,omitempty" json:"dividends,omitempty"`
	Financials []FinancialYear `yaml:"financials,omitempty" json:"financials,omitempty"`
	Prices     []PricePoint    `yaml:"prices,omitempty" json:"prices,omitempty"`
}

// Metrics holds the optional ratios reported for a company
type Metrics struct {
	ProfitMargin   *float64 `yaml:"profit_margin,omitempty"`
	PayoutRatio    *float64 `yaml:"payout_ratio,omitempty"`
	DividendYield  *float64 `yaml:"dividend_yield,omitempty"`
	MA200          *float64 `yaml:"ma_200,omitempty"`
	MA50           *float64 `yaml:"ma_50,omitempty"`
	TotalCash      *float64 `yaml:"total_cash,omitempty"`
	TotalDebt      *float64 `yaml:"total_debt,omitempty"`
	EarningsGrowth *float64 `yaml:"earnings_growth,omitempty"`
	RevenueGrowth  *float64 `yaml:"revenue_growth,omitempty"`
	TrailingPE     *float64 `yaml:"trailing_pe,omitempty"`
	ForwardPE      *float64 `yaml:"forward_pe,omitempty"`
	TrailingEPS    *float64 `yaml:"trailing_eps,omitempty"`
	ForwardEPS     *float64 `yaml:"forward_eps,omitempty"`
	EBITDA         *float64 `yaml:"ebitda,omitempty"`
	FreeCashFlow   *float64 `yaml:"free_cash_flow,omitempty"`
}

// Dividend is a single dividend payment
type Dividend struct {
	Date   string  `yaml:"date" json:"date"`
	Amount float64 `yaml:"amount" json:"amount"`
}

// FinancialYear is one fiscal year of reported figures. Missing figures stay nil.
type FinancialYear struct {
	Year              int      `yaml:"year" json:"year"`
	Revenue           *float64 `yaml:"revenue,omitempty" json:"revenue"`
	EBITDA            *float64 `yaml:"ebitda,omitempty" json:"ebitda"`
	FreeCashFlow      *float64 `yaml:"fcf,omitempty" json:"fcf"`
	StockComp         *float64 `yaml:"sbc,omitempty" json:"sbc"`
	NetIncome         *float64 `yaml:"net_income,omitempty" json:"net_income"`
	EPS               *float64 `yaml:"eps,omitempty" json:"eps"`
	Cash              *float64 `yaml:"cash,omitempty" json:"cash"`
	Debt              *float64 `yaml:"debt,omitempty" json:"debt"`
	SharesOutstanding *float64 `yaml:"shares_outstanding,omitempty" json:"shares_outstanding"`
}

// PricePoint is one bar of the price history; Date is "YYYY-MM" or "YYYY-MM-DD"
type PricePoint struct {
	Date   string  `yaml:"date" json:"date"`
	Open   float64 `yaml:"open" json:"open"`
	High   float64 `yaml:"high" json:"high"`
	Low    float64 `yaml:"low" json:"low"`
	Close  float64 `yaml:"close" json:"close"`
	Volume int64   `yaml:"volume" json:"volume"`
}
