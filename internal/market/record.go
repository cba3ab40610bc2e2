package market

import (
	"slices"
	"strings"

	"stocksearch/internal/domain"
)

// Summary is the formatted metric block of a company, in display order
type Summary struct {
	ProfitMargin   string `json:"Profit Margin"`
	PayoutRatio    string `json:"Payout Ratio"`
	DividendYield  string `json:"Dividend Yield"`
	MA200          string `json:"200 Day MA"`
	MA50           string `json:"50 Day MA"`
	TotalCash      string `json:"Total Cash"`
	TotalDebt      string `json:"Total Debt"`
	EarningsGrowth string `json:"Earnings Growth"`
	RevenueGrowth  string `json:"Revenue Growth"`
	TrailingPE     string `json:"Trailing PE"`
	ForwardPE      string `json:"Forward PE"`
	TrailingEPS    string `json:"Trailing EPS"`
	ForwardEPS     string `json:"Forward EPS"`
	EBITDA         string `json:"EBITDA"`
	FreeCashFlow   string `json:"Free Cash Flow"`
	MarketCap      string `json:"Market Cap"`
}

// CompanyInfo is the flat legacy company view: the summary plus a name
type CompanyInfo struct {
	Summary
	Name string `json:"Name"`
}

// PriceSeries is the price history in columns, oldest first
type PriceSeries struct {
	Dates  []string  `json:"dates"`
	Prices []float64 `json:"prices"`
	Volume []int64   `json:"volume"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Open   []float64 `json:"open"`
}

// Detail is the record served for one symbol
type Detail struct {
	Symbol     string                 `json:"symbol"`
	Name       string                 `json:"name"`
	Price      string                 `json:"price"`
	Metrics    Summary                `json:"metrics"`
	Dividends  []domain.Dividend      `json:"dividends"`
	Financials []domain.FinancialYear `json:"financials"`
	Prices     PriceSeries            `json:"prices"`
}

// Summarize formats a company's metrics
func Summarize(c domain.Company) Summary {
	m := c.Metrics
	marketCap := c.MarketCap
	return Summary{
		ProfitMargin:   Percentage(m.ProfitMargin),
		PayoutRatio:    Percentage(m.PayoutRatio),
		DividendYield:  Percentage(m.DividendYield),
		MA200:          Dollars(m.MA200),
		MA50:           Dollars(m.MA50),
		TotalCash:      Currency(m.TotalCash),
		TotalDebt:      Currency(m.TotalDebt),
		EarningsGrowth: Percentage(m.EarningsGrowth),
		RevenueGrowth:  Percentage(m.RevenueGrowth),
		TrailingPE:     Decimal(m.TrailingPE),
		ForwardPE:      Decimal(m.ForwardPE),
		TrailingEPS:    Decimal(m.TrailingEPS),
		ForwardEPS:     Decimal(m.ForwardEPS),
		EBITDA:         Currency(m.EBITDA),
		FreeCashFlow:   Currency(m.FreeCashFlow),
		MarketCap:      Currency(&marketCap),
	}
}

// Info builds the flat company view
func Info(c domain.Company) CompanyInfo {
	return CompanyInfo{Summary: Summarize(c), Name: c.Name}
}

// NewDetail builds the detail view of a company
func NewDetail(c domain.Company) Detail {
	dividends := c.Dividends
	if dividends == nil {
		dividends = []domain.Dividend{}
	}
	return Detail{
		Symbol:     c.Symbol,
		Name:       c.Name,
		Price:      Dollars(c.Price),
		Metrics:    Summarize(c),
		Dividends:  dividends,
		Financials: Financials(c),
		Prices:     Prices(c),
	}
}

// Financials returns the yearly figures ordered by year
func Financials(c domain.Company) []domain.FinancialYear {
	years := slices.Clone(c.Financials)
	if years == nil {
		return []domain.FinancialYear{}
	}
	slices.SortStableFunc(years, func(a, b domain.FinancialYear) int { return a.Year - b.Year })
	return years
}

// FinancialRows flattens the yearly figures into
// [year, revenue, ebitda, fcf, sbc, net_income, eps, cash, debt, shares_outstanding] rows
func FinancialRows(c domain.Company) [][]any {
	years := Financials(c)
	rows := make([][]any, 0, len(years))
	for _, y := range years {
		rows = append(rows, []any{
			y.Year, y.Revenue, y.EBITDA, y.FreeCashFlow, y.StockComp,
			y.NetIncome, y.EPS, y.Cash, y.Debt, y.SharesOutstanding,
		})
	}
	return rows
}

// Prices returns the price history as columns ordered by date
func Prices(c domain.Company) PriceSeries {
	points := slices.Clone(c.Prices)
	slices.SortStableFunc(points, func(a, b domain.PricePoint) int { return strings.Compare(a.Date, b.Date) })

	series := PriceSeries{
		Dates:  make([]string, 0, len(points)),
		Prices: make([]float64, 0, len(points)),
		Volume: make([]int64, 0, len(points)),
		High:   make([]float64, 0, len(points)),
		Low:    make([]float64, 0, len(points)),
		Open:   make([]float64, 0, len(points)),
	}
	for _, p := range points {
		series.Dates = append(series.Dates, p.Date)
		series.Prices = append(series.Prices, p.Close)
		series.Volume = append(series.Volume, p.Volume)
		series.High = append(series.High, p.High)
		series.Low = append(series.Low, p.Low)
		series.Open = append(series.Open, p.Open)
	}
	return series
}
