package models

import (
	"sort"
	"time"

	"github.com/moneydesk/ledger_backend/utils"
	"github.com/shopspring/decimal"
)

// HubCurrencies are tried in order when a pair has no direct or
// inverse rate. USD first: scraped tables are densest around it.
var HubCurrencies = []CurrencyCode{"USD", "EUR", "CAD", "GBP"}

// RateEntry is one deduplicated, normalized rate observation:
// 1 unit of From = Rate units of To.
type RateEntry struct {
	From     CurrencyCode    `json:"from"`
	To       CurrencyCode    `json:"to"`
	Rate     decimal.Decimal `json:"rate"`
	RateDate time.Time       `json:"rate_date"`
	Source   RateSource      `json:"source"`
}

// ConversionResult reports a successful conversion and the path taken.
type ConversionResult struct {
	FromCurrency    CurrencyCode    `json:"from_currency"`
	ToCurrency      CurrencyCode    `json:"to_currency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	Rate            decimal.Decimal `json:"rate"`
	Path            string          `json:"path"`
}

type pairKey struct {
	from CurrencyCode
	to   CurrencyCode
}

// RateTable is an in-memory working set of latest rates, keyed by
// directional pair. Building it from raw observations performs the
// "smart loading" dedup: per (from,to) only the newest observation
// survives, so stale duplicate scrapes never shadow fresh data.
type RateTable struct {
	entries map[pairKey]RateEntry
}

func NewRateTable(rows []*ExchangeRate) *RateTable {
	t := &RateTable{entries: make(map[pairKey]RateEntry, len(rows))}
	for _, row := range rows {
		if row == nil {
			continue
		}
		from, err := ParseCurrencyCode(row.FromCurrency)
		if err != nil {
			continue
		}
		to, err := ParseCurrencyCode(row.ToCurrency)
		if err != nil {
			continue
		}
		entry := RateEntry{
			From:     from,
			To:       to,
			Rate:     row.Rate,
			RateDate: row.RateDate,
			Source:   row.Source,
		}
		key := pairKey{from: from, to: to}
		if existing, ok := t.entries[key]; ok && !entry.RateDate.After(existing.RateDate) {
			continue
		}
		t.entries[key] = entry
	}
	return t
}

func (t *RateTable) Len() int {
	return len(t.entries)
}

// Lookup returns the latest observation for the directional pair.
func (t *RateTable) Lookup(from, to CurrencyCode) (RateEntry, bool) {
	entry, ok := t.entries[pairKey{from: from, to: to}]
	return entry, ok
}

// RatesForBase returns the latest entries whose from-currency is base,
// sorted by target code.
func (t *RateTable) RatesForBase(base CurrencyCode) []RateEntry {
	var out []RateEntry
	for key, entry := range t.entries {
		if key.from == base {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].To < out[j].To })
	return out
}

// factor resolves a single leg: direct rate first, then the inverted
// reverse rate. A zero reverse rate cannot be inverted and is skipped.
func (t *RateTable) factor(from, to CurrencyCode) (decimal.Decimal, bool) {
	if entry, ok := t.entries[pairKey{from: from, to: to}]; ok {
		return entry.Rate, true
	}
	if entry, ok := t.entries[pairKey{from: to, to: from}]; ok && !entry.Rate.IsZero() {
		return decimal.NewFromInt(1).Div(entry.Rate), true
	}
	return decimal.Decimal{}, false
}

// Convert resolves from -> to with the ordered fallback: identity,
// direct, inverse, then triangulation through each hub currency. The
// two triangulation factors compose without intermediate rounding.
func (t *RateTable) Convert(amount decimal.Decimal, fromRaw, toRaw string) (*ConversionResult, error) {
	from, err := ParseCurrencyCode(fromRaw)
	if err != nil {
		return nil, err
	}
	to, err := ParseCurrencyCode(toRaw)
	if err != nil {
		return nil, err
	}

	result := &ConversionResult{
		FromCurrency: from,
		ToCurrency:   to,
		Amount:       amount,
	}

	if from == to {
		result.ConvertedAmount = amount
		result.Rate = decimal.NewFromInt(1)
		result.Path = "identity"
		return result, nil
	}

	if entry, ok := t.Lookup(from, to); ok {
		result.ConvertedAmount = amount.Mul(entry.Rate)
		result.Rate = entry.Rate
		result.Path = "direct"
		return result, nil
	}

	if entry, ok := t.Lookup(to, from); ok && !entry.Rate.IsZero() {
		rate := decimal.NewFromInt(1).Div(entry.Rate)
		result.ConvertedAmount = amount.Div(entry.Rate)
		result.Rate = rate
		result.Path = "inverse"
		return result, nil
	}

	for _, hub := range HubCurrencies {
		if hub == from || hub == to {
			continue
		}
		toHub, ok := t.factor(from, hub)
		if !ok {
			continue
		}
		fromHub, ok := t.factor(hub, to)
		if !ok {
			continue
		}
		rate := toHub.Mul(fromHub)
		result.ConvertedAmount = amount.Mul(rate)
		result.Rate = rate
		result.Path = "via " + hub.String()
		return result, nil
	}

	return nil, utils.ErrorNoRatePath
}
