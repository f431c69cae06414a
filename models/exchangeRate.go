package models

import (
	"context"
	"errors"
	"time"

	"github.com/moneydesk/ledger_backend/config"
	"github.com/moneydesk/ledger_backend/utils"
	"github.com/shopspring/decimal"
)

// ExchangeRate is one directional observation: 1 unit of FromCurrency
// = Rate units of ToCurrency. Currencies are stored as scraped, either
// a bare code or "Display Name (CODE)"; normalization happens at read
// time via ParseCurrencyCode. Rows are append-only; no symmetric row
// is written for the reverse direction.
type ExchangeRate struct {
	ID           int             `gorm:"primary_key" json:"id"`
	FromCurrency string          `gorm:"index;size:100;not null" json:"from_currency" binding:"required"`
	ToCurrency   string          `gorm:"index;size:100;not null" json:"to_currency" binding:"required"`
	Rate         decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"rate"`
	RateDate     time.Time       `gorm:"index;not null" json:"rate_date"`
	Source       RateSource      `gorm:"type:enum('api', 'bank', 'manual', 'scraper');default:'manual'" json:"source"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExchangeRate struct {
	FromCurrency string          `json:"from_currency" binding:"required"`
	ToCurrency   string          `json:"to_currency" binding:"required"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
	RateDate     *time.Time      `json:"rate_date"`
	Source       RateSource      `json:"source"`
}

const rateTableCacheKey = "exchange_rates:all"
const rateTableCacheTTL = 5 * time.Minute

func (input *NewExchangeRate) validate() error {
	if input.Rate.Cmp(decimal.Zero) <= 0 {
		return errors.New("exchange rate must be positive")
	}
	if _, err := ParseCurrencyCode(input.FromCurrency); err != nil {
		return err
	}
	if _, err := ParseCurrencyCode(input.ToCurrency); err != nil {
		return err
	}
	if input.Source != "" {
		if _, err := ParseRateSource(string(input.Source)); err != nil {
			return err
		}
	}
	return nil
}

// CreateExchangeRate appends an observation. A row already stored for
// the same (from, to, rate_date) is returned as-is instead of being
// duplicated, so re-running the scraper for a date is a no-op.
func CreateExchangeRate(ctx context.Context, input *NewExchangeRate) (*ExchangeRate, error) {
	db := config.GetDB()

	if err := input.validate(); err != nil {
		return nil, err
	}

	rateDate := time.Now().UTC()
	if input.RateDate != nil {
		rateDate = *input.RateDate
	}
	source := input.Source
	if source == "" {
		source = RateSourceManual
	}

	var existing ExchangeRate
	err := db.WithContext(ctx).
		Where("from_currency = ? AND to_currency = ? AND rate_date = ?",
			input.FromCurrency, input.ToCurrency, rateDate).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}

	rate := ExchangeRate{
		FromCurrency: input.FromCurrency,
		ToCurrency:   input.ToCurrency,
		Rate:         input.Rate,
		RateDate:     rateDate,
		Source:       source,
	}
	if err := db.WithContext(ctx).Create(&rate).Error; err != nil {
		return nil, err
	}
	config.RemoveRedisKey(rateTableCacheKey)
	return &rate, nil
}

func DeleteExchangeRate(ctx context.Context, id int) (*ExchangeRate, error) {
	db := config.GetDB()

	var result ExchangeRate
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	config.RemoveRedisKey(rateTableCacheKey)
	return &result, nil
}

func GetExchangeRate(ctx context.Context, id int) (*ExchangeRate, error) {
	db := config.GetDB()

	var result ExchangeRate
	if err := db.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetExchangeRates(ctx context.Context, fromCurrency *string, toCurrency *string, source *RateSource) ([]*ExchangeRate, error) {
	db := config.GetDB()
	var results []*ExchangeRate

	dbCtx := db.WithContext(ctx)
	if fromCurrency != nil && *fromCurrency != "" {
		dbCtx = dbCtx.Where("from_currency = ?", *fromCurrency)
	}
	if toCurrency != nil && *toCurrency != "" {
		dbCtx = dbCtx.Where("to_currency = ?", *toCurrency)
	}
	if source != nil && *source != "" {
		dbCtx = dbCtx.Where("source = ?", *source)
	}
	err := dbCtx.Order("rate_date desc, from_currency, to_currency").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// LoadRateTable builds the deduplicated latest-rate working set,
// serving it from Redis when the cache is warm.
func LoadRateTable(ctx context.Context) (*RateTable, error) {
	var rows []*ExchangeRate

	found, err := config.GetRedisObject(rateTableCacheKey, &rows)
	if err != nil {
		config.LogError(config.GetLogger(), "models", "LoadRateTable", "redis get", nil, err)
		found = false
	}
	if !found {
		db := config.GetDB()
		if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
			return nil, err
		}
		if err := config.SetRedisObject(rateTableCacheKey, rows, rateTableCacheTTL); err != nil {
			config.LogError(config.GetLogger(), "models", "LoadRateTable", "redis set", nil, err)
		}
	}

	return NewRateTable(rows), nil
}

// ConvertCurrency converts amount between two currency strings using
// the latest-rate table. Returns utils.ErrorNoRatePath when no direct,
// inverse or hub path exists.
func ConvertCurrency(ctx context.Context, amount decimal.Decimal, fromCurrency string, toCurrency string) (*ConversionResult, error) {
	table, err := LoadRateTable(ctx)
	if err != nil {
		return nil, err
	}
	return table.Convert(amount, fromCurrency, toCurrency)
}

// LatestRatesForBase lists the newest observation per target currency
// for a base currency.
func LatestRatesForBase(ctx context.Context, base string) ([]RateEntry, error) {
	code, err := ParseCurrencyCode(base)
	if err != nil {
		return nil, err
	}
	table, err := LoadRateTable(ctx)
	if err != nil {
		return nil, err
	}
	return table.RatesForBase(code), nil
}
