package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneydesk/ledger_backend/models"
	"github.com/shopspring/decimal"
)

func CreateExchangeRate(c *gin.Context) {
	var input models.NewExchangeRate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	rate, err := models.CreateExchangeRate(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusCreated, rate)
}

func DeleteExchangeRate(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	rate, err := models.DeleteExchangeRate(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, rate)
}

func GetExchangeRates(c *gin.Context) {
	var fromCurrency, toCurrency *string
	var source *models.RateSource

	if v := c.Query("from_currency"); v != "" {
		fromCurrency = &v
	}
	if v := c.Query("to_currency"); v != "" {
		toCurrency = &v
	}
	if v := c.Query("source"); v != "" {
		parsed, err := models.ParseRateSource(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		source = &parsed
	}

	rates, err := models.GetExchangeRates(c.Request.Context(), fromCurrency, toCurrency, source)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, rates)
}

// GetLatestRates lists the newest observation per target currency for
// a base currency (?base=USD, default USD).
func GetLatestRates(c *gin.Context) {
	base := c.DefaultQuery("base", "USD")
	rates, err := models.LatestRatesForBase(c.Request.Context(), base)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, rates)
}

// ConvertCurrency answers ?amount=&from=&to= using the latest-rate
// table: direct rate, inverted reverse rate, or a two-hop path
// through a hub currency.
func ConvertCurrency(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid amount")
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		respondError(c, http.StatusBadRequest, "from and to are required")
		return
	}

	result, err := models.ConvertCurrency(c.Request.Context(), amount, from, to)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, result)
}
