package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/moneydesk/ledger_backend/models"
)

func CreateTransaction(c *gin.Context) {
	var input models.NewTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	transaction, err := models.CreateTransaction(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusCreated, transaction)
}

func UpdateTransaction(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	transaction, err := models.UpdateTransaction(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, transaction)
}

func DeleteTransaction(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	transaction, err := models.DeleteTransaction(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, transaction)
}

func GetTransaction(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	transaction, err := models.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, transaction)
}

func GetTransactions(c *gin.Context) {
	filter := models.TransactionFilter{}

	if v := c.Query("account_id"); v != "" {
		accountId, ok := parsePositiveInt(v)
		if !ok {
			respondError(c, http.StatusBadRequest, "invalid account_id")
			return
		}
		filter.AccountId = &accountId
	}
	if v := c.Query("transaction_type"); v != "" {
		transactionType, err := models.ParseTransactionType(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		filter.TransactionType = &transactionType
	}
	if v := c.Query("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if v := c.Query("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	transactions, err := models.GetTransactions(c.Request.Context(), &filter)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, transactions)
}
