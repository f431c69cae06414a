package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneydesk/ledger_backend/models"
)

func CreateAccount(c *gin.Context) {
	var input models.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	account, err := models.CreateAccount(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusCreated, account)
}

func UpdateAccount(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	account, err := models.UpdateAccount(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, account)
}

func DeleteAccount(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	account, err := models.DeleteAccount(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, account)
}

func GetAccount(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	account, err := models.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, account)
}

func GetAccounts(c *gin.Context) {
	accounts, err := models.GetAccounts(c.Request.Context())
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, accounts)
}
