package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneydesk/ledger_backend/models"
)

func CreateUser(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusCreated, user)
}

func UpdateUser(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	user, err := models.UpdateUser(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, user)
}

func DeleteUser(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	user, err := models.DeleteUser(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, user)
}

func GetUser(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	user, err := models.GetUser(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, user)
}

func GetUsers(c *gin.Context) {
	users, err := models.GetUsers(c.Request.Context())
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, users)
}
