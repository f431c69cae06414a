package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneydesk/ledger_backend/models"
)

func CreateCategory(c *gin.Context) {
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	category, err := models.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusCreated, category)
}

func UpdateCategory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	category, err := models.UpdateCategory(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, category)
}

func DeleteCategory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	category, err := models.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, category)
}

func GetCategory(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	category, err := models.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, category)
}

func GetCategories(c *gin.Context) {
	categories, err := models.GetCategories(c.Request.Context())
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, categories)
}
