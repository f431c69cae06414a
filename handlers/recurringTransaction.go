package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moneydesk/ledger_backend/models"
	"github.com/moneydesk/ledger_backend/workflow"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("ledger-backend")

func CreateRecurringTransaction(c *gin.Context) {
	var input models.NewRecurringTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	recurring, err := models.CreateRecurringTransaction(c.Request.Context(), &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusCreated, recurring)
}

func UpdateRecurringTransaction(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewRecurringTransaction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindingError(c, err)
		return
	}
	recurring, err := models.UpdateRecurringTransaction(c.Request.Context(), id, &input)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, recurring)
}

func DeleteRecurringTransaction(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	recurring, err := models.DeleteRecurringTransaction(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, recurring)
}

func GetRecurringTransaction(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	recurring, err := models.GetRecurringTransaction(c.Request.Context(), id)
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, recurring)
}

func GetRecurringTransactions(c *gin.Context) {
	recurring, err := models.GetRecurringTransactions(c.Request.Context())
	if err != nil {
		respondModelError(c, err)
		return
	}
	respondOk(c, http.StatusOK, recurring)
}

// ProcessRecurringTransactions runs one due-processing pass. Intended
// to be hit by a scheduler (cron); safe to call concurrently.
func ProcessRecurringTransactions(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ProcessDueRecurring")
	defer span.End()

	report, err := workflow.ProcessDueRecurring(ctx, time.Now().UTC())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	span.SetAttributes(
		attribute.Int("recurring.due", report.Due),
		attribute.Int("recurring.processed", report.Processed),
		attribute.Int("recurring.failed", len(report.Failures)),
	)
	respondOk(c, http.StatusOK, report)
}
