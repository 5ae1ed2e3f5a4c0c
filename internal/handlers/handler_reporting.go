package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// RegisterReportingRoutes registers the read-only report routes.
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/transactions/by-type/:type", h.transactionsByType)
		reports.GET("/transactions/by-reference/:reference", h.transactionsByReference)
		reports.GET("/transactions/in-range", h.transactionsInRange)
		reports.GET("/accounts/:accountID/activity", h.accountActivity)
	}
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Balances of all active accounts grouped by type, with the debit/credit check
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 500 {object} handlers.ErrorResponse "Failed to generate trial balance"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	tb, err := h.reportingService.TrialBalance(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}
	if !tb.Balanced {
		logger.Warn("Trial balance does not balance", slog.String("difference", tb.Difference.String()))
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// transactionsByType godoc
// @Summary Transactions of one type
// @Tags reports
// @Produce  json
// @Param   type path string true "Transaction type"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid transaction type"
// @Router /reports/transactions/by-type/{type} [get]
func (h *reportingHandler) transactionsByType(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	txns, err := h.reportingService.TransactionsByType(c.Request.Context(), domain.TransactionType(c.Param("type")))
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(&domain.TransactionPage{Transactions: txns}))
}

// transactionsByReference godoc
// @Summary Transactions carrying a reference
// @Tags reports
// @Produce  json
// @Param   reference path string true "Reference"
// @Success 200 {object} dto.ListTransactionsResponse
// @Router /reports/transactions/by-reference/{reference} [get]
func (h *reportingHandler) transactionsByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	txns, err := h.reportingService.TransactionsByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(&domain.TransactionPage{Transactions: txns}))
}

// transactionsInRange godoc
// @Summary Transactions within a date range
// @Tags reports
// @Produce  json
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid range"
// @Router /reports/transactions/in-range [get]
func (h *reportingHandler) transactionsInRange(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	verr := &apperrors.ValidationError{}
	from := parseDateParam(verr, "from", c.Query("from"))
	to := parseDateParam(verr, "to", c.Query("to"))
	if from == nil {
		verr.Add("from", "Start date is required")
	}
	if to == nil {
		verr.Add("to", "End date is required")
	}
	if err := verr.OrNil(); err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	txns, err := h.reportingService.TransactionsInRange(c.Request.Context(), *from, *to)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(&domain.TransactionPage{Transactions: txns}))
}

// accountActivity godoc
// @Summary Transactions touching an account
// @Tags reports
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 404 {object} handlers.ErrorResponse "Account not found"
// @Router /reports/accounts/{accountID}/activity [get]
func (h *reportingHandler) accountActivity(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c).With(slog.String("account_id", c.Param("accountID")))

	txns, err := h.reportingService.AccountActivity(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list account activity")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(&domain.TransactionPage{Transactions: txns}))
}
