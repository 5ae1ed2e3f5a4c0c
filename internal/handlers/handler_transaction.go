package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	idempotencyKeyHeader      = "Idempotency-Key"
	idempotencyReplayedHeader = "Idempotent-Replayed"

	completeAttempts = 3
)

// completeRetryDelay is the pause before the second Complete attempt; later attempts wait longer.
var completeRetryDelay = 25 * time.Millisecond

type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	idempotency   portsrepo.IdempotencyStore
}

// RegisterTransactionRoutes registers routes for posting and reading transactions.
// idempotency may be nil, in which case the Idempotency-Key header is ignored.
func RegisterTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, idempotency portsrepo.IdempotencyStore) {
	h := &transactionHandler{ledgerService: ledgerService, idempotency: idempotency}

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.postTransaction)
		txns.GET("", h.listTransactions)
		txns.GET("/:transactionID", h.getTransaction)
		txns.DELETE("/:transactionID", h.deleteTransaction)
		txns.POST("/:transactionID/reverse", h.reverseTransaction)
	}
}

// postTransaction godoc
// @Summary Post a transaction
// @Description Validates a balanced set of entries and posts it atomically. Repeating a request with the same Idempotency-Key returns the original transaction.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   Idempotency-Key header string false "Client supplied key for safe retries"
// @Param   transaction body dto.PostTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Success 200 {object} dto.TransactionResponse "Replayed response for a known Idempotency-Key"
// @Failure 400 {object} handlers.ErrorResponse "Invalid input format or validation error"
// @Failure 409 {object} handlers.ErrorResponse "A request with this Idempotency-Key is in progress"
// @Failure 422 {object} handlers.ErrorResponse "Invalid entry, inactive account or imbalanced transaction"
// @Failure 500 {object} handlers.ErrorResponse "Posting failed and was rolled back"
// @Router /transactions [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	ctx := c.Request.Context()

	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	key := c.GetHeader(idempotencyKeyHeader)
	if key != "" && h.idempotency != nil {
		logger = logger.With(slog.String("idempotency_key", key))
		existingID, reserved, err := h.idempotency.Reserve(ctx, key)
		if err != nil {
			respondError(c, logger, apperrors.NewStorageError("reserve idempotency key", err), "Failed to post transaction")
			return
		}
		if !reserved {
			h.replay(c, logger, existingID)
			return
		}
	} else {
		key = ""
	}

	txn, err := h.ledgerService.PostTransaction(ctx, req)
	if err != nil {
		if key != "" {
			// The key must be freed even if the client has gone away.
			if relErr := h.idempotency.Release(context.WithoutCancel(ctx), key); relErr != nil {
				logger.Warn("Failed to release idempotency key", slog.String("error", relErr.Error()))
			}
		}
		respondError(c, logger, err, "Failed to post transaction")
		return
	}

	if key != "" {
		h.completeKey(context.WithoutCancel(ctx), logger, key, txn.TransactionID)
	}

	logger.Info("Transaction posted", slog.String("transaction_id", txn.TransactionID), slog.String("reference", txn.Reference))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// completeKey records the committed transaction against key. A key left pending answers
// retries with 409 until its TTL expires, so Complete is retried a few times first.
func (h *transactionHandler) completeKey(ctx context.Context, logger *slog.Logger, key, transactionID string) {
	var err error
	for attempt := 1; attempt <= completeAttempts; attempt++ {
		if err = h.idempotency.Complete(ctx, key, transactionID); err == nil {
			return
		}
		logger.Warn("Failed to record idempotency key",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if attempt < completeAttempts {
			time.Sleep(completeRetryDelay * time.Duration(attempt))
		}
	}
	logger.Error("Idempotency key left pending after posting",
		slog.String("transaction_id", transactionID),
		slog.String("error", err.Error()))
}

func (h *transactionHandler) replay(c *gin.Context, logger *slog.Logger, transactionID string) {
	if transactionID == "" {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "A request with this Idempotency-Key is already in progress"})
		return
	}
	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to load transaction")
		return
	}
	logger.Info("Replaying idempotent request", slog.String("transaction_id", transactionID))
	c.Header(idempotencyReplayedHeader, "true")
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} handlers.ErrorResponse "Transaction not found"
// @Failure 500 {object} handlers.ErrorResponse "Failed to retrieve transaction"
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c).With(slog.String("transaction_id", c.Param("transactionID")))

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), c.Param("transactionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions newest first with token-based pagination
// @Tags transactions
// @Produce  json
// @Param   type query string false "Transaction type"
// @Param   from query string false "Earliest date (YYYY-MM-DD)"
// @Param   to query string false "Latest date (YYYY-MM-DD)"
// @Param   reference query string false "Exact reference"
// @Param   accountId query string false "Only transactions touching this account"
// @Param   limit query int false "Page size (default 50, max 200)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid filter"
// @Failure 500 {object} handlers.ErrorResponse "Failed to list transactions"
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}

	filter, err := toTransactionFilter(params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	page, err := h.ledgerService.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(page))
}

func toTransactionFilter(params dto.ListTransactionsParams) (domain.TransactionFilter, error) {
	verr := &apperrors.ValidationError{}
	filter := domain.TransactionFilter{
		TransactionType: domain.TransactionType(params.TransactionType),
		Reference:       params.Reference,
		AccountID:       params.AccountID,
		Limit:           params.Limit,
	}
	if params.NextToken != nil {
		filter.NextToken = *params.NextToken
	}
	filter.From = parseDateParam(verr, "from", params.From)
	filter.To = parseDateParam(verr, "to", params.To)
	return filter, verr.OrNil()
}

func parseDateParam(verr *apperrors.ValidationError, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		verr.Add(field, "Date must use the YYYY-MM-DD format")
		return nil
	}
	return &t
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Reverses the transaction's balance effects and removes it atomically
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} handlers.ErrorResponse "Transaction not found"
// @Failure 500 {object} handlers.ErrorResponse "Delete failed and was rolled back"
// @Router /transactions/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	transactionID := c.Param("transactionID")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("transaction_id", transactionID))

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted")
	c.Status(http.StatusNoContent)
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Posts a new transaction with every entry's side swapped. The original is kept.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   reversal body dto.ReverseTransactionRequest false "Reversal date"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid date"
// @Failure 404 {object} handlers.ErrorResponse "Transaction not found"
// @Failure 422 {object} handlers.ErrorResponse "An account is inactive"
// @Failure 500 {object} handlers.ErrorResponse "Reversal failed and was rolled back"
// @Router /transactions/{transactionID}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	transactionID := c.Param("transactionID")
	logger := middleware.GetLoggerFromContext(c).With(slog.String("transaction_id", transactionID))

	var req dto.ReverseTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, logger, err)
			return
		}
	}

	reversal, err := h.ledgerService.ReverseTransaction(c.Request.Context(), transactionID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse transaction")
		return
	}

	logger.Info("Transaction reversed", slog.String("reversal_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}
