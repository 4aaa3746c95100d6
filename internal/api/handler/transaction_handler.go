package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finbook/ledger-system/internal/core/domain"
	"github.com/finbook/ledger-system/internal/core/ports"
)

// TransactionHandler handles HTTP requests for ledger entries and balances.
type TransactionHandler struct {
	ledger    ports.LedgerService
	analytics ports.AnalyticsService
}

func NewTransactionHandler(ledger ports.LedgerService, analytics ports.AnalyticsService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, analytics: analytics}
}

// AddIncome handles POST /v1/users/:id/incomes.
//
// @Summary      Record an income entry
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "User ID"
// @Param        body  body      amountRequest  true  "Amount in smallest currency unit"
// @Success      201   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/incomes [post]
func (h *TransactionHandler) AddIncome(c echo.Context) error {
	return h.add(c, h.ledger.AddIncome)
}

// AddExpense handles POST /v1/users/:id/expenses.
//
// @Summary      Record an expense entry
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id    path      int            true  "User ID"
// @Param        body  body      amountRequest  true  "Amount in smallest currency unit"
// @Success      201   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/expenses [post]
func (h *TransactionHandler) AddExpense(c echo.Context) error {
	return h.add(c, h.ledger.AddExpense)
}

func (h *TransactionHandler) add(c echo.Context, create func(context.Context, int64, int64) (*domain.Transaction, error)) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req amountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tx, err := create(c.Request().Context(), userID, req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

// RemoveIncome handles DELETE /v1/users/:id/incomes/:txid. The entry is
// removed only when it exists, belongs to the user, and is an income entry.
//
// @Summary      Remove an income entry
// @Tags         transactions
// @Produce      json
// @Param        id    path  int  true  "User ID"
// @Param        txid  path  int  true  "Transaction ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/incomes/{txid} [delete]
func (h *TransactionHandler) RemoveIncome(c echo.Context) error {
	return h.remove(c, h.ledger.RemoveIncome)
}

// RemoveExpense handles DELETE /v1/users/:id/expenses/:txid. The entry is
// removed only when it exists, belongs to the user, and is an expense entry.
//
// @Summary      Remove an expense entry
// @Tags         transactions
// @Produce      json
// @Param        id    path  int  true  "User ID"
// @Param        txid  path  int  true  "Transaction ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/expenses/{txid} [delete]
func (h *TransactionHandler) RemoveExpense(c echo.Context) error {
	return h.remove(c, h.ledger.RemoveExpense)
}

func (h *TransactionHandler) remove(c echo.Context, remove func(context.Context, int64, int64) (bool, error)) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	txID, err := pathID(c, "txid")
	if err != nil {
		return err
	}

	removed, err := remove(c.Request().Context(), userID, txID)
	if err != nil {
		return err
	}
	if !removed {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "transaction not found"})
	}

	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/transactions/:txid. Lookup is by transaction id alone;
// the owning user is part of the response.
//
// @Summary      Get a transaction by id
// @Tags         transactions
// @Produce      json
// @Param        txid  path      int  true  "Transaction ID"
// @Success      200   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/transactions/{txid} [get]
func (h *TransactionHandler) Get(c echo.Context) error {
	txID, err := pathID(c, "txid")
	if err != nil {
		return err
	}

	tx, err := h.ledger.GetTransaction(c.Request().Context(), txID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// List handles GET /v1/users/:id/transactions.
//
// @Summary      List a user's transactions
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  listTransactionsResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/users/{id}/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	transactions, err := h.ledger.ListTransactions(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	data := make([]transactionResponse, len(transactions))
	for i, tx := range transactions {
		data[i] = toTransactionResponse(tx)
	}

	return c.JSON(http.StatusOK, listTransactionsResponse{Data: data})
}

// Balance handles GET /v1/users/:id/balance.
//
// @Summary      Get a user's net balance
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  balanceResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/users/{id}/balance [get]
func (h *TransactionHandler) Balance(c echo.Context) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	balance, err := h.analytics.NetBalance(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, balanceResponse{UserID: userID, Balance: balance})
}
