package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/services"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// ExpenseHandler handles spend entries nested under a trip.
type ExpenseHandler struct {
	expenses *services.ExpenseService
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(expenses *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// List handles GET /v1/trips/:id/expenses.
func (h *ExpenseHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	expenses, err := h.expenses.ListExpenses(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(expenses))
}

// Summary handles GET /v1/trips/:id/expenses/summary.
func (h *ExpenseHandler) Summary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.expenses.GetExpenseSummary(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(summary))
}

// Get handles GET /v1/trips/:id/expenses/:expenseId.
func (h *ExpenseHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	expense, err := h.expenses.GetExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(expense))
}

// Create handles POST /v1/trips/:id/expenses.
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var expense types.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	created, err := h.expenses.CreateExpense(c.Request.Context(), c.Param("id"), userID, &expense)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.Success(created))
}

// Update handles PATCH /v1/trips/:id/expenses/:expenseId.
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var update types.ExpenseUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		_ = c.Error(apperrors.ValidationFailed("Invalid request body", err.Error()))
		return
	}

	expense, err := h.expenses.UpdateExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId"), userID, &update)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.Success(expense))
}

// Delete handles DELETE /v1/trips/:id/expenses/:expenseId.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.expenses.DeleteExpense(c.Request.Context(), c.Param("id"), c.Param("expenseId"), userID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
