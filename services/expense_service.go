package services

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/odyssey-travel/odyssey-backend/errors"
	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// ExpenseService manages trip spend entries and the per-trip summary.
type ExpenseService struct {
	expenses store.ExpenseStore
	sharing  *SharingService
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(expenses store.ExpenseStore, sharing *SharingService) *ExpenseService {
	return &ExpenseService{expenses: expenses, sharing: sharing}
}

func validateExpense(e *types.Expense) error {
	if strings.TrimSpace(e.Title) == "" {
		return apperrors.ValidationFailed("Invalid expense", "title is required")
	}
	if e.Amount.IsNegative() {
		return apperrors.ValidationFailed("Invalid expense", "amount must not be negative")
	}
	if len(e.Currency) != 3 {
		return apperrors.ValidationFailed("Invalid expense", "currency must be a 3-letter code")
	}
	if !e.Category.IsValid() {
		return apperrors.ValidationFailed("Invalid expense", "unknown category "+string(e.Category))
	}
	return nil
}

// ListExpenses returns the trip's expenses, newest date first.
func (s *ExpenseService) ListExpenses(ctx context.Context, tripID, userID string) ([]*types.Expense, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListExpenses(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return expenses, nil
}

// GetExpense returns one expense.
func (s *ExpenseService) GetExpense(ctx context.Context, tripID, expenseID, userID string) (*types.Expense, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	return s.requireExpenseInTrip(ctx, tripID, expenseID)
}

// GetExpenseSummary returns totals grouped by currency and category.
// Different currencies are reported side by side, never converted or summed
// together.
func (s *ExpenseService) GetExpenseSummary(ctx context.Context, tripID, userID string) (*types.ExpenseSummary, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionView); err != nil {
		return nil, err
	}
	summary, err := s.expenses.ExpenseSummary(ctx, tripID)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return summary, nil
}

// CreateExpense records a spend entry.
func (s *ExpenseService) CreateExpense(ctx context.Context, tripID, userID string, expense *types.Expense) (*types.Expense, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if expense.Category == "" {
		expense.Category = types.ExpenseCategoryOther
	}
	expense.Currency = strings.ToUpper(expense.Currency)
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	expense.TripID = tripID
	created, err := s.expenses.CreateExpense(ctx, expense)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return created, nil
}

// UpdateExpense applies a partial update.
func (s *ExpenseService) UpdateExpense(ctx context.Context, tripID, expenseID, userID string, update *types.ExpenseUpdate) (*types.Expense, error) {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return nil, err
	}
	if update.Category != nil && !update.Category.IsValid() {
		return nil, apperrors.ValidationFailed("Invalid expense", "unknown category "+string(*update.Category))
	}
	if update.Amount != nil && update.Amount.IsNegative() {
		return nil, apperrors.ValidationFailed("Invalid expense", "amount must not be negative")
	}
	if update.Currency != nil {
		upper := strings.ToUpper(*update.Currency)
		if len(upper) != 3 {
			return nil, apperrors.ValidationFailed("Invalid expense", "currency must be a 3-letter code")
		}
		update.Currency = &upper
	}
	if _, err := s.requireExpenseInTrip(ctx, tripID, expenseID); err != nil {
		return nil, err
	}

	updated, err := s.expenses.UpdateExpense(ctx, expenseID, update)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Expense", expenseID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	return updated, nil
}

// DeleteExpense removes one expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, tripID, expenseID, userID string) error {
	if err := s.sharing.AuthorizeTrip(ctx, tripID, userID, types.SharePermissionEdit); err != nil {
		return err
	}
	if _, err := s.requireExpenseInTrip(ctx, tripID, expenseID); err != nil {
		return err
	}

	if err := s.expenses.DeleteExpense(ctx, expenseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NotFound("Expense", expenseID)
		}
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *ExpenseService) requireExpenseInTrip(ctx context.Context, tripID, expenseID string) (*types.Expense, error) {
	expense, err := s.expenses.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("Expense", expenseID)
		}
		return nil, apperrors.NewDatabaseError(err)
	}
	if expense.TripID != tripID {
		return nil, apperrors.NotFound("Expense", expenseID)
	}
	return expense, nil
}
