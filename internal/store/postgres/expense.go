package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// ExpenseStore implements store.ExpenseStore using PostgreSQL.
type ExpenseStore struct {
	db DB
}

// NewExpenseStore creates a new ExpenseStore instance.
func NewExpenseStore(db DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

const expenseColumns = `id, trip_id, title, amount, currency, category, date, notes, created_at, updated_at`

func scanExpense(row pgx.Row) (*types.Expense, error) {
	e := &types.Expense{}
	err := row.Scan(
		&e.ID,
		&e.TripID,
		&e.Title,
		&e.Amount,
		&e.Currency,
		&e.Category,
		&e.Date,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListExpenses returns a trip's expenses, newest date first.
func (s *ExpenseStore) ListExpenses(ctx context.Context, tripID string) ([]*types.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = $1
		ORDER BY date DESC, created_at DESC`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*types.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseStore) GetExpense(ctx context.Context, id string) (*types.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	return scanExpense(s.db.QueryRow(ctx, query, id))
}

// CreateExpense inserts an expense.
func (s *ExpenseStore) CreateExpense(ctx context.Context, expense *types.Expense) (*types.Expense, error) {
	query := `
		INSERT INTO expenses (trip_id, title, amount, currency, category, date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + expenseColumns

	return scanExpense(s.db.QueryRow(ctx, query,
		expense.TripID,
		expense.Title,
		expense.Amount,
		expense.Currency,
		expense.Category,
		expense.Date,
		expense.Notes,
	))
}

// UpdateExpense applies the non-nil fields of update.
func (s *ExpenseStore) UpdateExpense(ctx context.Context, id string, update *types.ExpenseUpdate) (*types.Expense, error) {
	query := `
		UPDATE expenses
		SET title = COALESCE($1, title),
			amount = COALESCE($2, amount),
			currency = COALESCE($3, currency),
			category = COALESCE($4, category),
			date = COALESCE($5, date),
			notes = COALESCE($6, notes),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + expenseColumns

	return scanExpense(s.db.QueryRow(ctx, query,
		update.Title,
		update.Amount,
		update.Currency,
		update.Category,
		update.Date,
		update.Notes,
		id,
	))
}

// DeleteExpense removes an expense.
func (s *ExpenseStore) DeleteExpense(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ExpenseSummary aggregates a trip's expenses by currency and category.
// Amounts in different currencies are never summed together.
func (s *ExpenseStore) ExpenseSummary(ctx context.Context, tripID string) (*types.ExpenseSummary, error) {
	query := `
		SELECT currency, category, SUM(amount), COUNT(*)
		FROM expenses
		WHERE trip_id = $1
		GROUP BY currency, category`

	rows, err := s.db.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &types.ExpenseSummary{
		TotalsByCurrency: map[string]decimal.Decimal{},
		ByCategory:       map[types.ExpenseCategory]decimal.Decimal{},
		CountByCategory:  map[types.ExpenseCategory]int{},
	}
	for rows.Next() {
		var currency string
		var category types.ExpenseCategory
		var sum decimal.Decimal
		var count int
		if err := rows.Scan(&currency, &category, &sum, &count); err != nil {
			return nil, err
		}
		summary.TotalsByCurrency[currency] = summary.TotalsByCurrency[currency].Add(sum)
		summary.ByCategory[category] = summary.ByCategory[category].Add(sum)
		summary.CountByCategory[category] += count
		summary.Count += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summary, nil
}
