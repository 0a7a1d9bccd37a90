package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-travel/odyssey-backend/internal/store"
	"github.com/odyssey-travel/odyssey-backend/types"
)

// TemplateStore implements store.TemplateStore using PostgreSQL.
type TemplateStore struct {
	db DB
}

// NewTemplateStore creates a new TemplateStore instance.
func NewTemplateStore(db DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, user_id, name, description, structure, is_public,
		category, use_count, created_at, updated_at`

func scanTemplate(row pgx.Row) (*types.TripTemplate, error) {
	tpl := &types.TripTemplate{}
	err := row.Scan(
		&tpl.ID,
		&tpl.UserID,
		&tpl.Name,
		&tpl.Description,
		&tpl.Structure,
		&tpl.IsPublic,
		&tpl.Category,
		&tpl.UseCount,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return tpl, nil
}

func scanTemplates(rows pgx.Rows) ([]*types.TripTemplate, error) {
	defer rows.Close()
	var templates []*types.TripTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateTemplate inserts a template.
func (s *TemplateStore) CreateTemplate(ctx context.Context, tpl *types.TripTemplate) (*types.TripTemplate, error) {
	query := `
		INSERT INTO trip_templates (user_id, name, description, structure, is_public, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + templateColumns

	return scanTemplate(s.db.QueryRow(ctx, query,
		tpl.UserID,
		tpl.Name,
		tpl.Description,
		tpl.Structure,
		tpl.IsPublic,
		tpl.Category,
	))
}

// GetTemplate retrieves a template by ID. Visibility (owner or public) is
// enforced by the service layer.
func (s *TemplateStore) GetTemplate(ctx context.Context, id string) (*types.TripTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM trip_templates WHERE id = $1`
	return scanTemplate(s.db.QueryRow(ctx, query, id))
}

// ListTemplatesByUser returns a user's templates, newest first.
func (s *TemplateStore) ListTemplatesByUser(ctx context.Context, userID string) ([]*types.TripTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM trip_templates
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanTemplates(rows)
}

// ListPublicTemplates returns public templates ordered by popularity, with an
// optional category filter.
func (s *TemplateStore) ListPublicTemplates(ctx context.Context, category string, limit, offset int) ([]*types.TripTemplate, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*) FROM trip_templates
		WHERE is_public AND ($1 = '' OR category = $1)`
	if err := s.db.QueryRow(ctx, countQuery, category).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + templateColumns + `
		FROM trip_templates
		WHERE is_public AND ($1 = '' OR category = $1)
		ORDER BY use_count DESC, created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, category, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	templates, err := scanTemplates(rows)
	if err != nil {
		return nil, 0, err
	}
	return templates, total, nil
}

// ListTemplateCategories returns the distinct categories of public templates.
func (s *TemplateStore) ListTemplateCategories(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT category FROM trip_templates
		WHERE is_public AND category <> ''
		ORDER BY category`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateTemplate applies the non-nil fields of update.
func (s *TemplateStore) UpdateTemplate(ctx context.Context, id string, update *types.TemplateUpdate) (*types.TripTemplate, error) {
	query := `
		UPDATE trip_templates
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			is_public = COALESCE($3, is_public),
			category = COALESCE($4, category),
			updated_at = NOW()
		WHERE id = $5
		RETURNING ` + templateColumns

	return scanTemplate(s.db.QueryRow(ctx, query,
		update.Name,
		update.Description,
		update.IsPublic,
		update.Category,
		id,
	))
}

// DeleteTemplate removes a template.
func (s *TemplateStore) DeleteTemplate(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM trip_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// IncrementUseCount bumps the popularity counter after an instantiation.
func (s *TemplateStore) IncrementUseCount(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx,
		`UPDATE trip_templates SET use_count = use_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
