package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ThemeRepository struct {
	*base.Repository
}

func NewThemeRepository(pool *pgxpool.Pool) *ThemeRepository {
	return &ThemeRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новую тему
func (r *ThemeRepository) Create(ctx context.Context, theme *model.Theme) error {
	query := `
		INSERT INTO themes (name, description, thumbnail)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, theme.Name, theme.Description, theme.Thumbnail).
		Scan(&theme.ID, &theme.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create theme: %w", err)
	}

	return nil
}

// GetByID получает тему по ID
func (r *ThemeRepository) GetByID(ctx context.Context, id int64) (*model.Theme, error) {
	query := `
		SELECT id, name, description, thumbnail, created_at
		FROM themes
		WHERE id = $1
	`

	var theme model.Theme
	err := r.QueryRow(ctx, query, id).Scan(
		&theme.ID,
		&theme.Name,
		&theme.Description,
		&theme.Thumbnail,
		&theme.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get theme by id: %w", err)
	}

	return &theme, nil
}

// FindAll получает все темы
func (r *ThemeRepository) FindAll(ctx context.Context) ([]*model.Theme, error) {
	query := `
		SELECT id, name, description, thumbnail, created_at
		FROM themes
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find themes: %w", err)
	}
	defer rows.Close()

	var themes []*model.Theme
	for rows.Next() {
		var theme model.Theme
		if err := rows.Scan(&theme.ID, &theme.Name, &theme.Description, &theme.Thumbnail, &theme.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		themes = append(themes, &theme)
	}

	return themes, rows.Err()
}

// DeleteByID удаляет тему
func (r *ThemeRepository) DeleteByID(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM themes WHERE id = $1`, id)
	if err != nil {
		if base.IsForeignKeyViolation(err) {
			return ErrReferenced
		}
		return fmt.Errorf("delete theme: %w", err)
	}

	if affected == 0 {
		return model.ErrThemeNotFound
	}

	return nil
}
