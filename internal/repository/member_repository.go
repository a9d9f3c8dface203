package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MemberRepository struct {
	*base.Repository
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт нового участника
func (r *MemberRepository) Create(ctx context.Context, member *model.Member) error {
	query := `
		INSERT INTO members (telegram_id, username, first_name, last_name, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		member.TelegramID,
		member.Username,
		member.FirstName,
		member.LastName,
		member.IsAdmin,
	).Scan(&member.ID, &member.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create member: %w", err)
	}

	return nil
}

// GetByTelegramID получает участника по Telegram ID
func (r *MemberRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Member, error) {
	query := `
		SELECT id, telegram_id, username, first_name, last_name, is_admin, created_at
		FROM members
		WHERE telegram_id = $1
	`

	member, err := r.scanOne(ctx, query, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get member by telegram id: %w", err)
	}
	return member, nil
}

// GetByID получает участника по ID
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	query := `
		SELECT id, telegram_id, username, first_name, last_name, is_admin, created_at
		FROM members
		WHERE id = $1
	`

	member, err := r.scanOne(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("get member by id: %w", err)
	}
	return member, nil
}

// Update обновляет данные участника
func (r *MemberRepository) Update(ctx context.Context, member *model.Member) error {
	query := `
		UPDATE members
		SET username = $1, first_name = $2, last_name = $3, is_admin = $4
		WHERE id = $5
	`

	affected, err := r.ExecAffected(
		ctx, query,
		member.Username,
		member.FirstName,
		member.LastName,
		member.IsAdmin,
		member.ID,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}

	if affected == 0 {
		return model.ErrMemberNotFound
	}

	return nil
}

func (r *MemberRepository) scanOne(ctx context.Context, query string, arg any) (*model.Member, error) {
	var member model.Member
	err := r.QueryRow(ctx, query, arg).Scan(
		&member.ID,
		&member.TelegramID,
		&member.Username,
		&member.FirstName,
		&member.LastName,
		&member.IsAdmin,
		&member.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Участник не найден
		}
		return nil, err
	}

	return &member, nil
}
