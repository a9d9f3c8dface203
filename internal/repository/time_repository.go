package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TimeRepository struct {
	*base.Repository
}

func NewTimeRepository(pool *pgxpool.Pool) *TimeRepository {
	return &TimeRepository{Repository: base.NewRepository(pool)}
}

// Create добавляет время сеанса
func (r *TimeRepository) Create(ctx context.Context, rt *model.ReservationTime) error {
	query := `
		INSERT INTO reservation_times (start_at)
		VALUES ($1)
		RETURNING id
	`

	if err := r.QueryRow(ctx, query, toPgTime(rt.StartAt)).Scan(&rt.ID); err != nil {
		if base.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create reservation time: %w", err)
	}

	return nil
}

// GetByID получает время сеанса по ID
func (r *TimeRepository) GetByID(ctx context.Context, id int64) (*model.ReservationTime, error) {
	var (
		rt      model.ReservationTime
		startAt pgtype.Time
	)
	err := r.QueryRow(ctx, `SELECT id, start_at FROM reservation_times WHERE id = $1`, id).
		Scan(&rt.ID, &startAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation time by id: %w", err)
	}

	rt.StartAt = fromPgTime(startAt)
	return &rt, nil
}

// FindAll получает все времена сеансов по возрастанию
func (r *TimeRepository) FindAll(ctx context.Context) ([]*model.ReservationTime, error) {
	rows, err := r.Query(ctx, `SELECT id, start_at FROM reservation_times ORDER BY start_at`)
	if err != nil {
		return nil, fmt.Errorf("find reservation times: %w", err)
	}
	defer rows.Close()

	var times []*model.ReservationTime
	for rows.Next() {
		var (
			rt      model.ReservationTime
			startAt pgtype.Time
		)
		if err := rows.Scan(&rt.ID, &startAt); err != nil {
			return nil, fmt.Errorf("scan reservation time: %w", err)
		}
		rt.StartAt = fromPgTime(startAt)
		times = append(times, &rt)
	}

	return times, rows.Err()
}

// DeleteByID удаляет время сеанса
func (r *TimeRepository) DeleteByID(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM reservation_times WHERE id = $1`, id)
	if err != nil {
		if base.IsForeignKeyViolation(err) {
			return ErrReferenced
		}
		return fmt.Errorf("delete reservation time: %w", err)
	}

	if affected == 0 {
		return model.ErrTimeNotFound
	}

	return nil
}
