package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	*base.Repository
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{Repository: base.NewRepository(pool)}
}

// Save сохраняет новое бронирование. Второе бронирование того же слота
// отклоняется уникальным индексом и возвращается как ErrDuplicate.
func (r *ReservationRepository) Save(ctx context.Context, reservation *model.Reservation) error {
	query := `
		INSERT INTO reservations (member_id, date, time_id, theme_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		reservation.MemberID,
		reservation.Schedule.Date,
		reservation.Schedule.TimeID,
		reservation.Schedule.ThemeID,
	).Scan(&reservation.ID, &reservation.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("save reservation: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	query := `SELECT ` + bookingColumns + ` FROM reservations b ` + bookingJoins + ` WHERE b.id = $1`

	br, err := scanBookingRow(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation by id: %w", err)
	}

	return br.reservation(), nil
}

// ExistsBySchedule проверяет, занят ли слот
func (r *ReservationRepository) ExistsBySchedule(ctx context.Context, schedule model.Schedule) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE date = $1 AND time_id = $2 AND theme_id = $3
		)
	`

	exists, err := r.Exists(ctx, query, schedule.Date, schedule.TimeID, schedule.ThemeID)
	if err != nil {
		return false, fmt.Errorf("check reservation by schedule: %w", err)
	}
	return exists, nil
}

// FindAll получает все бронирования
func (r *ReservationRepository) FindAll(ctx context.Context) ([]*model.Reservation, error) {
	query := `SELECT ` + bookingColumns + ` FROM reservations b ` + bookingJoins + `
		ORDER BY b.date, t.start_at, b.theme_id`

	return r.list(ctx, query)
}

// FindByFilter получает бронирования по условиям. Пустые условия не фильтруют,
// границы дат включительны.
func (r *ReservationRepository) FindByFilter(ctx context.Context, filter model.ReservationFilter) ([]*model.Reservation, error) {
	query := `SELECT ` + bookingColumns + ` FROM reservations b ` + bookingJoins + `
		WHERE ($1::bigint IS NULL OR b.member_id = $1)
		  AND ($2::bigint IS NULL OR b.theme_id = $2)
		  AND ($3::date IS NULL OR b.date >= $3)
		  AND ($4::date IS NULL OR b.date <= $4)
		ORDER BY b.date, t.start_at, b.theme_id`

	return r.list(ctx, query,
		filter.MemberID,
		filter.ThemeID,
		dateParam(filter.DateFrom),
		dateParam(filter.DateTo),
	)
}

// FindByMemberID получает все бронирования участника
func (r *ReservationRepository) FindByMemberID(ctx context.Context, memberID int64) ([]*model.Reservation, error) {
	query := `SELECT ` + bookingColumns + ` FROM reservations b ` + bookingJoins + `
		WHERE b.member_id = $1
		ORDER BY b.date, t.start_at`

	return r.list(ctx, query, memberID)
}

// FindBookedTimeIDs возвращает ID занятых времён для даты и темы
func (r *ReservationRepository) FindBookedTimeIDs(ctx context.Context, date time.Time, themeID int64) ([]int64, error) {
	rows, err := r.Query(ctx, `SELECT time_id FROM reservations WHERE date = $1 AND theme_id = $2`, model.DateOnly(date), themeID)
	if err != nil {
		return nil, fmt.Errorf("find booked times: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan booked times: %w", err)
	}
	return ids, nil
}

// DeleteByID удаляет бронирование
func (r *ReservationRepository) DeleteByID(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}

	if affected == 0 {
		return model.ErrReservationNotFound
	}

	return nil
}

func (r *ReservationRepository) list(ctx context.Context, query string, args ...any) ([]*model.Reservation, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*model.Reservation
	for rows.Next() {
		br, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, br.reservation())
	}

	return reservations, rows.Err()
}

func dateParam(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := model.DateOnly(*t)
	return &d
}
