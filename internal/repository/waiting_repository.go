package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WaitingRepository struct {
	*base.Repository
}

func NewWaitingRepository(pool *pgxpool.Pool) *WaitingRepository {
	return &WaitingRepository{Repository: base.NewRepository(pool)}
}

// Save добавляет заявку в лист ожидания. Повторная заявка участника на тот же
// слот отклоняется уникальным индексом и возвращается как ErrDuplicate.
func (r *WaitingRepository) Save(ctx context.Context, waiting *model.Waiting) error {
	query := `
		INSERT INTO waitings (member_id, date, time_id, theme_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		waiting.MemberID,
		waiting.Schedule.Date,
		waiting.Schedule.TimeID,
		waiting.Schedule.ThemeID,
	).Scan(&waiting.ID, &waiting.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("save waiting: %w", err)
	}

	return nil
}

// GetByID получает заявку по ID
func (r *WaitingRepository) GetByID(ctx context.Context, id int64) (*model.Waiting, error) {
	query := `SELECT ` + bookingColumns + ` FROM waitings b ` + bookingJoins + ` WHERE b.id = $1`

	br, err := scanBookingRow(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get waiting by id: %w", err)
	}

	return br.waiting(), nil
}

// ExistsByID проверяет наличие заявки
func (r *WaitingRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	exists, err := r.Exists(ctx, `SELECT EXISTS (SELECT 1 FROM waitings WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check waiting by id: %w", err)
	}
	return exists, nil
}

// ExistsByMemberAndSchedule проверяет, стоит ли участник в очереди на слот
func (r *WaitingRepository) ExistsByMemberAndSchedule(ctx context.Context, memberID int64, schedule model.Schedule) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM waitings
			WHERE member_id = $1 AND date = $2 AND time_id = $3 AND theme_id = $4
		)
	`

	exists, err := r.Exists(ctx, query, memberID, schedule.Date, schedule.TimeID, schedule.ThemeID)
	if err != nil {
		return false, fmt.Errorf("check waiting by member and schedule: %w", err)
	}
	return exists, nil
}

// FindAll получает все заявки
func (r *WaitingRepository) FindAll(ctx context.Context) ([]*model.Waiting, error) {
	query := `SELECT ` + bookingColumns + ` FROM waitings b ` + bookingJoins + `
		ORDER BY b.date, t.start_at, b.theme_id, ` + fifoOrder

	return r.list(ctx, query)
}

// FindBySchedule получает очередь слота, первая заявка - самая ранняя
func (r *WaitingRepository) FindBySchedule(ctx context.Context, schedule model.Schedule) ([]*model.Waiting, error) {
	query := `SELECT ` + bookingColumns + ` FROM waitings b ` + bookingJoins + `
		WHERE b.date = $1 AND b.time_id = $2 AND b.theme_id = $3
		ORDER BY ` + fifoOrder

	return r.list(ctx, query, schedule.Date, schedule.TimeID, schedule.ThemeID)
}

// FindFirstBySchedule получает самую раннюю заявку слота, nil если очередь пуста
func (r *WaitingRepository) FindFirstBySchedule(ctx context.Context, schedule model.Schedule) (*model.Waiting, error) {
	query := `SELECT ` + bookingColumns + ` FROM waitings b ` + bookingJoins + `
		WHERE b.date = $1 AND b.time_id = $2 AND b.theme_id = $3
		ORDER BY ` + fifoOrder + `
		LIMIT 1`

	br, err := scanBookingRow(r.QueryRow(ctx, query, schedule.Date, schedule.TimeID, schedule.ThemeID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find first waiting by schedule: %w", err)
	}

	return br.waiting(), nil
}

// FindWithRankByMemberID получает заявки участника с позицией в очереди
func (r *WaitingRepository) FindWithRankByMemberID(ctx context.Context, memberID int64) ([]*model.WaitingWithRank, error) {
	query := `SELECT ` + bookingColumns + `,
		(
			SELECT COUNT(*) FROM waitings w2
			WHERE w2.date = b.date AND w2.time_id = b.time_id AND w2.theme_id = b.theme_id
			  AND (w2.created_at, w2.id) < (b.created_at, b.id)
		) AS rank
		FROM waitings b ` + bookingJoins + `
		WHERE b.member_id = $1
		ORDER BY b.date, t.start_at`

	rows, err := r.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("find waitings with rank: %w", err)
	}
	defer rows.Close()

	var result []*model.WaitingWithRank
	for rows.Next() {
		var rank int64
		br, err := scanBookingRow(rows, &rank)
		if err != nil {
			return nil, fmt.Errorf("scan waiting with rank: %w", err)
		}
		result = append(result, &model.WaitingWithRank{Waiting: br.waiting(), Rank: rank})
	}

	return result, rows.Err()
}

// FindOrphanedSchedules находит слоты, начинающиеся не раньше from, у которых
// есть очередь, но нет бронирования
func (r *WaitingRepository) FindOrphanedSchedules(ctx context.Context, from time.Time) ([]model.Schedule, error) {
	query := `
		SELECT DISTINCT w.date, w.time_id, w.theme_id
		FROM waitings w
		JOIN reservation_times t ON t.id = w.time_id
		WHERE (w.date > $1 OR (w.date = $1 AND t.start_at >= $2))
		  AND NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.date = w.date AND r.time_id = w.time_id AND r.theme_id = w.theme_id
		  )
		ORDER BY w.date, w.time_id, w.theme_id
	`

	rows, err := r.Query(ctx, query, model.DateOnly(from), toPgTime(clockOf(from)))
	if err != nil {
		return nil, fmt.Errorf("find orphaned schedules: %w", err)
	}
	defer rows.Close()

	var schedules []model.Schedule
	for rows.Next() {
		var s model.Schedule
		if err := rows.Scan(&s.Date, &s.TimeID, &s.ThemeID); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		s.Date = model.DateOnly(s.Date)
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

// DeleteExpired удаляет заявки на слоты, которые уже начались
func (r *WaitingRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM waitings w
		USING reservation_times t
		WHERE t.id = w.time_id
		  AND (w.date < $1 OR (w.date = $1 AND t.start_at < $2))
	`

	affected, err := r.ExecAffected(ctx, query, model.DateOnly(now), toPgTime(clockOf(now)))
	if err != nil {
		return 0, fmt.Errorf("delete expired waitings: %w", err)
	}
	return affected, nil
}

// DeleteByID удаляет заявку
func (r *WaitingRepository) DeleteByID(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM waitings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete waiting: %w", err)
	}

	if affected == 0 {
		return model.ErrWaitingNotFound
	}

	return nil
}

func (r *WaitingRepository) list(ctx context.Context, query string, args ...any) ([]*model.Waiting, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query waitings: %w", err)
	}
	defer rows.Close()

	var waitings []*model.Waiting
	for rows.Next() {
		br, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan waiting: %w", err)
		}
		waitings = append(waitings, br.waiting())
	}

	return waitings, rows.Err()
}

// clockOf возвращает смещение момента от полуночи в его часовом поясе
func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
