package repository

import (
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Общие колонки бронирования/ожидания вместе с участником, темой и временем.
// Алиас основной таблицы - b.
const bookingColumns = `
	b.id, b.member_id, b.date, b.time_id, b.theme_id, b.created_at,
	m.telegram_id, m.username, m.first_name, m.last_name, m.is_admin, m.created_at,
	th.name, th.description, th.thumbnail, th.created_at,
	t.start_at
`

const bookingJoins = `
	JOIN members m ON m.id = b.member_id
	JOIN themes th ON th.id = b.theme_id
	JOIN reservation_times t ON t.id = b.time_id
`

// FIFO порядок внутри слота, id разрешает совпадения created_at
const fifoOrder = `b.created_at ASC, b.id ASC`

type bookingRow struct {
	id        int64
	schedule  model.Schedule
	createdAt time.Time
	member    model.Member
	theme     model.Theme
	rt        model.ReservationTime
}

func scanBookingRow(row pgx.Row, extra ...any) (*bookingRow, error) {
	var (
		br      bookingRow
		startAt pgtype.Time
	)
	dest := []any{
		&br.id, &br.member.ID, &br.schedule.Date, &br.schedule.TimeID, &br.schedule.ThemeID, &br.createdAt,
		&br.member.TelegramID, &br.member.Username, &br.member.FirstName, &br.member.LastName, &br.member.IsAdmin, &br.member.CreatedAt,
		&br.theme.Name, &br.theme.Description, &br.theme.Thumbnail, &br.theme.CreatedAt,
		&startAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	br.schedule.Date = model.DateOnly(br.schedule.Date)
	br.theme.ID = br.schedule.ThemeID
	br.rt.ID = br.schedule.TimeID
	br.rt.StartAt = fromPgTime(startAt)
	return &br, nil
}

func (br *bookingRow) reservation() *model.Reservation {
	return &model.Reservation{
		ID:        br.id,
		MemberID:  br.member.ID,
		Schedule:  br.schedule,
		CreatedAt: br.createdAt,
		Member:    &br.member,
		Theme:     &br.theme,
		Time:      &br.rt,
	}
}

func (br *bookingRow) waiting() *model.Waiting {
	return &model.Waiting{
		ID:        br.id,
		MemberID:  br.member.ID,
		Schedule:  br.schedule,
		CreatedAt: br.createdAt,
		Member:    &br.member,
		Theme:     &br.theme,
		Time:      &br.rt,
	}
}

func toPgTime(d time.Duration) pgtype.Time {
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) time.Duration {
	return time.Duration(t.Microseconds) * time.Microsecond
}
