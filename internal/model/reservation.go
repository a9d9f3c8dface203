package model

import "time"

type Reservation struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	Schedule  Schedule  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`

	// Дополнительные поля для удобства (заполняются JOIN-ом)
	Member *Member          `json:"member,omitempty"`
	Theme  *Theme           `json:"theme,omitempty"`
	Time   *ReservationTime `json:"time,omitempty"`
}

// NewReservation создаёт ещё не сохранённое бронирование
func NewReservation(member *Member, schedule Schedule, theme *Theme, rt *ReservationTime) *Reservation {
	return &Reservation{
		MemberID: member.ID,
		Schedule: schedule,
		Member:   member,
		Theme:    theme,
		Time:     rt,
	}
}

// ReservationFilter условия поиска бронирований, nil означает "без фильтра"
type ReservationFilter struct {
	MemberID *int64
	ThemeID  *int64
	DateFrom *time.Time // включительно
	DateTo   *time.Time // включительно
}
