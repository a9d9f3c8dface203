package model

import (
	"fmt"
	"time"
)

// ReservationTime время начала сеанса внутри дня
type ReservationTime struct {
	ID int64 `json:"id"`
	// StartAt смещение от полуночи
	StartAt time.Duration `json:"start_at"`
}

// ParseClock разбирает время в формате HH:MM
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock форматирует смещение от полуночи как HH:MM
func FormatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

func (t *ReservationTime) String() string {
	return FormatClock(t.StartAt)
}

// TimeAvailability время сеанса с признаком занятости для конкретной даты и темы
type TimeAvailability struct {
	Time   *ReservationTime `json:"time"`
	Booked bool             `json:"booked"`
}
