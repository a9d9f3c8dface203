package model

import "time"

// MinBookingLead минимальный запас времени до начала слота
const MinBookingLead = 10 * time.Minute

// CheckBookingWindow проверяет, что слот не в прошлом и до начала
// осталось не меньше MinBookingLead
func CheckBookingWindow(startsAt, now time.Time) error {
	if startsAt.Before(now) {
		return ErrPastSlot
	}
	if startsAt.Sub(now) < MinBookingLead {
		return ErrTooSoon
	}
	return nil
}
