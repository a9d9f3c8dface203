package model

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

var (
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)
	ErrWaitingNotFound     = fmt.Errorf("waiting %w", ErrNotFound)
	ErrMemberNotFound      = fmt.Errorf("member %w", ErrNotFound)
	ErrThemeNotFound       = fmt.Errorf("theme %w", ErrNotFound)
	ErrTimeNotFound        = fmt.Errorf("reservation time %w", ErrNotFound)
)

var ErrUnavailable = errors.New("unavailable")

var (
	ErrSlotReserved  = fmt.Errorf("%w: slot is already reserved", ErrUnavailable)
	ErrWaitingExists = fmt.Errorf("%w: member is already waiting for this slot", ErrUnavailable)
	ErrPastSlot      = fmt.Errorf("%w: slot is in the past", ErrUnavailable)
	ErrTooSoon       = fmt.Errorf("%w: slot starts in less than %s", ErrUnavailable, MinBookingLead)
	ErrDuplicateName = fmt.Errorf("%w: already exists", ErrUnavailable)
	ErrInUse         = fmt.Errorf("%w: still referenced by bookings", ErrUnavailable)
)

var ErrDeletionNotAllowed = errors.New("deletion not allowed")
