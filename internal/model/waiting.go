package model

import "time"

// Waiting заявка в листе ожидания на уже занятый слот
type Waiting struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"member_id"`
	Schedule  Schedule  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"` // определяет порядок очереди

	Member *Member          `json:"member,omitempty"`
	Theme  *Theme           `json:"theme,omitempty"`
	Time   *ReservationTime `json:"time,omitempty"`
}

func NewWaiting(member *Member, schedule Schedule, theme *Theme, rt *ReservationTime) *Waiting {
	return &Waiting{
		MemberID: member.ID,
		Schedule: schedule,
		Member:   member,
		Theme:    theme,
		Time:     rt,
	}
}

// WaitingWithRank заявка и её позиция в очереди слота (0 - следующая)
type WaitingWithRank struct {
	Waiting *Waiting `json:"waiting"`
	Rank    int64    `json:"rank"`
}
