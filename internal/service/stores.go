package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
)

// Transactor выполняет fn в одной транзакции: все записи внутри применяются
// вместе или не применяются вовсе
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Методы Get* возвращают (nil, nil), если запись не найдена

type MemberStore interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id int64) (*model.Member, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.Member, error)
	Update(ctx context.Context, member *model.Member) error
}

type ThemeStore interface {
	Create(ctx context.Context, theme *model.Theme) error
	GetByID(ctx context.Context, id int64) (*model.Theme, error)
	FindAll(ctx context.Context) ([]*model.Theme, error)
	DeleteByID(ctx context.Context, id int64) error
}

type TimeStore interface {
	Create(ctx context.Context, rt *model.ReservationTime) error
	GetByID(ctx context.Context, id int64) (*model.ReservationTime, error)
	FindAll(ctx context.Context) ([]*model.ReservationTime, error)
	DeleteByID(ctx context.Context, id int64) error
}

type ReservationStore interface {
	Save(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id int64) (*model.Reservation, error)
	ExistsBySchedule(ctx context.Context, schedule model.Schedule) (bool, error)
	FindAll(ctx context.Context) ([]*model.Reservation, error)
	FindByFilter(ctx context.Context, filter model.ReservationFilter) ([]*model.Reservation, error)
	FindByMemberID(ctx context.Context, memberID int64) ([]*model.Reservation, error)
	FindBookedTimeIDs(ctx context.Context, date time.Time, themeID int64) ([]int64, error)
	DeleteByID(ctx context.Context, id int64) error
}

type WaitingStore interface {
	Save(ctx context.Context, waiting *model.Waiting) error
	GetByID(ctx context.Context, id int64) (*model.Waiting, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByMemberAndSchedule(ctx context.Context, memberID int64, schedule model.Schedule) (bool, error)
	FindAll(ctx context.Context) ([]*model.Waiting, error)
	FindBySchedule(ctx context.Context, schedule model.Schedule) ([]*model.Waiting, error)
	FindFirstBySchedule(ctx context.Context, schedule model.Schedule) (*model.Waiting, error)
	FindWithRankByMemberID(ctx context.Context, memberID int64) ([]*model.WaitingWithRank, error)
	FindOrphanedSchedules(ctx context.Context, from time.Time) ([]model.Schedule, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteByID(ctx context.Context, id int64) error
}
