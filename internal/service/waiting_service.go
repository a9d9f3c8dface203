package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository"
	"go.uber.org/zap"
)

type CreateWaitingParams struct {
	MemberID int64
	Date     time.Time
	TimeID   int64
	ThemeID  int64
}

type WaitingService struct {
	tx           Transactor
	refs         resolver
	reservations ReservationStore
	waitings     WaitingStore
	logger       *zap.Logger
}

func NewWaitingService(
	tx Transactor,
	memberStore MemberStore,
	themeStore ThemeStore,
	timeStore TimeStore,
	reservationStore ReservationStore,
	waitingStore WaitingStore,
	logger *zap.Logger,
) *WaitingService {
	return &WaitingService{
		tx:           tx,
		refs:         resolver{members: memberStore, themes: themeStore, times: timeStore},
		reservations: reservationStore,
		waitings:     waitingStore,
		logger:       logger,
	}
}

// Create ставит участника в очередь на слот. Ограничение по времени до начала
// здесь не действует.
func (s *WaitingService) Create(ctx context.Context, params CreateWaitingParams) (*model.Waiting, error) {
	var waiting *model.Waiting

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rt, err := s.refs.time(ctx, params.TimeID)
		if err != nil {
			return err
		}
		theme, err := s.refs.theme(ctx, params.ThemeID)
		if err != nil {
			return err
		}
		member, err := s.refs.member(ctx, params.MemberID)
		if err != nil {
			return err
		}

		schedule := model.NewSchedule(params.Date, rt.ID, theme.ID)

		exists, err := s.waitings.ExistsByMemberAndSchedule(ctx, member.ID, schedule)
		if err != nil {
			return fmt.Errorf("check waiting: %w", err)
		}
		if exists {
			return model.ErrWaitingExists
		}

		candidate := model.NewWaiting(member, schedule, theme, rt)
		if err := s.waitings.Save(ctx, candidate); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return model.ErrWaitingExists
			}
			return fmt.Errorf("save waiting: %w", err)
		}

		waiting = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Waiting created",
		zap.Int64("waiting_id", waiting.ID),
		zap.Int64("member_id", waiting.MemberID),
		zap.Time("date", waiting.Schedule.Date),
		zap.Int64("time_id", waiting.Schedule.TimeID),
		zap.Int64("theme_id", waiting.Schedule.ThemeID),
	)

	return waiting, nil
}

// Approve превращает заявку в бронирование. Слот должен быть свободен.
func (s *WaitingService) Approve(ctx context.Context, waitingID int64) (*model.Reservation, error) {
	var reservation *model.Reservation

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		waiting, err := s.getWaiting(ctx, waitingID)
		if err != nil {
			return err
		}

		reserved, err := s.reservations.ExistsBySchedule(ctx, waiting.Schedule)
		if err != nil {
			return fmt.Errorf("check schedule: %w", err)
		}
		if reserved {
			return model.ErrSlotReserved
		}

		reservation, err = promote(ctx, s.reservations, s.waitings, waiting)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Waiting approved",
		zap.Int64("waiting_id", waitingID),
		zap.Int64("reservation_id", reservation.ID),
		zap.Int64("member_id", reservation.MemberID),
	)

	return reservation, nil
}

// ApproveFirst одобряет самую раннюю заявку слота.
// Пустая очередь не ошибка: возвращается nil.
func (s *WaitingService) ApproveFirst(ctx context.Context, themeID int64, date time.Time, timeID int64) (*model.Reservation, error) {
	var reservation *model.Reservation

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rt, err := s.refs.time(ctx, timeID)
		if err != nil {
			return err
		}
		theme, err := s.refs.theme(ctx, themeID)
		if err != nil {
			return err
		}

		reservation, err = s.approveFirstBySchedule(ctx, model.NewSchedule(date, rt.ID, theme.ID))
		return err
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func (s *WaitingService) approveFirstBySchedule(ctx context.Context, schedule model.Schedule) (*model.Reservation, error) {
	reserved, err := s.reservations.ExistsBySchedule(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("check schedule: %w", err)
	}
	if reserved {
		return nil, model.ErrSlotReserved
	}

	reservation, err := promoteFirst(ctx, s.reservations, s.waitings, schedule)
	if err != nil || reservation == nil {
		return nil, err
	}

	s.logger.Info("First waiting approved",
		zap.Int64("reservation_id", reservation.ID),
		zap.Int64("member_id", reservation.MemberID),
		zap.Time("date", schedule.Date),
		zap.Int64("time_id", schedule.TimeID),
		zap.Int64("theme_id", schedule.ThemeID),
	)
	return reservation, nil
}

// DeleteByMemberAndID удаляет заявку по запросу её владельца
func (s *WaitingService) DeleteByMemberAndID(ctx context.Context, memberID, waitingID int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		waiting, err := s.getWaiting(ctx, waitingID)
		if err != nil {
			return err
		}

		if waiting.MemberID != memberID {
			return model.ErrDeletionNotAllowed
		}

		if err := s.waitings.DeleteByID(ctx, waitingID); err != nil {
			return fmt.Errorf("delete waiting: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Waiting cancelled by member",
		zap.Int64("waiting_id", waitingID),
		zap.Int64("member_id", memberID),
	)

	return nil
}

// DeleteByID удаляет заявку без проверки владельца
func (s *WaitingService) DeleteByID(ctx context.Context, waitingID int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.waitings.ExistsByID(ctx, waitingID)
		if err != nil {
			return fmt.Errorf("check waiting: %w", err)
		}
		if !exists {
			return fmt.Errorf("waiting %d: %w", waitingID, model.ErrWaitingNotFound)
		}

		if err := s.waitings.DeleteByID(ctx, waitingID); err != nil {
			return fmt.Errorf("delete waiting: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Waiting deleted", zap.Int64("waiting_id", waitingID))
	return nil
}

// FindAll получает все заявки
func (s *WaitingService) FindAll(ctx context.Context) ([]*model.Waiting, error) {
	return s.waitings.FindAll(ctx)
}

// FindBySchedule получает очередь слота в порядке продвижения
func (s *WaitingService) FindBySchedule(ctx context.Context, themeID int64, date time.Time, timeID int64) ([]*model.Waiting, error) {
	rt, err := s.refs.time(ctx, timeID)
	if err != nil {
		return nil, err
	}
	theme, err := s.refs.theme(ctx, themeID)
	if err != nil {
		return nil, err
	}
	return s.waitings.FindBySchedule(ctx, model.NewSchedule(date, rt.ID, theme.ID))
}

// FindRanksByMemberID получает заявки участника с позицией в очереди
func (s *WaitingService) FindRanksByMemberID(ctx context.Context, memberID int64) ([]*model.WaitingWithRank, error) {
	return s.waitings.FindWithRankByMemberID(ctx, memberID)
}

// PromoteOrphaned отдаёт свободные слоты первым в их очередях. Берутся только
// слоты, которые ещё можно забронировать: не раньше MinBookingLead от now.
// Ошибка одного слота не мешает обработке остальных.
func (s *WaitingService) PromoteOrphaned(ctx context.Context, now time.Time) ([]*model.Reservation, error) {
	schedules, err := s.waitings.FindOrphanedSchedules(ctx, now.Add(model.MinBookingLead))
	if err != nil {
		return nil, fmt.Errorf("find orphaned schedules: %w", err)
	}

	var (
		promoted []*model.Reservation
		errs     []error
	)
	for _, schedule := range schedules {
		var reservation *model.Reservation
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			var txErr error
			reservation, txErr = s.approveFirstBySchedule(ctx, schedule)
			return txErr
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("promote %s/%d/%d: %w",
				schedule.Date.Format(time.DateOnly), schedule.TimeID, schedule.ThemeID, err))
			continue
		}
		if reservation != nil {
			promoted = append(promoted, reservation)
		}
	}

	return promoted, errors.Join(errs...)
}

// DeleteExpired удаляет заявки на уже начавшиеся слоты
func (s *WaitingService) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := s.waitings.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.logger.Info("Expired waitings deleted", zap.Int64("count", deleted))
	}
	return deleted, nil
}

func (s *WaitingService) getWaiting(ctx context.Context, id int64) (*model.Waiting, error) {
	waiting, err := s.waitings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get waiting: %w", err)
	}
	if waiting == nil {
		return nil, fmt.Errorf("waiting %d: %w", id, model.ErrWaitingNotFound)
	}
	return waiting, nil
}
