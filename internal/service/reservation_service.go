package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"go.uber.org/zap"
)

type CreateReservationParams struct {
	MemberID int64
	Date     time.Time
	TimeID   int64
	ThemeID  int64
}

type ReservationService struct {
	tx           Transactor
	refs         resolver
	reservations ReservationStore
	waitings     WaitingStore
	logger       *zap.Logger
}

func NewReservationService(
	tx Transactor,
	memberStore MemberStore,
	themeStore ThemeStore,
	timeStore TimeStore,
	reservationStore ReservationStore,
	waitingStore WaitingStore,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		tx:           tx,
		refs:         resolver{members: memberStore, themes: themeStore, times: timeStore},
		reservations: reservationStore,
		waitings:     waitingStore,
		logger:       logger,
	}
}

// Create бронирует слот. Слот должен быть свободен и начинаться
// не раньше чем через model.MinBookingLead после now.
func (s *ReservationService) Create(ctx context.Context, params CreateReservationParams, now time.Time) (*model.Reservation, error) {
	var reservation *model.Reservation

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

		// Проверяем что слот свободен
		reserved, err := s.reservations.ExistsBySchedule(ctx, schedule)
		if err != nil {
			return fmt.Errorf("check schedule: %w", err)
		}
		if reserved {
			return model.ErrSlotReserved
		}

		if err := model.CheckBookingWindow(schedule.StartsAt(rt.StartAt, now.Location()), now); err != nil {
			return err
		}

		candidate := model.NewReservation(member, schedule, theme, rt)
		if err := saveReservation(ctx, s.reservations, candidate); err != nil {
			return err
		}

		reservation = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reservation created",
		zap.Int64("reservation_id", reservation.ID),
		zap.Int64("member_id", reservation.MemberID),
		zap.Time("date", reservation.Schedule.Date),
		zap.Int64("time_id", reservation.Schedule.TimeID),
		zap.Int64("theme_id", reservation.Schedule.ThemeID),
	)

	return reservation, nil
}

// DeleteByIDAndPromote удаляет бронирование и отдаёт слот первому в очереди.
// Возвращает новое бронирование или nil, если очередь была пуста.
func (s *ReservationService) DeleteByIDAndPromote(ctx context.Context, reservationID int64) (*model.Reservation, error) {
	return s.deleteAndPromote(ctx, reservationID, nil)
}

// CancelByMember то же, что DeleteByIDAndPromote, но только для владельца бронирования
func (s *ReservationService) CancelByMember(ctx context.Context, memberID, reservationID int64) (*model.Reservation, error) {
	return s.deleteAndPromote(ctx, reservationID, func(r *model.Reservation) error {
		if r.MemberID != memberID {
			return model.ErrDeletionNotAllowed
		}
		return nil
	})
}

func (s *ReservationService) deleteAndPromote(ctx context.Context, reservationID int64, check func(*model.Reservation) error) (*model.Reservation, error) {
	var promoted *model.Reservation

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		reservation, err := s.getReservation(ctx, reservationID)
		if err != nil {
			return err
		}

		if check != nil {
			if err := check(reservation); err != nil {
				return err
			}
		}

		if err := s.reservations.DeleteByID(ctx, reservationID); err != nil {
			return fmt.Errorf("delete reservation: %w", err)
		}

		// Пустая очередь оставляет слот свободным
		promoted, err = promoteFirst(ctx, s.reservations, s.waitings, reservation.Schedule)
		return err
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.Int64("reservation_id", reservationID)}
	if promoted != nil {
		fields = append(fields,
			zap.Int64("promoted_reservation_id", promoted.ID),
			zap.Int64("promoted_member_id", promoted.MemberID),
		)
	}
	s.logger.Info("Reservation deleted", fields...)

	return promoted, nil
}

// FindAll получает все бронирования
func (s *ReservationService) FindAll(ctx context.Context) ([]*model.Reservation, error) {
	return s.reservations.FindAll(ctx)
}

// FindByID получает бронирование по ID
func (s *ReservationService) FindByID(ctx context.Context, reservationID int64) (*model.Reservation, error) {
	return s.getReservation(ctx, reservationID)
}

// FindByFilter ищет бронирования по участнику, теме и диапазону дат
func (s *ReservationService) FindByFilter(ctx context.Context, filter model.ReservationFilter) ([]*model.Reservation, error) {
	return s.reservations.FindByFilter(ctx, filter)
}

// FindByMemberID получает все бронирования участника
func (s *ReservationService) FindByMemberID(ctx context.Context, memberID int64) ([]*model.Reservation, error) {
	return s.reservations.FindByMemberID(ctx, memberID)
}

func (s *ReservationService) getReservation(ctx context.Context, id int64) (*model.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if reservation == nil {
		return nil, fmt.Errorf("reservation %d: %w", id, model.ErrReservationNotFound)
	}
	return reservation, nil
}
