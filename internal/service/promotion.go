package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository"
)

// promoteFirst отдаёт слот самой ранней заявке очереди. Заявка, удалённая
// параллельным запросом после чтения очереди, пропускается и берётся следующая.
// Пустая очередь не ошибка: возвращается nil. Вызывается только внутри транзакции.
func promoteFirst(ctx context.Context, reservations ReservationStore, waitings WaitingStore, schedule model.Schedule) (*model.Reservation, error) {
	for {
		waiting, err := waitings.FindFirstBySchedule(ctx, schedule)
		if err != nil {
			return nil, fmt.Errorf("find first waiting: %w", err)
		}
		if waiting == nil {
			return nil, nil
		}

		reservation, err := promote(ctx, reservations, waitings, waiting)
		if errors.Is(err, model.ErrWaitingNotFound) {
			continue
		}
		return reservation, err
	}
}

// promote удаляет заявку и создаёт по ней бронирование. Заявка удаляется первой:
// DELETE дожидается параллельного удаления той же строки, и ушедший участник
// не получает слот. Вызывается только внутри транзакции.
func promote(ctx context.Context, reservations ReservationStore, waitings WaitingStore, waiting *model.Waiting) (*model.Reservation, error) {
	if err := waitings.DeleteByID(ctx, waiting.ID); err != nil {
		return nil, fmt.Errorf("delete promoted waiting: %w", err)
	}

	reservation := &model.Reservation{
		MemberID: waiting.MemberID,
		Schedule: waiting.Schedule,
		Member:   waiting.Member,
		Theme:    waiting.Theme,
		Time:     waiting.Time,
	}

	if err := saveReservation(ctx, reservations, reservation); err != nil {
		return nil, err
	}

	return reservation, nil
}

// saveReservation сохраняет бронирование, переводя отказ уникального индекса в ErrSlotReserved
func saveReservation(ctx context.Context, reservations ReservationStore, reservation *model.Reservation) error {
	if err := reservations.Save(ctx, reservation); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.ErrSlotReserved
		}
		return fmt.Errorf("save reservation: %w", err)
	}
	return nil
}
