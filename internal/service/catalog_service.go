package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository"
	"go.uber.org/zap"
)

// CatalogService управляет темами и временем сеансов
type CatalogService struct {
	themes       ThemeStore
	times        TimeStore
	reservations ReservationStore
	logger       *zap.Logger
}

func NewCatalogService(themeStore ThemeStore, timeStore TimeStore, reservationStore ReservationStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		themes:       themeStore,
		times:        timeStore,
		reservations: reservationStore,
		logger:       logger,
	}
}

func (s *CatalogService) ListThemes(ctx context.Context) ([]*model.Theme, error) {
	return s.themes.FindAll(ctx)
}

// CreateTheme добавляет тему, имя должно быть уникальным
func (s *CatalogService) CreateTheme(ctx context.Context, name, description, thumbnail string) (*model.Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: theme name is empty", model.ErrUnavailable)
	}

	theme := &model.Theme{
		Name:        name,
		Description: strings.TrimSpace(description),
		Thumbnail:   strings.TrimSpace(thumbnail),
	}
	if err := s.themes.Create(ctx, theme); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("theme %q: %w", name, model.ErrDuplicateName)
		}
		return nil, fmt.Errorf("create theme: %w", err)
	}

	s.logger.Info("Theme created",
		zap.Int64("theme_id", theme.ID),
		zap.String("name", theme.Name),
	)

	return theme, nil
}

// DeleteTheme удаляет тему, если на неё нет бронирований и заявок
func (s *CatalogService) DeleteTheme(ctx context.Context, id int64) error {
	if err := s.themes.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return fmt.Errorf("theme %d: %w", id, model.ErrInUse)
		}
		return fmt.Errorf("delete theme: %w", err)
	}

	s.logger.Info("Theme deleted", zap.Int64("theme_id", id))
	return nil
}

func (s *CatalogService) ListTimes(ctx context.Context) ([]*model.ReservationTime, error) {
	return s.times.FindAll(ctx)
}

// CreateTime добавляет время сеанса, время начала должно быть уникальным
func (s *CatalogService) CreateTime(ctx context.Context, startAt time.Duration) (*model.ReservationTime, error) {
	if startAt < 0 || startAt >= 24*time.Hour {
		return nil, fmt.Errorf("%w: start time %s is outside of a day", model.ErrUnavailable, startAt)
	}

	rt := &model.ReservationTime{StartAt: startAt}
	if err := s.times.Create(ctx, rt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("time %s: %w", rt, model.ErrDuplicateName)
		}
		return nil, fmt.Errorf("create reservation time: %w", err)
	}

	s.logger.Info("Reservation time created",
		zap.Int64("time_id", rt.ID),
		zap.String("start_at", rt.String()),
	)

	return rt, nil
}

// DeleteTime удаляет время сеанса, если оно не используется
func (s *CatalogService) DeleteTime(ctx context.Context, id int64) error {
	if err := s.times.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return fmt.Errorf("time %d: %w", id, model.ErrInUse)
		}
		return fmt.Errorf("delete reservation time: %w", err)
	}

	s.logger.Info("Reservation time deleted", zap.Int64("time_id", id))
	return nil
}

// AvailableTimes возвращает все времена сеансов с отметкой, заняты ли они
// на указанную дату для темы
func (s *CatalogService) AvailableTimes(ctx context.Context, date time.Time, themeID int64) ([]model.TimeAvailability, error) {
	theme, err := s.themes.GetByID(ctx, themeID)
	if err != nil {
		return nil, fmt.Errorf("get theme: %w", err)
	}
	if theme == nil {
		return nil, fmt.Errorf("theme %d: %w", themeID, model.ErrThemeNotFound)
	}

	times, err := s.times.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find times: %w", err)
	}

	bookedIDs, err := s.reservations.FindBookedTimeIDs(ctx, date, themeID)
	if err != nil {
		return nil, fmt.Errorf("find booked times: %w", err)
	}

	booked := make(map[int64]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		booked[id] = true
	}

	result := make([]model.TimeAvailability, 0, len(times))
	for _, rt := range times {
		result = append(result, model.TimeAvailability{Time: rt, Booked: booked[rt.ID]})
	}
	return result, nil
}
