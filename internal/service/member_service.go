package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository"
	"go.uber.org/zap"
)

type MemberService struct {
	memberRepo MemberStore
	adminIDs   map[int64]struct{}
	logger     *zap.Logger
}

func NewMemberService(memberRepo MemberStore, adminTelegramIDs []int64, logger *zap.Logger) *MemberService {
	adminIDs := make(map[int64]struct{}, len(adminTelegramIDs))
	for _, id := range adminTelegramIDs {
		adminIDs[id] = struct{}{}
	}

	return &MemberService{
		memberRepo: memberRepo,
		adminIDs:   adminIDs,
		logger:     logger,
	}
}

// Register регистрирует или обновляет участника
func (s *MemberService) Register(ctx context.Context, telegramID int64, username, firstName, lastName string) (*model.Member, error) {
	_, isAdmin := s.adminIDs[telegramID]

	existing, err := s.memberRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing member: %w", err)
	}

	// Если участник уже существует, обновляем данные
	if existing != nil {
		existing.Username = username
		existing.FirstName = firstName
		existing.LastName = lastName
		existing.IsAdmin = isAdmin

		if err := s.memberRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("update member: %w", err)
		}

		s.logger.Info("Member updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existing, nil
	}

	member := &model.Member{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		IsAdmin:    isAdmin,
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Параллельная регистрация того же пользователя
			return s.memberRepo.GetByTelegramID(ctx, telegramID)
		}
		return nil, fmt.Errorf("create member: %w", err)
	}

	s.logger.Info("New member registered",
		zap.Int64("member_id", member.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
		zap.Bool("is_admin", isAdmin),
	)

	return member, nil
}

// GetByTelegramID получает участника по Telegram ID, nil если не зарегистрирован
func (s *MemberService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Member, error) {
	return s.memberRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает участника по ID
func (s *MemberService) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("member %d: %w", id, model.ErrMemberNotFound)
	}
	return member, nil
}
