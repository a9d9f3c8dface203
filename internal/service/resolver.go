package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/escape_bot/internal/model"
)

// resolver загружает справочные сущности по ID и превращает отсутствие в NotFound
type resolver struct {
	members MemberStore
	themes  ThemeStore
	times   TimeStore
}

func (r resolver) member(ctx context.Context, id int64) (*model.Member, error) {
	member, err := r.members.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if member == nil {
		return nil, fmt.Errorf("member %d: %w", id, model.ErrMemberNotFound)
	}
	return member, nil
}

func (r resolver) theme(ctx context.Context, id int64) (*model.Theme, error) {
	theme, err := r.themes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get theme: %w", err)
	}
	if theme == nil {
		return nil, fmt.Errorf("theme %d: %w", id, model.ErrThemeNotFound)
	}
	return theme, nil
}

func (r resolver) time(ctx context.Context, id int64) (*model.ReservationTime, error) {
	rt, err := r.times.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation time: %w", err)
	}
	if rt == nil {
		return nil, fmt.Errorf("time %d: %w", id, model.ErrTimeNotFound)
	}
	return rt, nil
}
