package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemberService_Register(t *testing.T) {
	store := newMemStore()
	svc := NewMemberService(memMembers{store}, []int64{777}, zap.NewNop())
	ctx := context.Background()

	member, err := svc.Register(ctx, 555, "dasha", "Dasha", "")
	require.NoError(t, err)
	assert.NotZero(t, member.ID)
	assert.False(t, member.IsAdmin)

	again, err := svc.Register(ctx, 555, "dasha_new", "Dasha", "K")
	require.NoError(t, err)
	assert.Equal(t, member.ID, again.ID)
	assert.Equal(t, "dasha_new", again.Username)

	admin, err := svc.Register(ctx, 777, "boss", "Boss", "")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	got, err := svc.GetByTelegramID(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, "dasha_new", got.Username)

	missing, err := svc.GetByTelegramID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = svc.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, model.ErrMemberNotFound)
}
