package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Themes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	theme, err := f.catalog.CreateTheme(ctx, "  Haunted Manor ", "spooky", "")
	require.NoError(t, err)
	assert.Equal(t, "Haunted Manor", theme.Name)

	_, err = f.catalog.CreateTheme(ctx, "Haunted Manor", "", "")
	assert.ErrorIs(t, err, model.ErrDuplicateName)

	_, err = f.catalog.CreateTheme(ctx, " ", "", "")
	assert.ErrorIs(t, err, model.ErrUnavailable)

	themes, err := f.catalog.ListThemes(ctx)
	require.NoError(t, err)
	assert.Len(t, themes, 2)

	require.NoError(t, f.catalog.DeleteTheme(ctx, theme.ID))
	assert.ErrorIs(t, f.catalog.DeleteTheme(ctx, theme.ID), model.ErrThemeNotFound)
}

func TestCatalogService_DeleteTheme_InUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reservations.Create(ctx, f.reserveParams(f.alice), testNow)
	require.NoError(t, err)

	err = f.catalog.DeleteTheme(ctx, f.dungeon.ID)

	assert.ErrorIs(t, err, model.ErrInUse)
}

func TestCatalogService_Times(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rt, err := f.catalog.CreateTime(ctx, 18*time.Hour+30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "18:30", rt.String())

	_, err = f.catalog.CreateTime(ctx, 10*time.Hour)
	assert.ErrorIs(t, err, model.ErrDuplicateName)

	_, err = f.catalog.CreateTime(ctx, 25*time.Hour)
	assert.ErrorIs(t, err, model.ErrUnavailable)

	times, err := f.catalog.ListTimes(ctx)
	require.NoError(t, err)
	require.Len(t, times, 2)
	assert.Equal(t, f.ten.ID, times[0].ID)

	require.NoError(t, f.catalog.DeleteTime(ctx, rt.ID))
}

func TestCatalogService_AvailableTimes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eleven := f.store.addTime("11:00")

	_, err := f.reservations.Create(ctx, f.reserveParams(f.alice), testNow)
	require.NoError(t, err)

	availability, err := f.catalog.AvailableTimes(ctx, slotDate, f.dungeon.ID)
	require.NoError(t, err)
	require.Len(t, availability, 2)

	booked := map[int64]bool{}
	for _, a := range availability {
		booked[a.Time.ID] = a.Booked
	}
	assert.True(t, booked[f.ten.ID])
	assert.False(t, booked[eleven.ID])

	_, err = f.catalog.AvailableTimes(ctx, slotDate, 999)
	assert.ErrorIs(t, err, model.ErrThemeNotFound)
}
