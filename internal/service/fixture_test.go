package service

import (
	"testing"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"go.uber.org/zap/zaptest"
)

var (
	testNow  = time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC)
	slotDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store        *memStore
	reservations *ReservationService
	waitings     *WaitingService
	catalog      *CatalogService

	dungeon *model.Theme
	ten     *model.ReservationTime
	alice   *model.Member
	bob     *model.Member
	carol   *model.Member
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	logger := zaptest.NewLogger(t)

	f := &fixture{
		store: store,
		reservations: NewReservationService(
			store, memMembers{store}, memThemes{store}, memTimes{store},
			memReservations{store}, memWaitings{store}, logger,
		),
		waitings: NewWaitingService(
			store, memMembers{store}, memThemes{store}, memTimes{store},
			memReservations{store}, memWaitings{store}, logger,
		),
		catalog: NewCatalogService(memThemes{store}, memTimes{store}, memReservations{store}, logger),
		dungeon: store.addTheme("Dungeon"),
		ten:     store.addTime("10:00"),
		alice:   store.addMember("alice"),
		bob:     store.addMember("bob"),
		carol:   store.addMember("carol"),
	}
	return f
}

func (f *fixture) schedule() model.Schedule {
	return model.NewSchedule(slotDate, f.ten.ID, f.dungeon.ID)
}

func (f *fixture) reserveParams(member *model.Member) CreateReservationParams {
	return CreateReservationParams{MemberID: member.ID, Date: slotDate, TimeID: f.ten.ID, ThemeID: f.dungeon.ID}
}

func (f *fixture) waitParams(member *model.Member) CreateWaitingParams {
	return CreateWaitingParams{MemberID: member.ID, Date: slotDate, TimeID: f.ten.ID, ThemeID: f.dungeon.ID}
}
