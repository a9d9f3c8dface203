package handlers

import (
	"testing"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func sampleSchedule() model.Schedule {
	return model.NewSchedule(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 3, 4)
}

func TestFormatReservation(t *testing.T) {
	r := &model.Reservation{
		ID:       9,
		MemberID: 2,
		Schedule: sampleSchedule(),
		Member:   &model.Member{ID: 2, FirstName: "Алиса", Username: "alice"},
		Theme:    &model.Theme{ID: 4, Name: "Бункер"},
		Time:     &model.ReservationTime{ID: 3, StartAt: 10*time.Hour + 30*time.Minute},
	}

	assert.Equal(t, "✅ Бронирование #9\n📅 01.06.2025 10:30, «Бункер»", FormatReservation(r))
	assert.Equal(t, "✅ Бронирование #9\n📅 01.06.2025 10:30, «Бункер»\n👤 @alice (#2)", FormatReservationAdmin(r))
}

func TestFormatPromotion(t *testing.T) {
	r := &model.Reservation{ID: 3, MemberID: 2, Schedule: sampleSchedule()}

	assert.Equal(t,
		"🎉 Слот освободился, ваша заявка из листа ожидания стала бронированием!\n\n✅ Бронирование #3\n📅 01.06.2025 время #3, тема #4",
		FormatPromotion(r))
}

func TestFormatReservationWithoutJoins(t *testing.T) {
	r := &model.Reservation{ID: 1, MemberID: 5, Schedule: sampleSchedule()}

	assert.Equal(t, "✅ Бронирование #1\n📅 01.06.2025 время #3, тема #4\n👤 участник #5", FormatReservationAdmin(r))
}

func TestFormatWaitingWithRank(t *testing.T) {
	w := &model.WaitingWithRank{
		Waiting: &model.Waiting{
			ID:       6,
			Schedule: sampleSchedule(),
			Theme:    &model.Theme{ID: 4, Name: "Бункер"},
			Time:     &model.ReservationTime{ID: 3, StartAt: 18 * time.Hour},
		},
		Rank: 0,
	}

	assert.Equal(t, "⏳ Заявка #6, 1-й в очереди\n📅 01.06.2025 18:00, «Бункер»", FormatWaitingWithRank(w))
}

func TestJoinBlocks(t *testing.T) {
	assert.Equal(t, "пусто", joinBlocks(nil, "пусто"))
	assert.Equal(t, "a\n\nb", joinBlocks([]string{"a", "b"}, "пусто"))
}
