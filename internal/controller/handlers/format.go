package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
)

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// formatSlot форматирует слот: дата, время и тема
func formatSlot(schedule model.Schedule, theme *model.Theme, rt *model.ReservationTime) string {
	timeText := fmt.Sprintf("время #%d", schedule.TimeID)
	if rt != nil {
		timeText = rt.String()
	}
	themeText := fmt.Sprintf("тема #%d", schedule.ThemeID)
	if theme != nil {
		themeText = fmt.Sprintf("«%s»", theme.Name)
	}
	return fmt.Sprintf("📅 %s %s, %s", FormatDate(schedule.Date), timeText, themeText)
}

// FormatReservation форматирует бронирование для отображения
func FormatReservation(r *model.Reservation) string {
	return fmt.Sprintf("✅ Бронирование #%d\n%s", r.ID, formatSlot(r.Schedule, r.Theme, r.Time))
}

// FormatPromotion сообщение участнику, чья заявка стала бронированием
func FormatPromotion(r *model.Reservation) string {
	return "🎉 Слот освободился, ваша заявка из листа ожидания стала бронированием!\n\n" + FormatReservation(r)
}

// FormatReservationAdmin то же, что FormatReservation, но с владельцем
func FormatReservationAdmin(r *model.Reservation) string {
	owner := fmt.Sprintf("участник #%d", r.MemberID)
	if r.Member != nil {
		owner = fmt.Sprintf("%s (#%d)", r.Member.DisplayName(), r.MemberID)
	}
	return FormatReservation(r) + "\n👤 " + owner
}

// FormatWaitingWithRank форматирует заявку с позицией; позиция показывается с единицы
func FormatWaitingWithRank(w *model.WaitingWithRank) string {
	return fmt.Sprintf("⏳ Заявка #%d, %d-й в очереди\n%s",
		w.Waiting.ID, w.Rank+1, formatSlot(w.Waiting.Schedule, w.Waiting.Theme, w.Waiting.Time))
}

// FormatWaitingAdmin форматирует заявку с владельцем
func FormatWaitingAdmin(w *model.Waiting) string {
	owner := fmt.Sprintf("участник #%d", w.MemberID)
	if w.Member != nil {
		owner = fmt.Sprintf("%s (#%d)", w.Member.DisplayName(), w.MemberID)
	}
	return fmt.Sprintf("⏳ Заявка #%d от %s\n%s\n👤 %s",
		w.ID, w.CreatedAt.Format("02.01.2006 15:04:05"), formatSlot(w.Schedule, w.Theme, w.Time), owner)
}

// joinBlocks склеивает блоки пустой строкой, пустой список заменяется на empty
func joinBlocks(blocks []string, empty string) string {
	if len(blocks) == 0 {
		return empty
	}
	return strings.Join(blocks, "\n\n")
}
