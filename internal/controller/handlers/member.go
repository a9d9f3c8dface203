package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleBook обрабатывает команду /book <дата> <id времени> <id темы>
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	member, ok := h.requireMember(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	slot, err := parseSlotArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Формат: /book <дата> <id времени> <id темы>")
		return
	}

	reservation, err := h.reservationService.Create(ctx, service.CreateReservationParams{
		MemberID: member.ID,
		Date:     slot.Date,
		TimeID:   slot.TimeID,
		ThemeID:  slot.ThemeID,
	}, h.currentTime())
	if err != nil {
		if errors.Is(err, model.ErrSlotReserved) {
			h.sendError(ctx, b, chatID, fmt.Sprintf(
				"⏳ Этот слот уже забронирован.\nВстать в лист ожидания: /wait %s %d %d",
				slot.Date.Format("2006-01-02"), slot.TimeID, slot.ThemeID))
			return
		}
		h.replyError(ctx, b, chatID, "book", err)
		return
	}

	h.sendMessage(ctx, b, chatID, "🎉 Готово!\n\n"+FormatReservation(reservation)+
		fmt.Sprintf("\n\nОтменить: /cancel %d", reservation.ID))
}

// HandleWait обрабатывает команду /wait <дата> <id времени> <id темы>
func (h *Handlers) HandleWait(ctx context.Context, b *bot.Bot, update *models.Update) {
	member, ok := h.requireMember(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	slot, err := parseSlotArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Формат: /wait <дата> <id времени> <id темы>")
		return
	}

	waiting, err := h.waitingService.Create(ctx, service.CreateWaitingParams{
		MemberID: member.ID,
		Date:     slot.Date,
		TimeID:   slot.TimeID,
		ThemeID:  slot.ThemeID,
	})
	if err != nil {
		h.replyError(ctx, b, chatID, "wait", err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf(
		"📝 Вы в листе ожидания, заявка #%d\n%s\n\nПозицию в очереди можно посмотреть в /my",
		waiting.ID, formatSlot(waiting.Schedule, waiting.Theme, waiting.Time)))
}

// HandleMy обрабатывает команду /my
func (h *Handlers) HandleMy(ctx context.Context, b *bot.Bot, update *models.Update) {
	member, ok := h.requireMember(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	reservations, err := h.reservationService.FindByMemberID(ctx, member.ID)
	if err != nil {
		h.replyError(ctx, b, chatID, "my reservations", err)
		return
	}
	waitings, err := h.waitingService.FindRanksByMemberID(ctx, member.ID)
	if err != nil {
		h.replyError(ctx, b, chatID, "my waitings", err)
		return
	}

	blocks := make([]string, 0, len(reservations)+len(waitings))
	for _, r := range reservations {
		blocks = append(blocks, FormatReservation(r))
	}
	for _, w := range waitings {
		blocks = append(blocks, FormatWaitingWithRank(w))
	}

	var sb strings.Builder
	sb.WriteString("📋 Мои записи\n\n")
	sb.WriteString(joinBlocks(blocks, "📭 У вас нет бронирований и заявок"))
	h.sendMessage(ctx, b, chatID, sb.String())
}

// HandleCancel обрабатывает команду /cancel <id бронирования>
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	member, ok := h.requireMember(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "❌ Формат: /cancel <id бронирования>")
		return
	}
	reservationID, err := parseID(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "cancel", err)
		return
	}

	promoted, err := h.reservationService.CancelByMember(ctx, member.ID, reservationID)
	if err != nil {
		h.replyError(ctx, b, chatID, "cancel", err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Бронирование #%d отменено", reservationID))
	h.NotifyPromoted(ctx, b, promoted)
}

// HandleLeave обрабатывает команду /leave <id заявки>
func (h *Handlers) HandleLeave(ctx context.Context, b *bot.Bot, update *models.Update) {
	member, ok := h.requireMember(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "❌ Формат: /leave <id заявки>")
		return
	}
	waitingID, err := parseID(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "leave", err)
		return
	}

	if err := h.waitingService.DeleteByMemberAndID(ctx, member.ID, waitingID); err != nil {
		h.replyError(ctx, b, chatID, "leave", err)
		return
	}

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Заявка #%d удалена из листа ожидания", waitingID))
}

// NotifyPromoted сообщает участнику, что его заявка стала бронированием
func (h *Handlers) NotifyPromoted(ctx context.Context, b *bot.Bot, reservation *model.Reservation) {
	if reservation == nil {
		return
	}
	h.notifyMember(ctx, b, reservation.Member, FormatPromotion(reservation))
}
