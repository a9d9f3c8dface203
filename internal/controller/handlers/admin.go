package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleAll обрабатывает команду /all
func (h *Handlers) HandleAll(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	reservations, err := h.reservationService.FindAll(ctx)
	if err != nil {
		h.replyError(ctx, b, chatID, "all reservations", err)
		return
	}
	h.sendReservations(ctx, b, chatID, reservations)
}

// HandleFind обрабатывает команду /find member=ID theme=ID from=ДАТА to=ДАТА
func (h *Handlers) HandleFind(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	filter, err := parseFilter(commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Формат: /find member=ID theme=ID from=ДАТА to=ДАТА")
		return
	}

	reservations, err := h.reservationService.FindByFilter(ctx, filter)
	if err != nil {
		h.replyError(ctx, b, chatID, "find reservations", err)
		return
	}
	h.sendReservations(ctx, b, chatID, reservations)
}

// HandleQueue обрабатывает команду /queue [<id темы> <дата> <id времени>]
func (h *Handlers) HandleQueue(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	var (
		waitings []*model.Waiting
		err      error
	)
	switch args := commandArgs(update.Message.Text); len(args) {
	case 0:
		waitings, err = h.waitingService.FindAll(ctx)
	case 3:
		slot, parseErr := parsePromoteArgs(args)
		if parseErr != nil {
			h.sendError(ctx, b, chatID, "❌ Формат: /queue [<id темы> <дата> <id времени>]")
			return
		}
		waitings, err = h.waitingService.FindBySchedule(ctx, slot.ThemeID, slot.Date, slot.TimeID)
	default:
		h.sendError(ctx, b, chatID, "❌ Формат: /queue [<id темы> <дата> <id времени>]")
		return
	}
	if err != nil {
		h.replyError(ctx, b, chatID, "all waitings", err)
		return
	}

	blocks := make([]string, 0, len(waitings))
	for _, w := range waitings {
		blocks = append(blocks, FormatWaitingAdmin(w))
	}
	h.sendMessage(ctx, b, chatID, joinBlocks(blocks, "📭 Лист ожидания пуст"))
}

// HandleApprove обрабатывает команду /approve <id заявки>
func (h *Handlers) HandleApprove(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "❌ Формат: /approve <id заявки>")
		return
	}
	waitingID, err := parseID(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "approve", err)
		return
	}

	reservation, err := h.waitingService.Approve(ctx, waitingID)
	if err != nil {
		h.replyError(ctx, b, chatID, "approve", err)
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Заявка одобрена\n\n"+FormatReservationAdmin(reservation))
	h.NotifyPromoted(ctx, b, reservation)
}

// HandlePromote обрабатывает команду /promote <id темы> <дата> <id времени>
func (h *Handlers) HandlePromote(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	slot, err := parsePromoteArgs(commandArgs(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Формат: /promote <id темы> <дата> <id времени>")
		return
	}

	reservation, err := h.waitingService.ApproveFirst(ctx, slot.ThemeID, slot.Date, slot.TimeID)
	if err != nil {
		h.replyError(ctx, b, chatID, "promote", err)
		return
	}
	if reservation == nil {
		h.sendMessage(ctx, b, chatID, "📭 В очереди на этот слот никого нет")
		return
	}

	h.sendMessage(ctx, b, chatID, "✅ Первая заявка одобрена\n\n"+FormatReservationAdmin(reservation))
	h.NotifyPromoted(ctx, b, reservation)
}

// HandleDropWait обрабатывает команду /dropwait <id заявки>
func (h *Handlers) HandleDropWait(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "❌ Формат: /dropwait <id заявки>")
		return
	}
	waitingID, err := parseID(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "drop waiting", err)
		return
	}

	if err := h.waitingService.DeleteByID(ctx, waitingID); err != nil {
		h.replyError(ctx, b, chatID, "drop waiting", err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Заявка #%d удалена", waitingID))
}

// HandleDrop обрабатывает команду /drop <id бронирования>
func (h *Handlers) HandleDrop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "❌ Формат: /drop <id бронирования>")
		return
	}
	reservationID, err := parseID(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "drop reservation", err)
		return
	}

	promoted, err := h.reservationService.DeleteByIDAndPromote(ctx, reservationID)
	if err != nil {
		h.replyError(ctx, b, chatID, "drop reservation", err)
		return
	}

	text := fmt.Sprintf("✅ Бронирование #%d удалено", reservationID)
	if promoted != nil {
		text += "\n\nСлот передан следующему в очереди:\n" + FormatReservationAdmin(promoted)
	}
	h.sendMessage(ctx, b, chatID, text)
	h.NotifyPromoted(ctx, b, promoted)
}

// HandleAddTheme обрабатывает команду /addtheme <название> | <описание>
func (h *Handlers) HandleAddTheme(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	name, description, err := parseThemeArgs(commandTail(update.Message.Text))
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Формат: /addtheme <название> | <описание>")
		return
	}

	theme, err := h.catalogService.CreateTheme(ctx, name, description, "")
	if err != nil {
		h.replyError(ctx, b, chatID, "add theme", err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Тема #%d «%s» добавлена", theme.ID, theme.Name))
}

// HandleAddTime обрабатывает команду /addtime <ЧЧ:ММ>
func (h *Handlers) HandleAddTime(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "❌ Формат: /addtime <ЧЧ:ММ>")
		return
	}
	startAt, err := model.ParseClock(args[0])
	if err != nil {
		h.sendError(ctx, b, chatID, "❌ Формат: /addtime <ЧЧ:ММ>")
		return
	}

	rt, err := h.catalogService.CreateTime(ctx, startAt)
	if err != nil {
		h.replyError(ctx, b, chatID, "add time", err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Время #%d %s добавлено", rt.ID, rt))
}

func (h *Handlers) sendReservations(ctx context.Context, b *bot.Bot, chatID int64, reservations []*model.Reservation) {
	blocks := make([]string, 0, len(reservations))
	for _, r := range reservations {
		blocks = append(blocks, FormatReservationAdmin(r))
	}
	h.sendMessage(ctx, b, chatID, joinBlocks(blocks, "📭 Бронирований нет"))
}

// HandleDeleteTheme обрабатывает команду /deltheme <id темы>
func (h *Handlers) HandleDeleteTheme(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleDeleteCatalog(ctx, b, update, "/deltheme <id темы>", "delete theme", h.catalogService.DeleteTheme,
		"✅ Тема #%d удалена")
}

// HandleDeleteTime обрабатывает команду /deltime <id времени>
func (h *Handlers) HandleDeleteTime(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleDeleteCatalog(ctx, b, update, "/deltime <id времени>", "delete time", h.catalogService.DeleteTime,
		"✅ Время #%d удалено")
}

func (h *Handlers) handleDeleteCatalog(
	ctx context.Context,
	b *bot.Bot,
	update *models.Update,
	usage, op string,
	del func(context.Context, int64) error,
	done string,
) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendError(ctx, b, chatID, "❌ Формат: "+usage)
		return
	}
	id, err := parseID(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, op, err)
		return
	}

	if err := del(ctx, id); err != nil {
		h.replyError(ctx, b, chatID, op, err)
		return
	}
	h.sendMessage(ctx, b, chatID, fmt.Sprintf(done, id))
}
