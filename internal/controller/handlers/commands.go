package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/themes - Список тем\n" +
	"/times - Время сеансов\n" +
	"/slots <дата> <id темы> - Свободное время на дату\n" +
	"/book <дата> <id времени> <id темы> - Забронировать\n" +
	"/wait <дата> <id времени> <id темы> - Встать в лист ожидания\n" +
	"/my - Мои бронирования и заявки\n" +
	"/cancel <id бронирования> - Отменить бронирование\n" +
	"/leave <id заявки> - Выйти из листа ожидания\n\n" +
	"Дата: 2025-06-01 или 01.06.2025"

const adminHelpText = "\n\nДля администраторов:\n" +
	"/all - Все бронирования\n" +
	"/find member=ID theme=ID from=ДАТА to=ДАТА - Поиск бронирований\n" +
	"/queue [<id темы> <дата> <id времени>] - Заявки, все или одного слота\n" +
	"/approve <id заявки> - Одобрить заявку\n" +
	"/promote <id темы> <дата> <id времени> - Одобрить первую заявку слота\n" +
	"/dropwait <id заявки> - Удалить заявку\n" +
	"/drop <id бронирования> - Удалить бронирование\n" +
	"/addtheme <название> | <описание> - Добавить тему\n" +
	"/addtime <ЧЧ:ММ> - Добавить время\n" +
	"/deltheme <id темы> - Удалить тему\n" +
	"/deltime <id времени> - Удалить время"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	// Регистрируем участника
	member, err := h.memberService.Register(ctx, user.ID, user.Username, user.FirstName, user.LastName)
	if err != nil {
		h.log(ctx).Error("Failed to register member", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	text := fmt.Sprintf("👋 Привет, %s!\n\nЗдесь можно забронировать квест-комнату.\n\n%s", member.FirstName, helpText)
	if member.IsAdmin {
		text += adminHelpText
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := helpText
	if update.Message.From != nil {
		if member, err := h.memberService.GetByTelegramID(ctx, update.Message.From.ID); err == nil && member != nil && member.IsAdmin {
			text += adminHelpText
		}
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

// HandleThemes обрабатывает команду /themes
func (h *Handlers) HandleThemes(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	themes, err := h.catalogService.ListThemes(ctx)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, "list themes", err)
		return
	}

	blocks := make([]string, 0, len(themes))
	for _, theme := range themes {
		block := fmt.Sprintf("🎭 #%d «%s»", theme.ID, theme.Name)
		if theme.Description != "" {
			block += "\n" + theme.Description
		}
		blocks = append(blocks, block)
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, joinBlocks(blocks, "📭 Тем пока нет"))
}

// HandleTimes обрабатывает команду /times
func (h *Handlers) HandleTimes(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	times, err := h.catalogService.ListTimes(ctx)
	if err != nil {
		h.replyError(ctx, b, update.Message.Chat.ID, "list times", err)
		return
	}

	lines := make([]string, 0, len(times))
	for _, rt := range times {
		lines = append(lines, fmt.Sprintf("🕐 #%d %s", rt.ID, rt))
	}
	if len(lines) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 Время сеансов не задано")
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, strings.Join(lines, "\n"))
}

// HandleSlots обрабатывает команду /slots <дата> <id темы>
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 2 {
		h.sendError(ctx, b, chatID, "❌ Формат: /slots <дата> <id темы>")
		return
	}
	date, err := parseDate(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "slots", err)
		return
	}
	themeID, err := parseID(args[1])
	if err != nil {
		h.replyError(ctx, b, chatID, "slots", err)
		return
	}

	availability, err := h.catalogService.AvailableTimes(ctx, date, themeID)
	if err != nil {
		h.replyError(ctx, b, chatID, "slots", err)
		return
	}

	lines := []string{fmt.Sprintf("📅 %s, тема #%d:", FormatDate(date), themeID)}
	for _, a := range availability {
		status := "🟢 свободно"
		if a.Booked {
			status = "🔴 занято (можно /wait)"
		}
		lines = append(lines, fmt.Sprintf("#%d %s - %s", a.Time.ID, a.Time, status))
	}
	h.sendMessage(ctx, b, chatID, strings.Join(lines, "\n"))
}

// HandleDefault отвечает на неизвестные сообщения
func (h *Handlers) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, "🤔 Неизвестная команда. Справка: /help")
}
