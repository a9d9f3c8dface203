package controller

import (
	"context"
	"strings"

	"github.com/Freeeeeet/escape_bot/internal/controller/handlers"
	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, cmdHandlers *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	routes := map[string]bot.HandlerFunc{
		// Команды участников
		"start":  c.handlers.HandleStart,
		"help":   c.handlers.HandleHelp,
		"themes": c.handlers.HandleThemes,
		"times":  c.handlers.HandleTimes,
		"slots":  c.handlers.HandleSlots,
		"book":   c.handlers.HandleBook,
		"wait":   c.handlers.HandleWait,
		"my":     c.handlers.HandleMy,
		"cancel": c.handlers.HandleCancel,
		"leave":  c.handlers.HandleLeave,

		// Команды администраторов
		"all":      c.handlers.HandleAll,
		"find":     c.handlers.HandleFind,
		"queue":    c.handlers.HandleQueue,
		"approve":  c.handlers.HandleApprove,
		"promote":  c.handlers.HandlePromote,
		"dropwait": c.handlers.HandleDropWait,
		"drop":     c.handlers.HandleDrop,
		"addtheme": c.handlers.HandleAddTheme,
		"addtime":  c.handlers.HandleAddTime,
		"deltheme": c.handlers.HandleDeleteTheme,
		"deltime":  c.handlers.HandleDeleteTime,
	}

	for name, handler := range routes {
		c.bot.RegisterHandlerMatchFunc(matchCommand(name), handler)
	}

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// matchCommand сравнивает первое слово сообщения с командой целиком,
// поэтому /drop не перехватывает /dropwait. Суффикс @botname отбрасывается.
func matchCommand(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		return commandName(update.Message.Text) == name
	}
}

func commandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(fields[0][1:], "@")
	return strings.ToLower(name)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "themes", Description: "🎭 Список тем"},
		{Command: "times", Description: "🕐 Время сеансов"},
		{Command: "slots", Description: "📅 Свободное время на дату"},
		{Command: "book", Description: "✅ Забронировать слот"},
		{Command: "wait", Description: "⏳ Встать в лист ожидания"},
		{Command: "my", Description: "📋 Мои бронирования и заявки"},
		{Command: "cancel", Description: "❌ Отменить бронирование"},
		{Command: "leave", Description: "🚪 Выйти из листа ожидания"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// NotifyPromoted сообщает участнику, что заявка из листа ожидания стала бронированием
func (c *BotController) NotifyPromoted(ctx context.Context, reservation *model.Reservation) {
	c.handlers.NotifyPromoted(ctx, c.bot, reservation)
}

// Start запускает бота и блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
