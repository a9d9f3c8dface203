package handlers

import (
	"context"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type loggerKey struct{}

// RequestLogger добавляет в контекст логгер с request_id для каждого апдейта
func (h *Handlers) RequestLogger(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		fields := []zap.Field{
			zap.String("request_id", uuid.NewString()),
			zap.Int64("update_id", update.ID),
		}
		if update.Message != nil && update.Message.From != nil {
			fields = append(fields, zap.Int64("telegram_id", update.Message.From.ID))
		}

		next(context.WithValue(ctx, loggerKey{}, h.logger.With(fields...)), b, update)
	}
}

// log возвращает логгер запроса или общий логгер
func (h *Handlers) log(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return h.logger
}

// requireMember проверяет что участник зарегистрирован
// Возвращает member и true если OK, nil и false если нет
func (h *Handlers) requireMember(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Member, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	member, err := h.memberService.GetByTelegramID(ctx, telegramID)

	if err != nil {
		h.log(ctx).Error("Failed to get member", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}

	if member == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Вы не зарегистрированы. Используйте /start для регистрации.")
		return nil, false
	}

	return member, true
}

// requireAdmin проверяет что участник является администратором
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Member, bool) {
	member, ok := h.requireMember(ctx, b, update)
	if !ok {
		return nil, false
	}

	if !member.IsAdmin {
		h.sendError(ctx, b, update.Message.Chat.ID, "⛔ Эта команда доступна только администраторам.")
		return nil, false
	}

	return member, true
}

// replyError отвечает сообщением об ошибке; неожиданные ошибки логируются
func (h *Handlers) replyError(ctx context.Context, b *bot.Bot, chatID int64, op string, err error) {
	if isExpected(err) {
		h.log(ctx).Debug("Request rejected", zap.String("op", op), zap.Error(err))
	} else {
		h.log(ctx).Error("Request failed", zap.String("op", op), zap.Error(err))
	}
	h.sendError(ctx, b, chatID, ErrorMessage(err))
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.log(ctx).Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.log(ctx).Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// notifyMember сообщает участнику о продвижении из листа ожидания
func (h *Handlers) notifyMember(ctx context.Context, b *bot.Bot, member *model.Member, text string) {
	if member == nil || member.TelegramID == 0 {
		return
	}
	h.sendMessage(ctx, b, member.TelegramID, text)
}
