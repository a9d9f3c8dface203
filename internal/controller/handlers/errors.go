package handlers

import (
	"errors"

	"github.com/Freeeeeet/escape_bot/internal/model"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUsage):
		return "❌ Неверный формат команды. Справка: /help"
	case errors.Is(err, model.ErrReservationNotFound):
		return "❌ Бронирование не найдено"
	case errors.Is(err, model.ErrWaitingNotFound):
		return "❌ Заявка в листе ожидания не найдена"
	case errors.Is(err, model.ErrMemberNotFound):
		return "❌ Участник не найден. Используйте /start"
	case errors.Is(err, model.ErrThemeNotFound):
		return "❌ Тема не найдена. Список тем: /themes"
	case errors.Is(err, model.ErrTimeNotFound):
		return "❌ Время сеанса не найдено. Список: /times"
	case errors.Is(err, model.ErrNotFound):
		return "❌ Не найдено"
	case errors.Is(err, model.ErrSlotReserved):
		return "⏳ Этот слот уже забронирован"
	case errors.Is(err, model.ErrWaitingExists):
		return "⏳ Вы уже в листе ожидания на этот слот"
	case errors.Is(err, model.ErrPastSlot):
		return "❌ Нельзя забронировать прошедшее время"
	case errors.Is(err, model.ErrTooSoon):
		return "❌ До начала сеанса меньше 10 минут, бронирование закрыто"
	case errors.Is(err, model.ErrDuplicateName):
		return "❌ Такая запись уже существует"
	case errors.Is(err, model.ErrInUse):
		return "❌ Нельзя удалить: есть бронирования или заявки"
	case errors.Is(err, model.ErrUnavailable):
		return "❌ Операция недоступна"
	case errors.Is(err, model.ErrDeletionNotAllowed):
		return "⛔ Нельзя удалить чужую запись"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// isExpected сообщает, является ли ошибка штатным отказом, а не сбоем
func isExpected(err error) bool {
	return errors.Is(err, ErrUsage) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrUnavailable) ||
		errors.Is(err, model.ErrDeletionNotAllowed)
}
