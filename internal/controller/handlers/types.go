package handlers

import (
	"time"

	"github.com/Freeeeeet/escape_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	memberService      *service.MemberService
	reservationService *service.ReservationService
	waitingService     *service.WaitingService
	catalogService     *service.CatalogService
	location           *time.Location
	now                func() time.Time
	logger             *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	memberService *service.MemberService,
	reservationService *service.ReservationService,
	waitingService *service.WaitingService,
	catalogService *service.CatalogService,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		memberService:      memberService,
		reservationService: reservationService,
		waitingService:     waitingService,
		catalogService:     catalogService,
		location:           location,
		now:                time.Now,
		logger:             logger,
	}
}

// currentTime текущее время в часовом поясе сеансов
func (h *Handlers) currentTime() time.Time {
	return h.now().In(h.location)
}
