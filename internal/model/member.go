package model

import "time"

type Member struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	IsAdmin    bool      `json:"is_admin"` // может управлять чужими записями и каталогом
	CreatedAt  time.Time `json:"created_at"`
}

// IsSameID проверяет, принадлежит ли запись этому участнику
func (m *Member) IsSameID(id int64) bool {
	return m != nil && m.ID == id
}

// DisplayName возвращает имя для отображения в сообщениях
func (m *Member) DisplayName() string {
	if m == nil {
		return ""
	}
	if m.Username != "" {
		return "@" + m.Username
	}
	if m.LastName != "" {
		return m.FirstName + " " + m.LastName
	}
	return m.FirstName
}
