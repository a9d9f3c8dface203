package model

import "time"

type Theme struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"` // ссылка на картинку, может быть пустой
	CreatedAt   time.Time `json:"created_at"`
}
