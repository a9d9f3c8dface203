package model

import "time"

// Schedule идентифицирует бронируемый слот: дата, время и тема.
// Два Schedule равны, если совпадают все три поля.
type Schedule struct {
	Date    time.Time `json:"date"` // всегда полночь UTC
	TimeID  int64     `json:"time_id"`
	ThemeID int64     `json:"theme_id"`
}

// NewSchedule нормализует дату до календарного дня
func NewSchedule(date time.Time, timeID, themeID int64) Schedule {
	return Schedule{
		Date:    DateOnly(date),
		TimeID:  timeID,
		ThemeID: themeID,
	}
}

// DateOnly отбрасывает время и часовой пояс, оставляя календарный день
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Equal сравнивает слоты структурно
func (s Schedule) Equal(other Schedule) bool {
	return s.TimeID == other.TimeID &&
		s.ThemeID == other.ThemeID &&
		DateOnly(s.Date).Equal(DateOnly(other.Date))
}

// StartsAt возвращает момент начала слота в часовом поясе loc
func (s Schedule) StartsAt(startAt time.Duration, loc *time.Location) time.Time {
	y, m, d := s.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(startAt)
}
