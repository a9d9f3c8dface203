package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
)

// ErrUsage неверные аргументы команды
var ErrUsage = errors.New("invalid command arguments")

var dateLayouts = []string{"2006-01-02", "02.01.2006"}

// commandArgs возвращает аргументы после команды
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// commandTail возвращает весь текст после команды без изменений
func commandTail(text string) string {
	text = strings.TrimSpace(text)
	idx := strings.IndexAny(text, " \t\n")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(text[idx:])
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad date %q", ErrUsage, s)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad id %q", ErrUsage, s)
	}
	return id, nil
}

// slotArgs аргументы вида <дата> <id времени> <id темы>
type slotArgs struct {
	Date    time.Time
	TimeID  int64
	ThemeID int64
}

func parseSlotArgs(args []string) (slotArgs, error) {
	if len(args) != 3 {
		return slotArgs{}, fmt.Errorf("%w: want <date> <time_id> <theme_id>", ErrUsage)
	}

	date, err := parseDate(args[0])
	if err != nil {
		return slotArgs{}, err
	}
	timeID, err := parseID(args[1])
	if err != nil {
		return slotArgs{}, err
	}
	themeID, err := parseID(args[2])
	if err != nil {
		return slotArgs{}, err
	}

	return slotArgs{Date: date, TimeID: timeID, ThemeID: themeID}, nil
}

// parsePromoteArgs разбирает аргументы вида <id темы> <дата> <id времени>
func parsePromoteArgs(args []string) (slotArgs, error) {
	if len(args) != 3 {
		return slotArgs{}, fmt.Errorf("%w: want <theme_id> <date> <time_id>", ErrUsage)
	}
	return parseSlotArgs([]string{args[1], args[2], args[0]})
}

// parseFilter разбирает условия вида member=1 theme=2 from=2025-06-01 to=2025-06-30
func parseFilter(args []string) (model.ReservationFilter, error) {
	var filter model.ReservationFilter

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return filter, fmt.Errorf("%w: expected key=value, got %q", ErrUsage, arg)
		}

		switch key {
		case "member":
			id, err := parseID(value)
			if err != nil {
				return filter, err
			}
			filter.MemberID = &id
		case "theme":
			id, err := parseID(value)
			if err != nil {
				return filter, err
			}
			filter.ThemeID = &id
		case "from":
			date, err := parseDate(value)
			if err != nil {
				return filter, err
			}
			filter.DateFrom = &date
		case "to":
			date, err := parseDate(value)
			if err != nil {
				return filter, err
			}
			filter.DateTo = &date
		default:
			return filter, fmt.Errorf("%w: unknown filter %q", ErrUsage, key)
		}
	}

	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return filter, fmt.Errorf("%w: date range is reversed", ErrUsage)
	}

	return filter, nil
}

// parseThemeArgs разбирает "<название> | <описание>"
func parseThemeArgs(tail string) (name, description string, err error) {
	name, description, _ = strings.Cut(tail, "|")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("%w: theme name is required", ErrUsage)
	}
	return name, strings.TrimSpace(description), nil
}
