package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"github.com/Freeeeeet/escape_bot/internal/repository"
)

// memStore хранилище в памяти для тестов сервисов. Транзакции выполняются
// последовательно и откатываются восстановлением снимка.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	members      map[int64]model.Member
	themes       map[int64]model.Theme
	times        map[int64]model.ReservationTime
	reservations map[int64]model.Reservation
	waitings     map[int64]model.Waiting

	nextID int64
	clock  time.Time

	// blindExists заставляет Exists* всегда отвечать false, как при гонке
	// двух запросов между проверкой и вставкой
	blindExists bool
	failures    map[string]error

	// afterFindFirst срабатывает один раз после чтения головы очереди,
	// имитируя параллельный запрос между чтением и продвижением
	afterFindFirst func(head *model.Waiting)
}

type txMarker struct{}

func newMemStore() *memStore {
	return &memStore{
		members:      map[int64]model.Member{},
		themes:       map[int64]model.Theme{},
		times:        map[int64]model.ReservationTime{},
		reservations: map[int64]model.Reservation{},
		waitings:     map[int64]model.Waiting{},
		clock:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		failures:     map[string]error{},
	}
}

func (s *memStore) failOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

func (s *memStore) fail(op string) error {
	return s.failures[op]
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.snapshot()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.mu.Lock()
		s.restore(snapshot)
		s.mu.Unlock()
		return err
	}
	return nil
}

type memSnapshot struct {
	reservations map[int64]model.Reservation
	waitings     map[int64]model.Waiting
	nextID       int64
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		reservations: make(map[int64]model.Reservation, len(s.reservations)),
		waitings:     make(map[int64]model.Waiting, len(s.waitings)),
		nextID:       s.nextID,
	}
	for k, v := range s.reservations {
		snap.reservations[k] = v
	}
	for k, v := range s.waitings {
		snap.waitings[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.reservations = snap.reservations
	s.waitings = snap.waitings
	s.nextID = snap.nextID
}

// Заполнение справочников

func (s *memStore) addMember(name string) *model.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := model.Member{ID: s.id(), TelegramID: 1000 + s.nextID, Username: name, FirstName: name}
	s.members[m.ID] = m
	return &m
}

func (s *memStore) addTheme(name string) *model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	th := model.Theme{ID: s.id(), Name: name}
	s.themes[th.ID] = th
	return &th
}

func (s *memStore) addTime(clock string) *model.ReservationTime {
	startAt, err := model.ParseClock(clock)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rt := model.ReservationTime{ID: s.id(), StartAt: startAt}
	s.times[rt.ID] = rt
	return &rt
}

func (s *memStore) reservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

func (s *memStore) waitingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.waitings)
}

func (s *memStore) reservationFor(schedule model.Schedule) (model.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.Schedule.Equal(schedule) {
			return r, true
		}
	}
	return model.Reservation{}, false
}

// removeWaiting удаляет заявку в обход транзакций, как параллельный запрос
func (s *memStore) removeWaiting(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.waitings, id)
}

func (s *memStore) hasWaiting(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.waitings[id]
	return ok
}

// Представления по типам хранилищ

type memMembers struct{ *memStore }
type memThemes struct{ *memStore }
type memTimes struct{ *memStore }
type memReservations struct{ *memStore }
type memWaitings struct{ *memStore }

func (s memMembers) Create(ctx context.Context, member *model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.TelegramID == member.TelegramID {
			return repository.ErrDuplicate
		}
	}
	member.ID = s.id()
	member.CreatedAt = s.tick()
	s.members[member.ID] = *member
	return nil
}

func (s memMembers) GetByID(ctx context.Context, id int64) (*model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s memMembers) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.TelegramID == telegramID {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (s memMembers) Update(ctx context.Context, member *model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[member.ID]; !ok {
		return model.ErrMemberNotFound
	}
	s.members[member.ID] = *member
	return nil
}

func (s memThemes) Create(ctx context.Context, theme *model.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, th := range s.themes {
		if th.Name == theme.Name {
			return repository.ErrDuplicate
		}
	}
	theme.ID = s.id()
	theme.CreatedAt = s.tick()
	s.themes[theme.ID] = *theme
	return nil
}

func (s memThemes) GetByID(ctx context.Context, id int64) (*model.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	th, ok := s.themes[id]
	if !ok {
		return nil, nil
	}
	return &th, nil
}

func (s memThemes) FindAll(ctx context.Context) ([]*model.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var themes []*model.Theme
	for _, th := range s.themes {
		th := th
		themes = append(themes, &th)
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i].ID < themes[j].ID })
	return themes, nil
}

func (s memThemes) DeleteByID(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.themes[id]; !ok {
		return model.ErrThemeNotFound
	}
	for _, r := range s.reservations {
		if r.Schedule.ThemeID == id {
			return repository.ErrReferenced
		}
	}
	for _, w := range s.waitings {
		if w.Schedule.ThemeID == id {
			return repository.ErrReferenced
		}
	}
	delete(s.themes, id)
	return nil
}

func (s memTimes) Create(ctx context.Context, rt *model.ReservationTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.times {
		if existing.StartAt == rt.StartAt {
			return repository.ErrDuplicate
		}
	}
	rt.ID = s.id()
	s.times[rt.ID] = *rt
	return nil
}

func (s memTimes) GetByID(ctx context.Context, id int64) (*model.ReservationTime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.times[id]
	if !ok {
		return nil, nil
	}
	return &rt, nil
}

func (s memTimes) FindAll(ctx context.Context) ([]*model.ReservationTime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var times []*model.ReservationTime
	for _, rt := range s.times {
		rt := rt
		times = append(times, &rt)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].StartAt < times[j].StartAt })
	return times, nil
}

func (s memTimes) DeleteByID(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.times[id]; !ok {
		return model.ErrTimeNotFound
	}
	for _, r := range s.reservations {
		if r.Schedule.TimeID == id {
			return repository.ErrReferenced
		}
	}
	delete(s.times, id)
	return nil
}

func (s memReservations) Save(ctx context.Context, reservation *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("reservations.Save"); err != nil {
		return err
	}
	for _, r := range s.reservations {
		if r.Schedule.Equal(reservation.Schedule) {
			return repository.ErrDuplicate
		}
	}
	reservation.ID = s.id()
	reservation.CreatedAt = s.tick()
	s.reservations[reservation.ID] = *reservation
	return nil
}

func (s memReservations) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s memReservations) ExistsBySchedule(ctx context.Context, schedule model.Schedule) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blindExists {
		return false, nil
	}
	for _, r := range s.reservations {
		if r.Schedule.Equal(schedule) {
			return true, nil
		}
	}
	return false, nil
}

func (s memReservations) FindAll(ctx context.Context) ([]*model.Reservation, error) {
	return s.FindByFilter(ctx, model.ReservationFilter{})
}

func (s memReservations) FindByFilter(ctx context.Context, filter model.ReservationFilter) ([]*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.Reservation
	for _, r := range s.reservations {
		if filter.MemberID != nil && r.MemberID != *filter.MemberID {
			continue
		}
		if filter.ThemeID != nil && r.Schedule.ThemeID != *filter.ThemeID {
			continue
		}
		if filter.DateFrom != nil && r.Schedule.Date.Before(model.DateOnly(*filter.DateFrom)) {
			continue
		}
		if filter.DateTo != nil && r.Schedule.Date.After(model.DateOnly(*filter.DateTo)) {
			continue
		}
		r := r
		result = append(result, &r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s memReservations) FindByMemberID(ctx context.Context, memberID int64) ([]*model.Reservation, error) {
	return s.FindByFilter(ctx, model.ReservationFilter{MemberID: &memberID})
}

func (s memReservations) FindBookedTimeIDs(ctx context.Context, date time.Time, themeID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	day := model.DateOnly(date)
	for _, r := range s.reservations {
		if r.Schedule.ThemeID == themeID && r.Schedule.Date.Equal(day) {
			ids = append(ids, r.Schedule.TimeID)
		}
	}
	return ids, nil
}

func (s memReservations) DeleteByID(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[id]; !ok {
		return model.ErrReservationNotFound
	}
	delete(s.reservations, id)
	return nil
}

func (s memWaitings) Save(ctx context.Context, waiting *model.Waiting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.waitings {
		if w.MemberID == waiting.MemberID && w.Schedule.Equal(waiting.Schedule) {
			return repository.ErrDuplicate
		}
	}
	waiting.ID = s.id()
	waiting.CreatedAt = s.tick()
	s.waitings[waiting.ID] = *waiting
	return nil
}

func (s memWaitings) GetByID(ctx context.Context, id int64) (*model.Waiting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.waitings[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (s memWaitings) ExistsByID(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.waitings[id]
	return ok, nil
}

func (s memWaitings) ExistsByMemberAndSchedule(ctx context.Context, memberID int64, schedule model.Schedule) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blindExists {
		return false, nil
	}
	for _, w := range s.waitings {
		if w.MemberID == memberID && w.Schedule.Equal(schedule) {
			return true, nil
		}
	}
	return false, nil
}

// sorted возвращает заявки в FIFO порядке, вызывать под s.mu
func (s memWaitings) sorted(keep func(model.Waiting) bool) []*model.Waiting {
	var result []*model.Waiting
	for _, w := range s.waitings {
		if keep(w) {
			w := w
			result = append(result, &w)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (s memWaitings) FindAll(ctx context.Context) ([]*model.Waiting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(model.Waiting) bool { return true }), nil
}

func (s memWaitings) FindBySchedule(ctx context.Context, schedule model.Schedule) ([]*model.Waiting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(w model.Waiting) bool { return w.Schedule.Equal(schedule) }), nil
}

func (s memWaitings) FindFirstBySchedule(ctx context.Context, schedule model.Schedule) (*model.Waiting, error) {
	waitings, err := s.FindBySchedule(ctx, schedule)
	if err != nil || len(waitings) == 0 {
		return nil, err
	}

	s.mu.Lock()
	hook := s.afterFindFirst
	s.afterFindFirst = nil
	s.mu.Unlock()
	if hook != nil {
		hook(waitings[0])
	}

	return waitings[0], nil
}

func (s memWaitings) FindWithRankByMemberID(ctx context.Context, memberID int64) ([]*model.WaitingWithRank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*model.WaitingWithRank
	for _, own := range s.sorted(func(w model.Waiting) bool { return w.MemberID == memberID }) {
		queue := s.sorted(func(w model.Waiting) bool { return w.Schedule.Equal(own.Schedule) })
		for rank, w := range queue {
			if w.ID == own.ID {
				result = append(result, &model.WaitingWithRank{Waiting: own, Rank: int64(rank)})
				break
			}
		}
	}
	return result, nil
}

func (s memWaitings) FindOrphanedSchedules(ctx context.Context, from time.Time) ([]model.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Schedule
	seen := map[model.Schedule]bool{}
	for _, w := range s.sorted(func(model.Waiting) bool { return true }) {
		if seen[w.Schedule] || s.startsAt(w.Schedule, from.Location()).Before(from) {
			continue
		}
		seen[w.Schedule] = true
		reserved := false
		for _, r := range s.reservations {
			if r.Schedule.Equal(w.Schedule) {
				reserved = true
				break
			}
		}
		if !reserved {
			result = append(result, w.Schedule)
		}
	}
	return result, nil
}

func (s memWaitings) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, w := range s.waitings {
		if s.startsAt(w.Schedule, now.Location()).Before(now) {
			delete(s.waitings, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s memWaitings) DeleteByID(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("waitings.DeleteByID"); err != nil {
		return err
	}
	if _, ok := s.waitings[id]; !ok {
		return model.ErrWaitingNotFound
	}
	delete(s.waitings, id)
	return nil
}

func (s *memStore) startsAt(schedule model.Schedule, loc *time.Location) time.Time {
	return schedule.StartsAt(s.times[schedule.TimeID].StartAt, loc)
}

// Проверка соответствия интерфейсам
var (
	_ Transactor       = (*memStore)(nil)
	_ MemberStore      = memMembers{}
	_ ThemeStore       = memThemes{}
	_ TimeStore        = memTimes{}
	_ ReservationStore = memReservations{}
	_ WaitingStore     = memWaitings{}
)
