package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptStorage "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	salonClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/salonservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeIndex потокобезопасен: process выполняется конкурентно.
// Как и реальный индекс, отдает только элементы со сроком не позднее now
// и не отдает изъятые (claim) и удаленные.
type fakeIndex struct {
	mu      sync.Mutex
	entries []*domain.PendingReminder
	claimed map[string]bool
	removed map[string]bool
	deletes []string
}

func newFakeIndex(entries ...*domain.PendingReminder) *fakeIndex {
	return &fakeIndex{entries: entries, claimed: map[string]bool{}, removed: map[string]bool{}}
}

func (i *fakeIndex) ListDue(_ context.Context, now time.Time) ([]*domain.PendingReminder, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var due []*domain.PendingReminder
	for _, rem := range i.entries {
		if rem.DueAt.After(now) || i.claimed[rem.Key()] || i.removed[rem.Key()] {
			continue
		}
		due = append(due, rem)
	}
	return due, nil
}

func (i *fakeIndex) Claim(_ context.Context, key string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.claimed[key] {
		return false, nil
	}
	i.claimed[key] = true
	return true, nil
}

func (i *fakeIndex) Delete(_ context.Context, key string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.removed[key] = true
	i.deletes = append(i.deletes, key)
	return nil
}

type fakeApptRepo struct {
	mu    sync.Mutex
	byID  map[int64]*domain.Appointment
	fail  bool
	calls int
}

func (r *fakeApptRepo) GetByID(_ context.Context, _, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail {
		return nil, errors.New("db is down")
	}
	appt, ok := r.byID[id]
	if !ok {
		return nil, apptStorage.ErrAppointmentNotFound
	}
	return appt, nil
}

type fakeSalons struct {
	salon *salonClient.Salon
	err   error
}

func (s *fakeSalons) GetSalon(context.Context, int64) (*salonClient.Salon, error) {
	return s.salon, s.err
}

type fakeSender struct {
	mu      sync.Mutex
	sent    map[string]string // phone -> message
	failFor map[string]bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: map[string]string{}, failFor: map[string]bool{}}
}

func (s *fakeSender) Send(_ context.Context, phone, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[phone] {
		return errors.New("gateway unavailable")
	}
	s.sent[phone] = message
	return nil
}

var dispatchNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func dueReminder(apptID int64, phone string) *domain.PendingReminder {
	return &domain.PendingReminder{
		SalonID:          1,
		AppointmentID:    apptID,
		CustomerPhone:    phone,
		CustomerName:     ptr.Ptr("Анна"),
		AppointmentStart: dispatchNow.Add(2 * time.Hour),
		DueAt:            dispatchNow.Add(-time.Minute),
	}
}

func activeAppointment(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		SalonID:         1,
		ServiceID:       10,
		StartAt:         dispatchNow.Add(2 * time.Hour),
		DurationMinutes: 30,
		Status:          domain.StatusPending,
	}
}

func newTestService(index *fakeIndex, repo *fakeApptRepo, salons *fakeSalons, sender *fakeSender) *Service {
	s := NewService(index, repo, salons, sender, NopMetrics{}, nopLogger{}, Config{
		Interval:    time.Minute,
		SendTimeout: time.Second,
	})
	s.timeProvider = fixedTime{now: dispatchNow}
	return s
}

func TestRunCycle_SendsDueReminder(t *testing.T) {
	index := newFakeIndex(dueReminder(42, "+79990000001"))
	repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{42: activeAppointment(42)}}
	salons := &fakeSalons{salon: &salonClient.Salon{ID: 1, Name: "Тестовый салон", Timezone: "UTC"}}
	sender := newFakeSender()

	svc := newTestService(index, repo, salons, sender)
	require.NoError(t, svc.RunCycle(context.Background()))

	require.Contains(t, sender.sent, "+79990000001")
	message := sender.sent["+79990000001"]
	assert.Contains(t, message, "Анна")
	assert.Contains(t, message, "Тестовый салон")
	assert.Contains(t, message, "10:00")
	assert.True(t, index.claimed["salon:1:appt:42"])
}

func TestRunCycle_ClaimedOnceUnderConcurrentDispatchers(t *testing.T) {
	// Две службы над одним индексом: напоминание отправляется ровно один раз
	index := newFakeIndex(dueReminder(42, "+79990000001"))
	repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{42: activeAppointment(42)}}
	salons := &fakeSalons{salon: &salonClient.Salon{ID: 1, Timezone: "UTC"}}
	sender := newFakeSender()

	first := newTestService(index, repo, salons, sender)
	second := newTestService(index, repo, salons, sender)

	var wg sync.WaitGroup
	for _, svc := range []*Service{first, second} {
		wg.Add(1)
		go func(s *Service) {
			defer wg.Done()
			_ = s.RunCycle(context.Background())
		}(svc)
	}
	wg.Wait()

	assert.Len(t, sender.sent, 1)
}

func TestRunCycle_FutureReminderNotSentUntilDue(t *testing.T) {
	// Напоминание со сроком через час: немедленный цикл ничего не отправляет
	rem := dueReminder(42, "+79990000001")
	rem.DueAt = dispatchNow.Add(time.Hour)

	index := newFakeIndex(rem)
	repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{42: activeAppointment(42)}}
	salons := &fakeSalons{salon: &salonClient.Salon{ID: 1, Timezone: "UTC"}}
	sender := newFakeSender()

	svc := newTestService(index, repo, salons, sender)
	require.NoError(t, svc.RunCycle(context.Background()))
	assert.Empty(t, sender.sent)

	// Срок наступил: напоминание уходит ровно один раз
	svc.timeProvider = fixedTime{now: dispatchNow.Add(time.Hour)}
	require.NoError(t, svc.RunCycle(context.Background()))
	assert.Len(t, sender.sent, 1)

	// Изъятый элемент не переотправляется последующими циклами
	svc.timeProvider = fixedTime{now: dispatchNow.Add(2 * time.Hour)}
	require.NoError(t, svc.RunCycle(context.Background()))
	assert.Len(t, sender.sent, 1)
}

func TestRunCycle_TerminalAppointmentDropsReminder(t *testing.T) {
	cancelled := activeAppointment(42)
	cancelled.Status = domain.StatusCancelled

	index := newFakeIndex(dueReminder(42, "+79990000001"))
	repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{42: cancelled}}
	sender := newFakeSender()

	svc := newTestService(index, repo, &fakeSalons{}, sender)
	require.NoError(t, svc.RunCycle(context.Background()))

	assert.Empty(t, sender.sent)
	assert.Equal(t, []string{"salon:1:appt:42"}, index.deletes)
	assert.False(t, index.claimed["salon:1:appt:42"])
}

func TestRunCycle_MissingAppointmentDropsReminder(t *testing.T) {
	index := newFakeIndex(dueReminder(42, "+79990000001"))
	repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{}}
	sender := newFakeSender()

	svc := newTestService(index, repo, &fakeSalons{}, sender)
	require.NoError(t, svc.RunCycle(context.Background()))

	assert.Empty(t, sender.sent)
	assert.Equal(t, []string{"salon:1:appt:42"}, index.deletes)
}

func TestRunCycle_RepoErrorLeavesReminderForNextCycle(t *testing.T) {
	index := newFakeIndex(dueReminder(42, "+79990000001"))
	repo := &fakeApptRepo{fail: true}
	sender := newFakeSender()

	svc := newTestService(index, repo, &fakeSalons{}, sender)
	require.NoError(t, svc.RunCycle(context.Background()))

	assert.Empty(t, sender.sent)
	assert.Empty(t, index.deletes)
	assert.False(t, index.claimed["salon:1:appt:42"])
}

func TestRunCycle_SendFailureDoesNotAffectSiblings(t *testing.T) {
	index := newFakeIndex(
		dueReminder(42, "+79990000001"),
		dueReminder(43, "+79990000002"),
	)
	repo := &fakeApptRepo{byID: map[int64]*domain.Appointment{
		42: activeAppointment(42),
		43: activeAppointment(43),
	}}
	sender := newFakeSender()
	sender.failFor["+79990000001"] = true

	svc := newTestService(index, repo, &fakeSalons{salon: &salonClient.Salon{ID: 1, Timezone: "UTC"}}, sender)
	require.NoError(t, svc.RunCycle(context.Background()))

	// Второе напоминание доставлено, первое изъято и потеряно (без re-queue)
	assert.Contains(t, sender.sent, "+79990000002")
	assert.NotContains(t, sender.sent, "+79990000001")
	assert.True(t, index.claimed["salon:1:appt:42"])
}

func TestFormatMessage_SalonTimezone(t *testing.T) {
	// Запись на 08:00 UTC, салон в Москве: в сообщении 11:00
	index := newFakeIndex()
	repo := &fakeApptRepo{}
	salons := &fakeSalons{salon: &salonClient.Salon{ID: 1, Name: "Салон", Timezone: "Europe/Moscow"}}

	svc := newTestService(index, repo, salons, newFakeSender())

	rem := dueReminder(42, "+79990000001")
	appt := activeAppointment(42)
	appt.StartAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	message := svc.formatMessage(context.Background(), rem, appt)
	assert.Contains(t, message, "11:00")
	assert.Contains(t, message, "2026-03-01")
}

func TestFormatMessage_DirectoryDownFallsBackToUTC(t *testing.T) {
	salons := &fakeSalons{err: errors.New("directory unavailable")}
	svc := newTestService(newFakeIndex(), &fakeApptRepo{}, salons, newFakeSender())

	rem := dueReminder(42, "+79990000001")
	appt := activeAppointment(42)
	appt.StartAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	message := svc.formatMessage(context.Background(), rem, appt)
	assert.Contains(t, message, "08:00")
	assert.False(t, strings.Contains(message, "«"), "no salon name when directory is down")
}
