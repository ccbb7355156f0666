package reminders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeIndex struct {
	upserts []*domain.PendingReminder
	deletes []string
}

func (i *fakeIndex) Upsert(_ context.Context, rem *domain.PendingReminder) error {
	i.upserts = append(i.upserts, rem)
	return nil
}

func (i *fakeIndex) Delete(_ context.Context, key string) error {
	i.deletes = append(i.deletes, key)
	return nil
}

var schedulerNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestService(index *fakeIndex, lead time.Duration) *Service {
	s := NewService(index, lead, NopMetrics{}, "test", nopLogger{})
	s.timeProvider = fixedTime{now: schedulerNow}
	return s
}

func eligibleAppointment(start time.Time) *domain.Appointment {
	return &domain.Appointment{
		ID:              42,
		SalonID:         1,
		ServiceID:       10,
		CustomerName:    ptr.Ptr("Анна"),
		CustomerPhone:   ptr.Ptr("+79990000001"),
		StartAt:         start,
		DurationMinutes: 30,
		Status:          domain.StatusPending,
	}
}

func TestOnAppointmentChanged_SchedulesReminder(t *testing.T) {
	// Lead 2 часа, запись через 3 часа: напоминание через час
	index := &fakeIndex{}
	svc := newTestService(index, 2*time.Hour)

	start := schedulerNow.Add(3 * time.Hour)
	err := svc.OnAppointmentChanged(context.Background(), 1, 42, eligibleAppointment(start))

	require.NoError(t, err)
	require.Len(t, index.upserts, 1)
	rem := index.upserts[0]
	assert.Equal(t, schedulerNow.Add(time.Hour), rem.DueAt)
	assert.Equal(t, start, rem.AppointmentStart)
	assert.Equal(t, "+79990000001", rem.CustomerPhone)
	assert.Equal(t, "salon:1:appt:42", rem.Key())
	assert.Empty(t, index.deletes)
}

func TestOnAppointmentChanged_DeletedAppointmentRemovesReminder(t *testing.T) {
	index := &fakeIndex{}
	svc := newTestService(index, 2*time.Hour)

	err := svc.OnAppointmentChanged(context.Background(), 1, 42, nil)

	require.NoError(t, err)
	assert.Empty(t, index.upserts)
	assert.Equal(t, []string{"salon:1:appt:42"}, index.deletes)
}

func TestOnAppointmentChanged_TerminalStatusRemovesReminder(t *testing.T) {
	for _, status := range domain.TerminalStatuses {
		index := &fakeIndex{}
		svc := newTestService(index, 2*time.Hour)

		appt := eligibleAppointment(schedulerNow.Add(3 * time.Hour))
		appt.Status = status

		err := svc.OnAppointmentChanged(context.Background(), 1, 42, appt)

		require.NoError(t, err)
		assert.Empty(t, index.upserts, "status %s", status)
		assert.Equal(t, []string{"salon:1:appt:42"}, index.deletes, "status %s", status)
	}
}

func TestOnAppointmentChanged_PastDueRemovesReminder(t *testing.T) {
	// Запись через час, lead 2 часа: срок напоминания уже прошел
	index := &fakeIndex{}
	svc := newTestService(index, 2*time.Hour)

	err := svc.OnAppointmentChanged(context.Background(), 1, 42, eligibleAppointment(schedulerNow.Add(time.Hour)))

	require.NoError(t, err)
	assert.Empty(t, index.upserts)
	assert.Equal(t, []string{"salon:1:appt:42"}, index.deletes)
}

func TestOnAppointmentChanged_NoPhoneRemovesReminder(t *testing.T) {
	for _, phone := range []*string{nil, ptr.Ptr(""), ptr.Ptr("   ")} {
		index := &fakeIndex{}
		svc := newTestService(index, 2*time.Hour)

		appt := eligibleAppointment(schedulerNow.Add(3 * time.Hour))
		appt.CustomerPhone = phone

		err := svc.OnAppointmentChanged(context.Background(), 1, 42, appt)

		require.NoError(t, err)
		assert.Empty(t, index.upserts)
		assert.Equal(t, []string{"salon:1:appt:42"}, index.deletes)
	}
}

func TestOnAppointmentChanged_RepeatedApplicationIsIdempotent(t *testing.T) {
	// Повторная доставка того же события заменяет напоминание тем же значением
	index := &fakeIndex{}
	svc := newTestService(index, 2*time.Hour)

	appt := eligibleAppointment(schedulerNow.Add(3 * time.Hour))

	require.NoError(t, svc.OnAppointmentChanged(context.Background(), 1, 42, appt))
	require.NoError(t, svc.OnAppointmentChanged(context.Background(), 1, 42, appt))

	require.Len(t, index.upserts, 2)
	assert.Equal(t, index.upserts[0], index.upserts[1])
}

func TestOnAppointmentChanged_RescheduleMovesDueAt(t *testing.T) {
	index := &fakeIndex{}
	svc := newTestService(index, 2*time.Hour)

	appt := eligibleAppointment(schedulerNow.Add(3 * time.Hour))
	require.NoError(t, svc.OnAppointmentChanged(context.Background(), 1, 42, appt))

	appt.StartAt = schedulerNow.Add(5 * time.Hour)
	require.NoError(t, svc.OnAppointmentChanged(context.Background(), 1, 42, appt))

	require.Len(t, index.upserts, 2)
	assert.Equal(t, schedulerNow.Add(3*time.Hour), index.upserts[1].DueAt)
	assert.Equal(t, index.upserts[0].Key(), index.upserts[1].Key())
}
