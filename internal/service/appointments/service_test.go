package appointments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	apptStorage "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	salonClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/salonservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	byID   map[int64]*domain.Appointment
	forDay []*domain.Appointment

	lastFilter    *domain.SalonDayFilter
	statusUpdates []domain.AppointmentStatus
	cancelReasons []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[int64]*domain.Appointment{}}
}

func (r *fakeRepo) GetByID(_ context.Context, salonID, id int64) (*domain.Appointment, error) {
	appt, ok := r.byID[id]
	if !ok || appt.SalonID != salonID {
		return nil, apptStorage.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeRepo) ListForDay(_ context.Context, filter domain.SalonDayFilter) ([]*domain.Appointment, error) {
	r.lastFilter = &filter
	return r.forDay, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, _, id int64, status domain.AppointmentStatus) error {
	r.statusUpdates = append(r.statusUpdates, status)
	if appt, ok := r.byID[id]; ok {
		appt.Status = status
	}
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, _, id int64, reason string) error {
	r.cancelReasons = append(r.cancelReasons, reason)
	if appt, ok := r.byID[id]; ok {
		appt.Status = domain.StatusCancelled
	}
	return nil
}

type fakeSalons struct {
	salon *salonClient.Salon
	err   error
}

func (s *fakeSalons) GetSalon(context.Context, int64) (*salonClient.Salon, error) {
	return s.salon, s.err
}

type fakeNotifier struct {
	calls []*domain.Appointment
}

func (n *fakeNotifier) OnAppointmentChanged(_ context.Context, _, _ int64, appt *domain.Appointment) error {
	n.calls = append(n.calls, appt)
	return nil
}

func pendingAppointment(id int64) *domain.Appointment {
	return &domain.Appointment{
		ID:              id,
		SalonID:         1,
		ServiceID:       10,
		StartAt:         time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          domain.StatusPending,
	}
}

func TestGetByID(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = pendingAppointment(5)
	svc := NewService(repo, &fakeSalons{}, &fakeNotifier{}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)

	_, err = svc.GetByID(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetSalonDay_BuildsDayBoundsInSalonTimezone(t *testing.T) {
	repo := newFakeRepo()
	repo.forDay = []*domain.Appointment{pendingAppointment(5)}
	salons := &fakeSalons{salon: &salonClient.Salon{ID: 1, Timezone: "Europe/Moscow"}}
	svc := NewService(repo, salons, &fakeNotifier{}, nopLogger{})

	resp, err := svc.GetSalonDay(context.Background(), &models.GetSalonDayRequest{
		SalonID: 1,
		Date:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.True(t, repo.lastFilter.DayStart.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, moscow)))
	assert.Equal(t, 24*time.Hour, repo.lastFilter.DayEnd.Sub(repo.lastFilter.DayStart))
	assert.True(t, repo.lastFilter.OnlyActive)
}

func TestGetSalonDay_IncludeInactive(t *testing.T) {
	repo := newFakeRepo()
	salons := &fakeSalons{salon: &salonClient.Salon{ID: 1, Timezone: "UTC"}}
	svc := NewService(repo, salons, &fakeNotifier{}, nopLogger{})

	_, err := svc.GetSalonDay(context.Background(), &models.GetSalonDayRequest{
		SalonID:         1,
		Date:            time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		IncludeInactive: true,
	})

	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.False(t, repo.lastFilter.OnlyActive)
}

func TestGetSalonDay_SalonNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeSalons{err: salonClient.ErrSalonNotFound}, &fakeNotifier{}, nopLogger{})

	_, err := svc.GetSalonDay(context.Background(), &models.GetSalonDayRequest{
		SalonID: 404,
		Date:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestCancel(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = pendingAppointment(5)
	notifier := &fakeNotifier{}
	svc := NewService(repo, &fakeSalons{}, notifier, nopLogger{})

	err := svc.Cancel(context.Background(), 1, 5, &models.CancelAppointmentRequest{
		UserID: 7,
		Reason: "клиент попросил",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"клиент попросил"}, repo.cancelReasons)

	// Уведомление несет уже отмененную запись: напоминание будет снято
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, domain.StatusCancelled, notifier.calls[0].Status)
}

func TestCancel_TerminalRejected(t *testing.T) {
	completed := pendingAppointment(5)
	completed.Status = domain.StatusCompleted

	repo := newFakeRepo()
	repo.byID[5] = completed
	notifier := &fakeNotifier{}
	svc := NewService(repo, &fakeSalons{}, notifier, nopLogger{})

	err := svc.Cancel(context.Background(), 1, 5, &models.CancelAppointmentRequest{UserID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, repo.cancelReasons)
	assert.Empty(t, notifier.calls)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = pendingAppointment(5)
	svc := NewService(repo, &fakeSalons{}, &fakeNotifier{}, nopLogger{})

	err := svc.Cancel(context.Background(), 1, 5, &models.CancelAppointmentRequest{
		UserID: 7,
		Reason: strings.Repeat("о", domain.MaxCancellationReasonLength+1),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = pendingAppointment(5)
	notifier := &fakeNotifier{}
	svc := NewService(repo, &fakeSalons{}, notifier, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 1, 5, &models.UpdateStatusRequest{
		UserID: 7,
		Status: string(domain.StatusInProgress),
	})

	require.NoError(t, err)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusInProgress}, repo.statusUpdates)
	assert.Len(t, notifier.calls, 1)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = pendingAppointment(5)
	svc := NewService(repo, &fakeSalons{}, &fakeNotifier{}, nopLogger{})

	// pending -> completed минует in_progress
	err := svc.UpdateStatus(context.Background(), 1, 5, &models.UpdateStatusRequest{
		UserID: 7,
		Status: string(domain.StatusCompleted),
	})

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, repo.statusUpdates)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	repo.byID[5] = pendingAppointment(5)
	svc := NewService(repo, &fakeSalons{}, &fakeNotifier{}, nopLogger{})

	err := svc.UpdateStatus(context.Background(), 1, 5, &models.UpdateStatusRequest{
		UserID: 7,
		Status: "archived",
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNotifyChanged_MissingAppointmentSendsNil(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, &fakeSalons{}, notifier, nopLogger{})

	svc.notifyChanged(context.Background(), 1, 404)

	require.Len(t, notifier.calls, 1)
	assert.Nil(t, notifier.calls[0])
}
