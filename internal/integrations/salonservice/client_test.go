package salonservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestGetSalon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/salons/1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"name":"Тестовый салон","timezone":"Europe/Moscow","employeeIds":[2,3]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	salon, err := client.GetSalon(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), salon.ID)
	assert.Equal(t, "Тестовый салон", salon.Name)
	assert.Equal(t, "Europe/Moscow", salon.Timezone)
	assert.True(t, salon.HasEmployee(2))
	assert.False(t, salon.HasEmployee(99))
}

func TestGetSalon_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.GetSalon(context.Background(), 404)
	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestGetService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/salons/1/services/10", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":10,"salonId":1,"name":"Стрижка","durationMinutes":30}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	service, err := client.GetService(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), service.ID)
	assert.Equal(t, 30, service.DurationMinutes)
}

func TestGetService_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.GetService(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestGetSalon_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nopLogger{})

	_, err := client.GetSalon(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSalonNotFound)
}
