package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func newTestIndex(t *testing.T) (*Index, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewIndex(rdb), rdb
}

var indexNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func testReminder(dueAt time.Time) *domain.PendingReminder {
	return &domain.PendingReminder{
		SalonID:          1,
		AppointmentID:    42,
		CustomerPhone:    "+79990000001",
		CustomerName:     ptr.Ptr("Анна"),
		AppointmentStart: dueAt.Add(2 * time.Hour),
		DueAt:            dueAt,
	}
}

func TestListDue_FutureReminderNotReturned(t *testing.T) {
	// Срок через час: немедленная выборка пуста, после срока напоминание есть
	index, _ := newTestIndex(t)
	ctx := context.Background()

	rem := testReminder(indexNow.Add(time.Hour))
	require.NoError(t, index.Upsert(ctx, rem))

	due, err := index.ListDue(ctx, indexNow)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = index.ListDue(ctx, indexNow.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "salon:1:appt:42", due[0].Key())
	assert.Equal(t, "+79990000001", due[0].CustomerPhone)
	assert.True(t, due[0].DueAt.Equal(rem.DueAt))
	assert.True(t, due[0].AppointmentStart.Equal(rem.AppointmentStart))
}

func TestUpsert_LastWriteWins(t *testing.T) {
	// Повторный Upsert того же ключа заменяет срок, а не добавляет элемент
	index, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, testReminder(indexNow)))
	require.NoError(t, index.Upsert(ctx, testReminder(indexNow.Add(time.Hour))))

	due, err := index.ListDue(ctx, indexNow)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = index.ListDue(ctx, indexNow.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.True(t, due[0].DueAt.Equal(indexNow.Add(time.Hour)))
}

func TestClaim_SucceedsExactlyOnce(t *testing.T) {
	index, rdb := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, testReminder(indexNow)))

	claimed, err := index.Claim(ctx, "salon:1:appt:42")
	require.NoError(t, err)
	assert.True(t, claimed)

	// Опоздавший конкурент получает false и не шлет дубликат
	claimed, err = index.Claim(ctx, "salon:1:appt:42")
	require.NoError(t, err)
	assert.False(t, claimed)

	err = rdb.Get(ctx, itemKeyPrefix+"salon:1:appt:42").Err()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestListDue_CleansGhostMembers(t *testing.T) {
	// Тело изъято конкурентным диспетчером, член sorted set остался
	index, rdb := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, testReminder(indexNow)))
	require.NoError(t, rdb.Del(ctx, itemKeyPrefix+"salon:1:appt:42").Err())

	due, err := index.ListDue(ctx, indexNow)
	require.NoError(t, err)
	assert.Empty(t, due)

	err = rdb.ZScore(ctx, dueSetKey, "salon:1:appt:42").Err()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestDelete_RemovesReminder(t *testing.T) {
	index, _ := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, testReminder(indexNow)))
	require.NoError(t, index.Delete(ctx, "salon:1:appt:42"))

	due, err := index.ListDue(ctx, indexNow)
	require.NoError(t, err)
	assert.Empty(t, due)

	// Удаление отсутствующего ключа не ошибка
	require.NoError(t, index.Delete(ctx, "salon:1:appt:42"))
}
