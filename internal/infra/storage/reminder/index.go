package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	// dueSetKey sorted set: member = ключ напоминания, score = due instant (unix)
	dueSetKey = "reminders:due"
	// itemKeyPrefix префикс ключей с телом напоминания
	itemKeyPrefix = "reminders:item:"
)

// reminderItem JSON представление напоминания в Redis
type reminderItem struct {
	SalonID          int64     `json:"salonId"`
	AppointmentID    int64     `json:"appointmentId"`
	CustomerPhone    string    `json:"customerPhone"`
	CustomerName     *string   `json:"customerName,omitempty"`
	AppointmentStart time.Time `json:"appointmentStart"`
	DueAt            time.Time `json:"dueAt"`
}

// Index индекс отложенных напоминаний поверх Redis.
// Хранит тело напоминания в строковом ключе и срок срабатывания
// в sorted set, что дает O(log N) выборку просроченных записей.
type Index struct {
	rdb *redis.Client
}

// NewIndex создает новый экземпляр индекса напоминаний
func NewIndex(rdb *redis.Client) *Index {
	return &Index{rdb: rdb}
}

// Upsert создает или перезаписывает напоминание для записи.
// Ключ детерминирован парой (салон, запись), поэтому повторный вызов
// просто заменяет прежнее напоминание (last write wins).
func (i *Index) Upsert(ctx context.Context, rem *domain.PendingReminder) error {
	key := rem.Key()

	raw, err := json.Marshal(reminderItem{
		SalonID:          rem.SalonID,
		AppointmentID:    rem.AppointmentID,
		CustomerPhone:    rem.CustomerPhone,
		CustomerName:     rem.CustomerName,
		AppointmentStart: rem.AppointmentStart,
		DueAt:            rem.DueAt,
	})
	if err != nil {
		return fmt.Errorf("%w: Upsert - marshal: %v", ErrEncode, err)
	}

	pipe := i.rdb.TxPipeline()
	pipe.Set(ctx, itemKeyPrefix+key, raw, 0)
	pipe.ZAdd(ctx, dueSetKey, redis.Z{
		Score:  float64(rem.DueAt.Unix()),
		Member: key,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: Upsert - pipeline exec: %v", ErrIndexUnavailable, err)
	}

	return nil
}

// Delete удаляет напоминание по ключу.
// Отсутствие напоминания не является ошибкой.
func (i *Index) Delete(ctx context.Context, key string) error {
	pipe := i.rdb.TxPipeline()
	pipe.ZRem(ctx, dueSetKey, key)
	pipe.Del(ctx, itemKeyPrefix+key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: Delete - pipeline exec: %v", ErrIndexUnavailable, err)
	}

	return nil
}

// ListDue возвращает все напоминания со сроком не позднее now
func (i *Index) ListDue(ctx context.Context, now time.Time) ([]*domain.PendingReminder, error) {
	keys, err := i.rdb.ZRangeByScore(ctx, dueSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - zrangebyscore: %v", ErrIndexUnavailable, err)
	}

	if len(keys) == 0 {
		return nil, nil
	}

	itemKeys := make([]string, len(keys))
	for n, key := range keys {
		itemKeys[n] = itemKeyPrefix + key
	}

	values, err := i.rdb.MGet(ctx, itemKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDue - mget: %v", ErrIndexUnavailable, err)
	}

	reminders := make([]*domain.PendingReminder, 0, len(values))
	for n, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Тело уже удалено конкурентным диспетчером — чистим висячий
			// элемент sorted set и идем дальше
			i.rdb.ZRem(ctx, dueSetKey, keys[n])
			continue
		}

		var item reminderItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, fmt.Errorf("%w: ListDue - unmarshal %s: %v", ErrDecode, keys[n], err)
		}

		reminders = append(reminders, &domain.PendingReminder{
			SalonID:          item.SalonID,
			AppointmentID:    item.AppointmentID,
			CustomerPhone:    item.CustomerPhone,
			CustomerName:     item.CustomerName,
			AppointmentStart: item.AppointmentStart,
			DueAt:            item.DueAt,
		})
	}

	return reminders, nil
}

// Claim атомарно изымает напоминание из индекса перед отправкой.
// Возвращает true, только если именно этот вызов удалил элемент из
// sorted set — конкурентный диспетчер, опоздавший с ZREM, получит false
// и не будет отправлять дубликат.
func (i *Index) Claim(ctx context.Context, key string) (bool, error) {
	removed, err := i.rdb.ZRem(ctx, dueSetKey, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: Claim - zrem: %v", ErrIndexUnavailable, err)
	}

	if removed == 0 {
		return false, nil
	}

	if err := i.rdb.Del(ctx, itemKeyPrefix+key).Err(); err != nil {
		// Элемент уже изъят из sorted set, повторной обработки не будет;
		// осиротевшее тело подчистится при следующем Upsert того же ключа
		return true, fmt.Errorf("%w: Claim - del item: %v", ErrIndexUnavailable, err)
	}

	return true, nil
}
