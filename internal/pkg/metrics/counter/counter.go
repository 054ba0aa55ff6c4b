package counter

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JonasWeidner/StayAtlas/internal/pkg/cache"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/database"
)

const propertyClicksKey = "property:counters:clicks"

// AddPropertyClick increments the pending click counter for a property in
// Redis. The click_count column is only touched by the periodic flush, so a
// burst of outbound clicks never turns into row-lock contention.
func AddPropertyClick(propertyID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(propertyID), 10)
	return cache.GetClient().HIncrBy(ctx, propertyClicksKey, field, 1).Err()
}

// FlushAll flushes pending click counters to the database
func FlushAll() error {
	return flushHashToTable(propertyClicksKey, "properties", "click_count")
}

type increment struct {
	id    uint64
	delta int64
}

// flushHashToTable drains a Redis hash atomically and applies batched
// increments to the target table. Uses RENAME to a temporary key for atomic
// drain without losing in-flight increments; a failed UPDATE merges the
// drained counts back into the live hash for the next flush.
func flushHashToTable(redisKey, table, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	// Atomically move the hash to a temp key for draining
	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		// The temp key still holds the counts; surface the error instead
		// of deleting what could not be read.
		return fmt.Errorf("read drained counters: %w", err)
	}
	rdb.Del(ctx, tmpKey)

	incs := pendingIncrements(data)
	if len(incs) == 0 {
		return nil
	}

	return applyIncrements(incs, func(batch []increment) error {
		query, args := incrementSQL(table, column, batch)
		return database.GetDB().Exec(query, args...).Error
	}, func(inc increment) {
		rdb.HIncrBy(ctx, redisKey, strconv.FormatUint(inc.id, 10), inc.delta)
	})
}

// applyIncrements runs the batched update and, when it fails, hands every
// drained increment to restore so no click is lost.
func applyIncrements(incs []increment, apply func([]increment) error, restore func(increment)) error {
	if err := apply(incs); err != nil {
		for _, inc := range incs {
			restore(inc)
		}
		return err
	}
	return nil
}

// pendingIncrements parses the drained hash into id-ordered increments,
// skipping malformed fields and zero deltas.
func pendingIncrements(data map[string]string) []increment {
	incs := make([]increment, 0, len(data))
	for k, v := range data {
		id, perr := strconv.ParseUint(k, 10, 64)
		if perr != nil {
			continue
		}
		delta, ierr := strconv.ParseInt(v, 10, 64)
		if ierr != nil || delta == 0 {
			continue
		}
		incs = append(incs, increment{id: id, delta: delta})
	}
	sort.Slice(incs, func(i, j int) bool { return incs[i].id < incs[j].id })
	return incs
}

// incrementSQL builds one batched statement:
// UPDATE <table> SET <column> = <column> + CASE id WHEN ? THEN ? ... END WHERE id IN (...)
func incrementSQL(table, column string, incs []increment) (string, []interface{}) {
	var builder strings.Builder
	args := make([]interface{}, 0, len(incs)*3)
	builder.WriteString("UPDATE ")
	builder.WriteString(table)
	builder.WriteString(" SET ")
	builder.WriteString(column)
	builder.WriteString(" = ")
	builder.WriteString(column)
	builder.WriteString(" + CASE id ")
	for _, inc := range incs {
		builder.WriteString(" WHEN ? THEN ?")
		args = append(args, inc.id, inc.delta)
	}
	builder.WriteString(" END WHERE id IN (")
	for i, inc := range incs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("?")
		args = append(args, inc.id)
	}
	builder.WriteString(")")
	return builder.String(), args
}
