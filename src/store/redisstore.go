package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"monolift/src/config"
	"monolift/src/types"
)

const (
	keyState        = "state"
	keyCurrentFloor = "current_floor"

	fieldFloor    = "floor"
	fieldState    = "state"
	fieldIntended = "intended_direction"
)

// RedisStore persists the elevator record as a hash, the call queues as
// sorted sets scored by floor and the intended directions as per-floor
// hashes.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Ping checks connectivity on startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func floorKey(floor int) string {
	return fmt.Sprintf("floor_%d", floor)
}

func (s *RedisStore) State(ctx context.Context) (types.ElevState, error) {
	// A value written under the state key by anything other than SetState
	// can change the key's type; drop it rather than erroring forever.
	keyType, err := s.rdb.Type(ctx, keyState).Result()
	if err != nil {
		return types.ElevState{}, fmt.Errorf("state key type: %w", err)
	}
	if keyType != "hash" && keyType != "none" {
		slog.Warn("State key has unexpected type, deleting it", "type", keyType)
		if err := s.rdb.Del(ctx, keyState).Err(); err != nil {
			return types.ElevState{}, fmt.Errorf("delete malformed state: %w", err)
		}
	}

	vals, err := s.rdb.HGetAll(ctx, keyState).Result()
	if err != nil {
		return types.ElevState{}, fmt.Errorf("read state: %w", err)
	}
	if len(vals) == 0 {
		state := types.ElevState{Floor: config.DefaultFloor, Dir: types.DirIdle}
		if err := s.SetState(ctx, state); err != nil {
			return types.ElevState{}, err
		}
		return state, nil
	}

	floor, floorErr := strconv.Atoi(vals[fieldFloor])
	dir, dirErr := types.ParseDirection(vals[fieldState])
	if floorErr != nil || dirErr != nil || floor < 1 || floor > config.MaxFloor {
		slog.Warn("Persisted elevator state malformed, resetting to defaults",
			"floor", vals[fieldFloor], "state", vals[fieldState])
		state := types.ElevState{Floor: config.DefaultFloor, Dir: types.DirIdle}
		if err := s.SetState(ctx, state); err != nil {
			return types.ElevState{}, err
		}
		return state, nil
	}
	return types.ElevState{Floor: floor, Dir: dir}, nil
}

func (s *RedisStore) SetState(ctx context.Context, state types.ElevState) error {
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, keyState, fieldFloor, state.Floor, fieldState, state.Dir.String())
	pipe.Set(ctx, keyCurrentFloor, state.Floor, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

func (s *RedisStore) QueueAdd(ctx context.Context, q Queue, floor int) error {
	err := s.rdb.ZAdd(ctx, string(q), redis.Z{
		Score:  float64(floor),
		Member: floorKey(floor),
	}).Err()
	if err != nil {
		return fmt.Errorf("queue %s add %d: %w", q, floor, err)
	}
	return nil
}

func (s *RedisStore) QueuePeekNearest(ctx context.Context, q Queue, from int) (int, bool, error) {
	var members []redis.Z
	var err error
	switch q {
	case QueueDown:
		members, err = s.rdb.ZRevRangeByScoreWithScores(ctx, string(q), &redis.ZRangeBy{
			Min: "-inf", Max: strconv.Itoa(from), Offset: 0, Count: 1,
		}).Result()
	default:
		members, err = s.rdb.ZRangeByScoreWithScores(ctx, string(q), &redis.ZRangeBy{
			Min: strconv.Itoa(from), Max: "+inf", Offset: 0, Count: 1,
		}).Result()
	}
	if err != nil {
		return 0, false, fmt.Errorf("queue %s peek from %d: %w", q, from, err)
	}
	if len(members) == 0 {
		return 0, false, nil
	}
	return int(members[0].Score), true, nil
}

func (s *RedisStore) QueueRemove(ctx context.Context, q Queue, floor int) error {
	if err := s.rdb.ZRem(ctx, string(q), floorKey(floor)).Err(); err != nil {
		return fmt.Errorf("queue %s remove %d: %w", q, floor, err)
	}
	return nil
}

func (s *RedisStore) QueueMembers(ctx context.Context, q Queue) ([]int, error) {
	members, err := s.rdb.ZRangeWithScores(ctx, string(q), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("queue %s members: %w", q, err)
	}
	floors := make([]int, len(members))
	for i, m := range members {
		floors[i] = int(m.Score)
	}
	return floors, nil
}

func (s *RedisStore) IntendedDirection(ctx context.Context, floor int) (types.Direction, bool, error) {
	val, err := s.rdb.HGet(ctx, floorKey(floor), fieldIntended).Result()
	if errors.Is(err, redis.Nil) {
		return types.DirIdle, false, nil
	}
	if err != nil {
		return types.DirIdle, false, fmt.Errorf("intended direction for %d: %w", floor, err)
	}
	dir, err := types.ParseDirection(val)
	if err != nil {
		slog.Warn("Malformed intended direction, clearing it", "floor", floor, "value", val)
		if err := s.ClearIntendedDirection(ctx, floor); err != nil {
			return types.DirIdle, false, err
		}
		return types.DirIdle, false, nil
	}
	return dir, true, nil
}

func (s *RedisStore) SetIntendedDirection(ctx context.Context, floor int, dir types.Direction) error {
	if err := s.rdb.HSet(ctx, floorKey(floor), fieldIntended, dir.String()).Err(); err != nil {
		return fmt.Errorf("set intended direction for %d: %w", floor, err)
	}
	return nil
}

func (s *RedisStore) ClearIntendedDirection(ctx context.Context, floor int) error {
	if err := s.rdb.HDel(ctx, floorKey(floor), fieldIntended).Err(); err != nil {
		return fmt.Errorf("clear intended direction for %d: %w", floor, err)
	}
	return nil
}
