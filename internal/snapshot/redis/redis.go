// Package redis stores the snapshot under one fixed key in redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"dukanpos/internal/domain"
	"dukanpos/internal/snapshot"
)

type Store struct {
	client *redis.Client
}

func New(addr string, password string, db int) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Store{client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Load(ctx context.Context) (domain.DBState, error) {
	val, err := s.client.Get(ctx, snapshot.Key).Result()
	if errors.Is(err, redis.Nil) {
		state := snapshot.DefaultState()
		if err := s.Save(ctx, state); err != nil {
			return domain.DBState{}, err
		}
		return state, nil
	}
	if err != nil {
		return domain.DBState{}, fmt.Errorf("load snapshot: %w", err)
	}

	return snapshot.Import([]byte(val))
}

func (s *Store) Save(ctx context.Context, state domain.DBState) error {
	data, err := snapshot.Export(state)
	if err != nil {
		return err
	}
	// No TTL: the snapshot is the database, not a cache entry.
	if err := s.client.Set(ctx, snapshot.Key, data, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
