package config

import (
	"context"
	"fmt"

	"task-tracker.com/task-tracker/internal/lock"
	repository "task-tracker.com/task-tracker/internal/repositories"
)

// Stores bundles the repositories and lock picked by the configuration.
type Stores struct {
	Users  repository.UserRepository
	Tasks  repository.TaskRepository
	Logs   repository.LogRepository
	Locker lock.Locker

	initializers []repository.Initializer
	closers      []func()
}

func NewStores(cfg Config) *Stores {
	s := &Stores{}

	switch cfg.StorageDriver {
	case DriverSQLite:
		db := NewDatabaseClient(cfg.DatabaseDSN)
		s.Users = repository.NewGormUserRepository(db)
		s.Tasks = repository.NewGormTaskRepository(db)
		s.Logs = repository.NewGormLogRepository(db)
		s.closers = append(s.closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})
	default:
		users := repository.NewCSVUserRepository(cfg.UsersPath())
		tasks := repository.NewCSVTaskRepository(cfg.TasksPath(), users)
		logs := repository.NewCSVLogRepository(cfg.LogsPath())
		s.Users, s.Tasks, s.Logs = users, tasks, logs
		s.initializers = append(s.initializers, users, tasks, logs)
	}

	var shared lock.Locker
	if cfg.RedisAddr != "" {
		client := NewRedisClient(cfg)
		shared = lock.NewRedisLocker(client, cfg.RedisLockKey)
		s.closers = append(s.closers, client.Close)
	}
	s.Locker = lock.NewMutexLocker(shared)

	return s
}

// Init creates missing data files with their headers and resets the lock.
func (s *Stores) Init(ctx context.Context) error {
	for _, in := range s.initializers {
		if err := in.Init(ctx); err != nil {
			return err
		}
	}
	if err := s.Locker.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize store lock: %w", err)
	}
	return nil
}

func (s *Stores) Close() {
	for _, c := range s.closers {
		c()
	}
}
