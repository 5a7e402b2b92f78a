package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

func (s *trackerService) Workers() domain.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workers.Clone()
}

func (s *trackerService) Tasks() domain.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks.Clone()
}

func (s *trackerService) AddWorker(ctx context.Context, name string) (bool, error) {
	return s.addTo(ctx, "add-worker", "worker", &s.workers, name)
}

func (s *trackerService) AddTask(ctx context.Context, name string) (bool, error) {
	return s.addTo(ctx, "add-task", "task", &s.tasks, name)
}

func (s *trackerService) RemoveWorker(ctx context.Context, name string) (bool, error) {
	return s.removeFrom(ctx, "remove-worker", &s.workers, name)
}

func (s *trackerService) RemoveTask(ctx context.Context, name string) (bool, error) {
	return s.removeFrom(ctx, "remove-task", &s.tasks, name)
}

func (s *trackerService) addTo(ctx context.Context, useCase, field string, c *domain.Catalog, name string) (bool, error) {
	return s.mutate(ctx, useCase, map[string]any{"name": name}, func(time.Time) (bool, error) {
		if strings.TrimSpace(name) == "" {
			return false, &domain.ValidationError{Field: field, Msg: "name must not be blank"}
		}
		_, added := c.Add(name)
		return added, nil
	})
}

func (s *trackerService) removeFrom(ctx context.Context, useCase string, c *domain.Catalog, name string) (bool, error) {
	return s.mutate(ctx, useCase, map[string]any{"name": name}, func(time.Time) (bool, error) {
		return c.Remove(name), nil
	})
}
