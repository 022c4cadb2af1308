package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fentz26/vitalis/internal/models"
	"github.com/fentz26/vitalis/internal/store"
	"github.com/google/uuid"
)

// ErrEmptyName is returned when a task is added without a name.
var ErrEmptyName = errors.New("task name is required")

// KV is the storage the repository needs. *store.Store satisfies it.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn func(value string, found bool) (string, error)) error
}

// Repository persists task collections under "tasks_<userID>".
type Repository struct {
	kv KV
}

// NewRepository creates a repository over kv.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// List returns the user's tasks, empty when none are stored.
func (r *Repository) List(ctx context.Context, userID string) ([]models.Task, error) {
	raw, err := r.kv.Get(ctx, store.Key(store.ConcernTasks, userID))
	if errors.Is(err, store.ErrNotFound) {
		return []models.Task{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// Merge appends extracted to the stored collection. Nothing is written when
// extracted is empty.
func (r *Repository) Merge(ctx context.Context, userID string, extracted []models.Task) ([]models.Task, error) {
	if len(extracted) == 0 {
		return r.List(ctx, userID)
	}
	return r.modify(ctx, userID, func(c []models.Task) ([]models.Task, error) {
		return Merge(c, extracted), nil
	})
}

// Add appends one manually created task.
func (r *Repository) Add(ctx context.Context, userID, name, tm string) (models.Task, []models.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Task{}, nil, ErrEmptyName
	}
	task := models.Task{ID: uuid.New().String(), Name: name, Time: tm}
	all, err := r.modify(ctx, userID, func(c []models.Task) ([]models.Task, error) {
		return Merge(c, []models.Task{task}), nil
	})
	if err != nil {
		return models.Task{}, nil, err
	}
	return task, all, nil
}

// UpdateProgress sets a task's progress. Unknown ids leave the collection as is.
func (r *Repository) UpdateProgress(ctx context.Context, userID, id string, value int) ([]models.Task, error) {
	return r.modify(ctx, userID, func(c []models.Task) ([]models.Task, error) {
		return UpdateProgress(c, id, value), nil
	})
}

// UpdateTime sets a task's time.
func (r *Repository) UpdateTime(ctx context.Context, userID, id, value string) ([]models.Task, error) {
	return r.modify(ctx, userID, func(c []models.Task) ([]models.Task, error) {
		return UpdateTime(c, id, value), nil
	})
}

// Rename sets a task's name.
func (r *Repository) Rename(ctx context.Context, userID, id, name string) ([]models.Task, error) {
	return r.modify(ctx, userID, func(c []models.Task) ([]models.Task, error) {
		return Rename(c, id, name), nil
	})
}

// Clear removes the user's whole collection.
func (r *Repository) Clear(ctx context.Context, userID string) error {
	return r.kv.Remove(ctx, store.Key(store.ConcernTasks, userID))
}

func (r *Repository) modify(ctx context.Context, userID string, fn func([]models.Task) ([]models.Task, error)) ([]models.Task, error) {
	var result []models.Task
	err := r.kv.Update(ctx, store.Key(store.ConcernTasks, userID), func(value string, found bool) (string, error) {
		current := []models.Task{}
		if found {
			var err error
			if current, err = decode(value); err != nil {
				return "", err
			}
		}
		next, err := fn(current)
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return "", fmt.Errorf("encode tasks: %w", err)
		}
		result = next
		return string(data), nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func decode(raw string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}
