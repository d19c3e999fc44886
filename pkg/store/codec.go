package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tableflip.dev/progressly/pkg/task"
)

// ReadJSON decodes the value under key into v. found is false when the key
// has never been written, in which case v is untouched.
func ReadJSON(ctx context.Context, p Persistence, key string, v interface{}) (found bool, err error) {
	data, err := p.Read(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 || string(data) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return true, nil
}

// WriteJSON encodes v and stores it under key.
func WriteJSON(ctx context.Context, p Persistence, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return p.Write(ctx, key, data)
}

// ReadTasks loads a task list. A missing key is an empty list; a value that
// does not have the shape of a task list is an error wrapping task.ErrInvalid.
func ReadTasks(ctx context.Context, p Persistence, key string) ([]task.Task, error) {
	tasks := []task.Task{}
	data, err := p.Read(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return tasks, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return tasks, nil
	}
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("store: %s: %w: %v", key, task.ErrInvalid, err)
	}
	if err := task.ValidateAll(tasks); err != nil {
		return nil, fmt.Errorf("store: %s: %w", key, err)
	}
	return tasks, nil
}

// WriteTasks stores a task list, never as null.
func WriteTasks(ctx context.Context, p Persistence, key string, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return WriteJSON(ctx, p, key, tasks)
}
