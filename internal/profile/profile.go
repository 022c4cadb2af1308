// Package profile persists per-user health data other than tasks: the
// survey form, tracked metrics and the activity streak.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fentz26/vitalis/internal/models"
	"github.com/fentz26/vitalis/internal/store"
)

// ErrNoHealthData is returned when a user has not filled in the health form.
var ErrNoHealthData = errors.New("no health data found, complete the health assessment first")

// KV is the storage the profile needs. *store.Store satisfies it.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn func(value string, found bool) (string, error)) error
}

// Profile reads and writes a user's profile data.
type Profile struct {
	kv KV
}

// New creates a Profile over kv.
func New(kv KV) *Profile {
	return &Profile{kv: kv}
}

// SaveForm stores the user's health form.
func (p *Profile) SaveForm(ctx context.Context, userID string, form models.HealthForm) error {
	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	return p.kv.Set(ctx, store.Key(store.ConcernForm, userID), string(data))
}

// Form returns the stored form. ErrNoHealthData is returned when nothing is
// stored or every field is empty.
func (p *Profile) Form(ctx context.Context, userID string) (models.HealthForm, error) {
	var form models.HealthForm
	raw, err := p.kv.Get(ctx, store.Key(store.ConcernForm, userID))
	if errors.Is(err, store.ErrNotFound) {
		return form, ErrNoHealthData
	}
	if err != nil {
		return form, err
	}
	if err := json.Unmarshal([]byte(raw), &form); err != nil {
		return form, fmt.Errorf("decode form: %w", err)
	}
	if !form.HasData() {
		return form, ErrNoHealthData
	}
	return form, nil
}

// ClearForm removes the stored form.
func (p *Profile) ClearForm(ctx context.Context, userID string) error {
	return p.kv.Remove(ctx, store.Key(store.ConcernForm, userID))
}
