package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fentz26/vitalis/internal/store"
)

// Badge is an achievement unlocked by keeping a streak.
type Badge struct {
	Name     string `json:"name"`
	Criteria string `json:"criteria"`
	Streak   int    `json:"streak"`
	Achieved bool   `json:"achieved"`
}

var badgeRules = []Badge{
	{Name: "Step Master", Criteria: "Walk 10,000 steps in a day", Streak: 10},
	{Name: "Calorie Burner", Criteria: "Burn 500 calories in a day", Streak: 5},
	{Name: "Distance Runner", Criteria: "Run 7 km in a day", Streak: 7},
}

// Badges returns every badge with Achieved set for the given streak.
func Badges(streak int) []Badge {
	out := make([]Badge, len(badgeRules))
	for i, b := range badgeRules {
		b.Achieved = streak >= b.Streak
		out[i] = b
	}
	return out
}

// Streak returns the user's consecutive-day streak, 0 when unset.
func (p *Profile) Streak(ctx context.Context, userID string) (int, error) {
	raw, err := p.kv.Get(ctx, store.Key(store.ConcernStreak, userID))
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseStreak(raw)
}

// IncrementStreak adds one day to the streak and returns the new value.
func (p *Profile) IncrementStreak(ctx context.Context, userID string) (int, error) {
	var next int
	err := p.kv.Update(ctx, store.Key(store.ConcernStreak, userID), func(value string, found bool) (string, error) {
		current := 0
		if found {
			var err error
			if current, err = parseStreak(value); err != nil {
				return "", err
			}
		}
		next = current + 1
		return strconv.Itoa(next), nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// ResetStreak sets the streak back to zero.
func (p *Profile) ResetStreak(ctx context.Context, userID string) error {
	return p.kv.Remove(ctx, store.Key(store.ConcernStreak, userID))
}

func parseStreak(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("decode streak: %w", err)
	}
	return n, nil
}
