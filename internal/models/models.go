// Package models defines the core domain types for Vitalis.
package models

import (
	"reflect"
	"strings"
	"time"
)

// Task is one actionable health task in a user's collection.
type Task struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Progress int    `json:"progress"` // 0-100
	Time     string `json:"time"`     // optional wall-clock string, e.g. "07:30"
}

// PlanSection is one numbered section of a generated plan.
type PlanSection struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
	Icon    string   `json:"icon"`
}

// HealthForm holds the survey answers a user submits before asking for
// recommendations. All fields are free text, as entered.
type HealthForm struct {
	Age                 string `json:"age"`
	Height              string `json:"height"`
	Weight              string `json:"weight"`
	ExercisePreference  string `json:"exercisePreference"`
	CurrentDiet         string `json:"currentDiet"`
	DietaryRestrictions string `json:"dietaryRestrictions"`
	LifestyleGoals      string `json:"lifestyleGoals"`
	Gender              string `json:"gender"`
	ActivityLevel       string `json:"activityLevel"`
	Goals               string `json:"goals"`
	MedicalConditions   string `json:"medicalConditions"`
}

// HasData reports whether at least one field of the form is filled in.
func (f HealthForm) HasData() bool {
	v := reflect.ValueOf(f)
	for i := 0; i < v.NumField(); i++ {
		if strings.TrimSpace(v.Field(i).String()) != "" {
			return true
		}
	}
	return false
}

// Metric is a named numeric health metric (steps, calories, ...).
type Metric struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Insights is the outcome of a health assessment: the normalized advice text
// plus the tasks it produced.
type Insights struct {
	Text            string  `json:"text"`
	NewTasks        []Task  `json:"new_tasks"`
	Tasks           []Task  `json:"tasks"`
	OverallProgress float64 `json:"overall_progress"`
}

// PDREntry represents a Process Decision Record for audit.
type PDREntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	UserID     string    `json:"user_id,omitempty"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
