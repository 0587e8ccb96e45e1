// Package ingest holds types shared by import providers.
package ingest

// Result holds the outcome of an import.
type Result struct {
	Sessions         int `json:"sessions"`
	Sets             int `json:"sets"`
	ExercisesCreated int `json:"exercisesCreated"`
	WarmupsSkipped   int `json:"warmupsSkipped"`

	Message string `json:"message,omitempty"`
}
