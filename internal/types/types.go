// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, the service, and storage can all import types without
// depending on each other.
package types

// Engineer represents a software engineer record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"...": controls how the field appears when encoded to JSON.
//     The camelCase names match what API consumers already send.
//
//  2. validate:"...": rules checked by the go-playground/validator
//     package. "dive,required" applies "required" to every element of
//     the tech stack, so ["Go", ""] is rejected.
//
// ID is zero for an engineer that has not been persisted yet; the store
// assigns it on the first save and it never changes afterwards.
//
// LearningPathRecommendations is a pointer so that "no recommendation"
// encodes as JSON null rather than an empty string.
type Engineer struct {
	ID                          int64    `json:"id"`
	Name                        string   `json:"name"      validate:"required"`
	TechStack                   []string `json:"techStack" validate:"dive,required"`
	LearningPathRecommendations *string  `json:"learningPathRecommendations"`
}

// Normalize makes a nil tech stack an empty one so that it encodes as []
// instead of null.
func (e *Engineer) Normalize() {
	if e.TechStack == nil {
		e.TechStack = []string{}
	}
}
