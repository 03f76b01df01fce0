// Package engineer holds the business rules for engineer records: the
// existence checks in front of update and delete, and the AI call that
// writes a learning path for every newly created engineer.
package engineer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/engineers-api/internal/ai"
	"github.com/aanand-mishra/engineers-api/internal/storage"
	"github.com/aanand-mishra/engineers-api/internal/types"
)

// ErrNotFound is returned when the requested id does not exist.
var ErrNotFound = errors.New("engineer not found")

// Service orchestrates the repository and the chat client.
// It holds no state of its own and is safe for concurrent use.
type Service struct {
	store storage.Storage
	chat  ai.Client
}

// New returns a Service backed by store and chat.
func New(store storage.Storage, chat ai.Client) *Service {
	return &Service{store: store, chat: chat}
}

// GetAll returns every stored engineer.
func (s *Service) GetAll(ctx context.Context) ([]types.Engineer, error) {
	return s.store.FindAll(ctx)
}

// GetByID returns the engineer with the given id or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (types.Engineer, error) {
	e, err := s.store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Engineer{}, notFound(id)
	}
	if err != nil {
		return types.Engineer{}, fmt.Errorf("GetByID: %w", err)
	}
	return e, nil
}

// Create asks the chat client for a learning path, attaches it to the
// candidate and persists the result. Any id on the candidate is ignored:
// the store always assigns a fresh one.
//
// The AI call happens on every create. If it fails nothing is written
// and the returned error wraps ai.ErrProvider.
func (s *Service) Create(ctx context.Context, candidate types.Engineer) (types.Engineer, error) {
	candidate.ID = 0
	candidate.Normalize()

	prompt, err := LearningPathPrompt(candidate)
	if err != nil {
		return types.Engineer{}, fmt.Errorf("Create: render prompt: %w", err)
	}

	recommendation, err := s.chat.Chat(ctx, prompt)
	if err != nil {
		return types.Engineer{}, fmt.Errorf("Create: learning path: %w", err)
	}
	candidate.LearningPathRecommendations = &recommendation

	saved, err := s.store.Save(ctx, candidate)
	if err != nil {
		return types.Engineer{}, fmt.Errorf("Create: %w", err)
	}

	slog.DebugContext(ctx, "learning path generated",
		slog.Int64("id", saved.ID),
		slog.Int("chars", len(recommendation)))
	return saved, nil
}

// Update replaces every field of an existing engineer, including the
// learning path, with the caller's values. Nothing is regenerated.
func (s *Service) Update(ctx context.Context, replacement types.Engineer) (types.Engineer, error) {
	exists, err := s.store.ExistsByID(ctx, replacement.ID)
	if err != nil {
		return types.Engineer{}, fmt.Errorf("Update: %w", err)
	}
	if !exists {
		return types.Engineer{}, notFound(replacement.ID)
	}

	saved, err := s.store.Save(ctx, replacement)
	if errors.Is(err, storage.ErrNotFound) {
		// deleted between the check and the write
		return types.Engineer{}, notFound(replacement.ID)
	}
	if err != nil {
		return types.Engineer{}, fmt.Errorf("Update: %w", err)
	}
	return saved, nil
}

// DeleteByID removes an existing engineer or returns ErrNotFound.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	if !exists {
		return notFound(id)
	}

	err = s.store.DeleteByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	return nil
}

func notFound(id int64) error {
	return fmt.Errorf("%w with id: %d", ErrNotFound, id)
}
