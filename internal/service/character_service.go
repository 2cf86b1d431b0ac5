package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fateforge/sync-service/internal/auth"
	"github.com/fateforge/sync-service/internal/domain"
)

type CharacterRepo interface {
	Upsert(ctx context.Context, ch *domain.Character) error
	Get(ctx context.Context, id string) (*domain.Character, error)
	List(ctx context.Context, limit int) ([]domain.Character, error)
	Delete(ctx context.Context, id string) error
}

type CharacterService struct {
	repo CharacterRepo
	gate auth.Validator
}

func NewCharacterService(repo CharacterRepo, gate auth.Validator) *CharacterService {
	if gate == nil {
		gate = auth.AllowAll{}
	}
	return &CharacterService{repo: repo, gate: gate}
}

// Save сохраняет персонажа; любое изменение проходит через credential gate.
func (s *CharacterService) Save(ctx context.Context, ch *domain.Character, password string) error {
	ok, err := s.gate.IsValid(ctx, ch.ID, password)
	if err != nil {
		return fmt.Errorf("gate.IsValid: %w", err)
	}
	if !ok {
		return domain.ErrInvalidPassword
	}
	if err := s.repo.Upsert(ctx, ch); err != nil {
		return fmt.Errorf("characterRepo.Upsert: %w", err)
	}
	return nil
}

// Get возвращает персонажа по ID.
func (s *CharacterService) Get(ctx context.Context, id string) (*domain.Character, error) {
	ch, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCharacterNotFound) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, err
	}
	return ch, nil
}

// List возвращает последние обновлённые листы.
func (s *CharacterService) List(ctx context.Context, limit int) ([]domain.Character, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.repo.List(ctx, limit)
}

// Delete удаляет персонажа; тоже через gate.
func (s *CharacterService) Delete(ctx context.Context, id, password string) error {
	ok, err := s.gate.IsValid(ctx, id, password)
	if err != nil {
		return fmt.Errorf("gate.IsValid: %w", err)
	}
	if !ok {
		return domain.ErrInvalidPassword
	}
	return s.repo.Delete(ctx, id)
}
