package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fateforge/sync-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockCharacterRepo struct {
	mock.Mock
}

func (m *mockCharacterRepo) Upsert(ctx context.Context, ch *domain.Character) error {
	args := m.Called(ctx, ch)
	return args.Error(0)
}

func (m *mockCharacterRepo) Get(ctx context.Context, id string) (*domain.Character, error) {
	args := m.Called(ctx, id)
	var ch *domain.Character
	if v, ok := args.Get(0).(*domain.Character); ok {
		ch = v
	}
	return ch, args.Error(1)
}

func (m *mockCharacterRepo) List(ctx context.Context, limit int) ([]domain.Character, error) {
	args := m.Called(ctx, limit)
	var chars []domain.Character
	if v, ok := args.Get(0).([]domain.Character); ok {
		chars = v
	}
	return chars, args.Error(1)
}

func (m *mockCharacterRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) IsValid(ctx context.Context, source, password string) (bool, error) {
	args := m.Called(ctx, source, password)
	return args.Bool(0), args.Error(1)
}

// --- tests ---

func TestCharacterService_SaveChecksGate(t *testing.T) {
	repo := new(mockCharacterRepo)
	gate := new(mockValidator)
	svc := NewCharacterService(repo, gate)

	ch := &domain.Character{ID: "char-1", Name: "Ragnar", Data: json.RawMessage(`{"hp":10}`)}

	gate.On("IsValid", mock.Anything, "char-1", "pw").Return(true, nil)
	repo.On("Upsert", mock.Anything, ch).Return(nil)

	require.NoError(t, svc.Save(context.Background(), ch, "pw"))

	gate.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestCharacterService_SaveRejectedByGate(t *testing.T) {
	repo := new(mockCharacterRepo)
	gate := new(mockValidator)
	svc := NewCharacterService(repo, gate)

	gate.On("IsValid", mock.Anything, "char-1", "bad").Return(false, nil)

	err := svc.Save(context.Background(), &domain.Character{ID: "char-1"}, "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCharacterService_DeleteRejectedByGate(t *testing.T) {
	repo := new(mockCharacterRepo)
	gate := new(mockValidator)
	svc := NewCharacterService(repo, gate)

	gate.On("IsValid", mock.Anything, "char-1", "bad").Return(false, nil)

	err := svc.Delete(context.Background(), "char-1", "bad")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCharacterService_NilGateAllowsAll(t *testing.T) {
	repo := new(mockCharacterRepo)
	svc := NewCharacterService(repo, nil)

	ch := &domain.Character{ID: "char-1"}
	repo.On("Upsert", mock.Anything, ch).Return(nil)

	require.NoError(t, svc.Save(context.Background(), ch, ""))
	repo.AssertExpectations(t)
}

func TestCharacterService_ListClampsLimit(t *testing.T) {
	repo := new(mockCharacterRepo)
	svc := NewCharacterService(repo, nil)

	repo.On("List", mock.Anything, 50).Return([]domain.Character{}, nil).Once()
	repo.On("List", mock.Anything, 200).Return([]domain.Character{}, nil).Once()

	_, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), 5000)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestCharacterService_GetNotFound(t *testing.T) {
	repo := new(mockCharacterRepo)
	svc := NewCharacterService(repo, nil)

	repo.On("Get", mock.Anything, "nope").Return(nil, domain.ErrCharacterNotFound)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)
}
