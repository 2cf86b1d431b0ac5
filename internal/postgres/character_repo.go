package postgres

import (
	"context"
	"errors"

	"github.com/fateforge/sync-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CharacterRepository struct {
	db *pgxpool.Pool
}

func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Upsert сохраняет лист персонажа целиком (JSONB-блоб).
func (r *CharacterRepository) Upsert(ctx context.Context, ch *domain.Character) error {
	query := `
		INSERT INTO characters (id, name, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, data = EXCLUDED.data, updated_at = now()
		RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query, ch.ID, ch.Name, ch.Data).
		Scan(&ch.CreatedAt, &ch.UpdatedAt)
}

func (r *CharacterRepository) Get(ctx context.Context, id string) (*domain.Character, error) {
	var ch domain.Character
	query := `SELECT id, name, data, created_at, updated_at FROM characters WHERE id=$1`
	err := r.db.QueryRow(ctx, query, id).
		Scan(&ch.ID, &ch.Name, &ch.Data, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCharacterNotFound
		}
		return nil, err
	}
	return &ch, nil
}

func (r *CharacterRepository) List(ctx context.Context, limit int) ([]domain.Character, error) {
	query := `
		SELECT id, name, data, created_at, updated_at
		FROM characters
		ORDER BY updated_at DESC
		LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chars []domain.Character
	for rows.Next() {
		var ch domain.Character
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.Data, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		chars = append(chars, ch)
	}
	return chars, rows.Err()
}

func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCharacterNotFound
	}
	return nil
}
