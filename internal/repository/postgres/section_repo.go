package postgres

import (
	"context"
	"errors"

	"github.com/arlenko/folio/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SectionRepo struct {
	pool *pgxpool.Pool
}

func NewSectionRepo(pool *pgxpool.Pool) *SectionRepo {
	return &SectionRepo{pool: pool}
}

func (r *SectionRepo) Create(ctx context.Context, s *domain.Section) error {
	content, err := domain.EncodeContent(s.Content)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sections (id, profile_id, title, type, content, position, visible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.pool.Exec(ctx, query,
		s.ID, s.ProfileID, s.Title, s.Type, content, s.Position, s.Visible,
		s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *SectionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Section, error) {
	query := `
		SELECT id, profile_id, title, type, content, position, visible, created_at, updated_at
		FROM sections WHERE id = $1`

	var s domain.Section
	var raw []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.ProfileID, &s.Title, &s.Type, &raw,
		&s.Position, &s.Visible, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if s.Content, err = domain.DecodeContent(s.Type, raw); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SectionRepo) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Section, error) {
	query := `
		SELECT id, profile_id, title, type, content, position, visible, created_at, updated_at
		FROM sections
		WHERE profile_id = $1
		ORDER BY position, created_at`

	return r.listSections(ctx, query, profileID)
}

func (r *SectionRepo) ListVisibleByProfile(ctx context.Context, profileID uuid.UUID) ([]domain.Section, error) {
	query := `
		SELECT id, profile_id, title, type, content, position, visible, created_at, updated_at
		FROM sections
		WHERE profile_id = $1 AND visible
		ORDER BY position, created_at`

	return r.listSections(ctx, query, profileID)
}

func (r *SectionRepo) CountByProfile(ctx context.Context, profileID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM sections WHERE profile_id = $1`, profileID).Scan(&count)
	return count, err
}

func (r *SectionRepo) Update(ctx context.Context, s *domain.Section) error {
	content, err := domain.EncodeContent(s.Content)
	if err != nil {
		return err
	}

	query := `
		UPDATE sections
		SET title = $1, content = $2, position = $3, visible = $4, updated_at = $5
		WHERE id = $6`

	_, err = r.pool.Exec(ctx, query, s.Title, content, s.Position, s.Visible, s.UpdatedAt, s.ID)
	return err
}

func (r *SectionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	return err
}

func (r *SectionRepo) listSections(ctx context.Context, query string, profileID uuid.UUID) ([]domain.Section, error) {
	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var s domain.Section
		var raw []byte
		if err := rows.Scan(
			&s.ID, &s.ProfileID, &s.Title, &s.Type, &raw,
			&s.Position, &s.Visible, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if s.Content, err = domain.DecodeContent(s.Type, raw); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}
