package postgres

import (
	"context"
	"errors"

	"github.com/arlenko/folio/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = "id, user_id, username, display_name, bio, avatar_url, banner_url, theme, created_at, updated_at"

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// CreatePrivileged provisions through the create_profile function, which is
// SECURITY DEFINER and therefore not subject to the row-level policies that
// would reject an insert for a profile row that does not exist yet.
func (r *ProfileRepo) CreatePrivileged(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM create_profile($1, $2, $3, $4)`

	var created domain.Profile
	err := r.pool.QueryRow(ctx, query, p.ID, p.UserID, p.Username, p.DisplayName).Scan(
		&created.ID, &created.UserID, &created.Username, &created.DisplayName,
		&created.Bio, &created.AvatarURL, &created.BannerURL, &created.Theme,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, username, display_name, bio, theme, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.Username, p.DisplayName, p.Bio, p.Theme,
		p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return r.scanProfile(ctx, "SELECT "+profileColumns+" FROM profiles WHERE user_id = $1", userID)
}

// GetByUsername matches case-insensitively; usernames are stored lowercase.
func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return r.scanProfile(ctx, "SELECT "+profileColumns+" FROM profiles WHERE username = lower($1)", username)
}

func (r *ProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $1, bio = $2, avatar_url = $3, banner_url = $4, theme = $5, updated_at = $6
		WHERE id = $7`

	_, err := r.pool.Exec(ctx, query,
		p.DisplayName, p.Bio, p.AvatarURL, p.BannerURL, p.Theme, p.UpdatedAt, p.ID,
	)
	return err
}

func (r *ProfileRepo) scanProfile(ctx context.Context, query string, arg any) (*domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.UserID, &p.Username, &p.DisplayName,
		&p.Bio, &p.AvatarURL, &p.BannerURL, &p.Theme,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
