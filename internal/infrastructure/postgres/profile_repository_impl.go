package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/bcit-connector/internal/domain/entity"
	"github.com/oksasatya/bcit-connector/internal/domain/repository"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileSelect = `
	SELECT p.id::text, p.user_id::text, u.name, u.avatar_url,
	       p.company, p.website, p.location, p.bio, p.status, p.github_username,
	       p.skills, p.social, p.experience, p.education, p.created_at, p.updated_at
	FROM profiles p
	JOIN users u ON u.id = p.user_id`

func scanProfile(row pgx.Row) (*entity.Profile, error) {
	p := &entity.Profile{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.User.Name, &p.User.AvatarURL,
		&p.Company, &p.Website, &p.Location, &p.Bio, &p.Status, &p.GithubUsername,
		&p.Skills, &p.Social, &p.Experience, &p.Education, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.User.ID = p.UserID
	p.Normalize()
	return p, nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, profileSelect+` WHERE p.user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidTextRep {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]entity.Profile, error) {
	rows, err := r.pool.Query(ctx, profileSelect+` ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProfileRepository) Upsert(ctx context.Context, p *entity.Profile) error {
	p.Normalize()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (user_id, company, website, location, bio, status, github_username, skills, social)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			bio = EXCLUDED.bio,
			status = EXCLUDED.status,
			github_username = EXCLUDED.github_username,
			skills = EXCLUDED.skills,
			social = EXCLUDED.social,
			updated_at = now()
		RETURNING id::text, created_at, updated_at
	`, p.UserID, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GithubUsername, p.Skills, p.Social)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if code := pgCode(err); code == codeForeignKeyViolation || code == codeInvalidTextRep {
			return repository.ErrNotFound
		}
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SaveEntries(ctx context.Context, p *entity.Profile) error {
	p.Normalize()
	res, err := r.pool.Exec(ctx, `
		UPDATE profiles SET experience = $1, education = $2, updated_at = now()
		WHERE user_id = $3
	`, p.Experience, p.Education, p.UserID)
	if err != nil {
		return fmt.Errorf("save profile entries: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
