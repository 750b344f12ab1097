package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type LinkRepository struct {
	db *pgxpool.Pool
}

func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create inserts the link row and registers its codes in link_codes within
// one transaction. The link_codes primary key enforces the combined
// uniqueness namespace; a violation surfaces as domain.ErrCodeTaken.
func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO links (original_url, short_code, custom_code, is_active, expires_at, creator_ip)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, clicks, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		link.OriginalURL,
		link.ShortCode,
		link.CustomCode,
		link.IsActive,
		link.ExpiresAt,
		link.CreatorIP,
	).Scan(&link.ID, &link.Clicks, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return translateError(err)
	}

	codes := []string{link.ShortCode}
	if link.CustomCode != nil {
		codes = append(codes, *link.CustomCode)
	}

	for _, code := range codes {
		if _, err := tx.Exec(ctx, `INSERT INTO link_codes (code, link_id) VALUES ($1, $2)`, code, link.ID); err != nil {
			return translateError(err)
		}
	}

	return tx.Commit(ctx)
}

// GetByCode resolves a code through the link_codes index, so a single query
// serves both system codes and custom aliases.
func (r *LinkRepository) GetByCode(ctx context.Context, code string) (*domain.Link, error) {
	var link domain.Link

	query := `
		SELECT l.id, l.original_url, l.short_code, l.custom_code, l.clicks,
		       l.is_active, l.expires_at, l.creator_ip, l.created_at, l.updated_at
		FROM links l
		JOIN link_codes c ON c.link_id = l.id
		WHERE c.code = $1
	`

	err := r.db.QueryRow(ctx, query, code).Scan(
		&link.ID,
		&link.OriginalURL,
		&link.ShortCode,
		&link.CustomCode,
		&link.Clicks,
		&link.IsActive,
		&link.ExpiresAt,
		&link.CreatorIP,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}

	return &link, nil
}

func (r *LinkRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM link_codes WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// IncrementClicks is the primary, atomic counter path.
func (r *LinkRepository) IncrementClicks(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE links SET clicks = clicks + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LinkRepository) GetClickCount(ctx context.Context, id int64) (int64, error) {
	var clicks int64
	err := r.db.QueryRow(ctx, `SELECT clicks FROM links WHERE id = $1`, id).Scan(&clicks)
	if err != nil {
		return 0, translateError(err)
	}
	return clicks, nil
}

// SetClickCount is the fallback counter path. It is a plain overwrite and
// can lose concurrent updates; analytics accept that.
func (r *LinkRepository) SetClickCount(ctx context.Context, id, clicks int64) error {
	_, err := r.db.Exec(ctx, `UPDATE links SET clicks = $2, updated_at = NOW() WHERE id = $1`, id, clicks)
	return err
}

func (r *LinkRepository) Recent(ctx context.Context, limit int) ([]domain.Link, error) {
	query := `
		SELECT id, original_url, short_code, custom_code, clicks,
		       is_active, expires_at, creator_ip, created_at, updated_at
		FROM links
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		var link domain.Link
		err := rows.Scan(
			&link.ID,
			&link.OriginalURL,
			&link.ShortCode,
			&link.CustomCode,
			&link.Clicks,
			&link.IsActive,
			&link.ExpiresAt,
			&link.CreatorIP,
			&link.CreatedAt,
			&link.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

func (r *LinkRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM links WHERE is_active = TRUE`).Scan(&count)
	return count, err
}

func (r *LinkRepository) SumActiveClicks(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(clicks), 0) FROM links WHERE is_active = TRUE`).Scan(&sum)
	return sum, err
}

func (r *LinkRepository) CountActiveCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM links WHERE is_active = TRUE AND created_at >= $1 AND created_at < $2`,
		from, to,
	).Scan(&count)
	return count, err
}

func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrCodeTaken
	}

	return err
}
