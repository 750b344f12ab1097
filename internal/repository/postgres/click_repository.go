package postgres

import (
	"context"
	"time"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClickRepository struct {
	db *pgxpool.Pool
}

func NewClickRepository(db *pgxpool.Pool) *ClickRepository {
	return &ClickRepository{db: db}
}

func (r *ClickRepository) Insert(ctx context.Context, click *domain.ClickEvent) error {
	query := `
		INSERT INTO link_clicks (link_id, ip_address, user_agent, referer, device_type, browser, os, country_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, clicked_at
	`

	return r.db.QueryRow(ctx, query,
		click.LinkID,
		click.IPAddress,
		click.UserAgent,
		click.Referer,
		click.DeviceType,
		click.Browser,
		click.OS,
		click.CountryCode,
	).Scan(&click.ID, &click.ClickedAt)
}

func (r *ClickRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM link_clicks WHERE clicked_at >= $1 AND clicked_at < $2`,
		from, to,
	).Scan(&count)
	return count, err
}
