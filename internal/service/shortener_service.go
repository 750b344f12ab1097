package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/HrustakV/kratky-link/pkg/validator"
)

// maxGenerateAttempts bounds the allocation loop. Exhausting it means the
// code space is too crowded for the configured length, which is an
// operational signal rather than a user error.
const maxGenerateAttempts = 10

const defaultCacheTTL = 24 * time.Hour

type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error
	GetByCode(ctx context.Context, code string) (*domain.Link, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Recent(ctx context.Context, limit int) ([]domain.Link, error)
	CountActive(ctx context.Context) (int64, error)
	SumActiveClicks(ctx context.Context) (int64, error)
	CountActiveCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type ClickRepository interface {
	Insert(ctx context.Context, click *domain.ClickEvent) error
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type CacheRepository interface {
	GetLink(ctx context.Context, code string) (*domain.Link, error)
	SetLink(ctx context.Context, code string, link *domain.Link, ttl time.Duration) error
}

type CodeGenerator interface {
	Generate() (string, error)
}

// Recorder accepts a click for background persistence. Implementations must
// not block and must never let a recording failure reach the caller.
type Recorder interface {
	Record(req domain.ClickRequest)
}

type ShortenerService struct {
	links    LinkRepository
	clicks   ClickRepository
	cache    CacheRepository
	gen      CodeGenerator
	recorder Recorder

	loopHosts []string
	nowFunc   func() time.Time
}

func NewShortenerService(
	links LinkRepository,
	clicks ClickRepository,
	cache CacheRepository,
	gen CodeGenerator,
	recorder Recorder,
	loopHosts []string,
) *ShortenerService {
	return &ShortenerService{
		links:     links,
		clicks:    clicks,
		cache:     cache,
		gen:       gen,
		recorder:  recorder,
		loopHosts: loopHosts,
		nowFunc:   time.Now,
	}
}

// Shorten validates and normalizes the target, reserves a unique code (plus
// the custom alias, when given) and persists the mapping. The existence
// pre-checks keep wasted writes rare; the store's uniqueness constraint is
// the final arbiter against the check-then-insert race.
func (s *ShortenerService) Shorten(ctx context.Context, req *domain.CreateLinkRequest) (*domain.Link, error) {
	normalized := validator.FormatURL(req.OriginalURL)
	if !validator.IsValidURL(normalized) {
		return nil, domain.ErrInvalidURL
	}

	if validator.IsLoopURL(normalized, s.loopHosts) {
		return nil, domain.ErrLoopURL
	}

	var customCode *string
	if custom := strings.TrimSpace(req.CustomCode); custom != "" {
		if !validator.IsValidCustomCode(custom) {
			return nil, domain.ErrInvalidAlias
		}

		taken, err := s.links.CodeExists(ctx, custom)
		if err != nil {
			return nil, fmt.Errorf("check alias: %w", err)
		}
		if taken {
			return nil, domain.ErrAliasTaken
		}

		customCode = &custom
	}

	var expiresAt *time.Time
	if req.ExpiryHours > 0 {
		expires := s.nowFunc().Add(time.Duration(req.ExpiryHours) * time.Hour)
		expiresAt = &expires
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := s.gen.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}

		taken, err := s.links.CodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check code: %w", err)
		}
		if taken {
			continue
		}

		link := &domain.Link{
			OriginalURL: normalized,
			ShortCode:   code,
			CustomCode:  customCode,
			IsActive:    true,
			ExpiresAt:   expiresAt,
			CreatorIP:   req.CreatorIP,
		}

		err = s.links.Create(ctx, link)
		if err == nil {
			return link, nil
		}

		if errors.Is(err, domain.ErrCodeTaken) {
			// The constraint cannot tell which code collided; with a
			// custom alias in play the alias gets the blame, otherwise
			// the candidate is discarded and the attempt retried.
			if customCode != nil {
				return nil, domain.ErrAliasTaken
			}
			continue
		}

		return nil, fmt.Errorf("create link: %w", err)
	}

	return nil, domain.ErrGenerationExhausted
}

// Resolve maps a code to its live target. Missing, inactive and expired
// records all collapse to domain.ErrNotFound so callers cannot distinguish
// them. A successful resolution hands the visit to the click recorder
// without waiting on it.
func (s *ShortenerService) Resolve(ctx context.Context, code string, visit domain.Visit) (*domain.Link, error) {
	link, err := s.cache.GetLink(ctx, code)
	if err != nil || link == nil {
		link, err = s.links.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("resolve %q: %w", code, err)
		}

		go s.fillCache(code, link)
	}

	// The record must literally carry the requested code. Guards against
	// any future lookup ambiguity and against a poisoned cache entry.
	if !link.MatchesCode(code) {
		return nil, domain.ErrNotFound
	}

	if !link.IsActive {
		return nil, domain.ErrNotFound
	}

	if link.ExpiresAt != nil && link.ExpiresAt.Before(s.nowFunc()) {
		return nil, domain.ErrNotFound
	}

	if s.recorder != nil {
		s.recorder.Record(domain.ClickRequest{
			LinkID:    link.ID,
			UserAgent: visit.UserAgent,
			Referer:   visit.Referer,
			IPAddress: visit.IPAddress,
		})
	}

	return link, nil
}

func (s *ShortenerService) fillCache(code string, link *domain.Link) {
	ttl := defaultCacheTTL
	if link.ExpiresAt != nil {
		ttl = time.Until(*link.ExpiresAt)
	}
	if ttl <= 0 {
		return
	}
	s.cache.SetLink(context.Background(), code, link, ttl)
}

func (s *ShortenerService) RecentLinks(ctx context.Context, limit int) ([]domain.Link, error) {
	if limit <= 0 || limit > 10 {
		limit = 10
	}
	return s.links.Recent(ctx, limit)
}

func (s *ShortenerService) Stats(ctx context.Context) (*domain.Stats, error) {
	now := s.nowFunc()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	totalURLs, err := s.links.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count active links: %w", err)
	}

	totalClicks, err := s.links.SumActiveClicks(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum clicks: %w", err)
	}

	todayURLs, err := s.links.CountActiveCreatedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("count today's links: %w", err)
	}

	todayClicks, err := s.clicks.CountBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("count today's clicks: %w", err)
	}

	return &domain.Stats{
		TotalURLs:   totalURLs,
		TotalClicks: totalClicks,
		TodayURLs:   todayURLs,
		TodayClicks: todayClicks,
	}, nil
}
