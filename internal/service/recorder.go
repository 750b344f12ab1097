package service

import (
	"context"
	"sync"
	"time"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/HrustakV/kratky-link/internal/logger"
	"github.com/HrustakV/kratky-link/pkg/detector"
)

const recordTimeout = 5 * time.Second

// ClickCounter is the two-path counter contract: an atomic increment as the
// primary path and a read-modify-write pair as the fallback.
type ClickCounter interface {
	IncrementClicks(ctx context.Context, id int64) error
	GetClickCount(ctx context.Context, id int64) (int64, error)
	SetClickCount(ctx context.Context, id, clicks int64) error
}

// CountryResolver enriches click events with an ISO country code. A nil
// resolver disables enrichment.
type CountryResolver interface {
	Country(ip string) string
}

// ClickRecorder persists click events off the request path. Events are
// queued on a bounded channel and drained by worker goroutines; a full
// queue drops the event. Failures are logged and never propagate, so the
// redirect that produced the click is never blocked or broken.
type ClickRecorder struct {
	clicks  ClickRepository
	counter ClickCounter
	geo     CountryResolver

	queue   chan domain.ClickRequest
	workers int
	wg      sync.WaitGroup
}

func NewClickRecorder(clicks ClickRepository, counter ClickCounter, geo CountryResolver, queueSize, workers int) *ClickRecorder {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if workers <= 0 {
		workers = 1
	}

	return &ClickRecorder{
		clicks:  clicks,
		counter: counter,
		geo:     geo,
		queue:   make(chan domain.ClickRequest, queueSize),
		workers: workers,
	}
}

func (r *ClickRecorder) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for req := range r.queue {
				r.process(req)
			}
		}()
	}
}

// Close stops accepting clicks and drains the queue. Call only after the
// HTTP server has stopped producing events.
func (r *ClickRecorder) Close() {
	close(r.queue)
	r.wg.Wait()
}

// Record enqueues a click without blocking.
func (r *ClickRecorder) Record(req domain.ClickRequest) {
	select {
	case r.queue <- req:
	default:
		logger.Get().Warn("click queue full, dropping event", "link_id", req.LinkID)
	}
}

func (r *ClickRecorder) process(req domain.ClickRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	log := logger.Get()

	event := &domain.ClickEvent{
		LinkID:     req.LinkID,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		Referer:    req.Referer,
		DeviceType: detector.DetectDeviceType(req.UserAgent),
		Browser:    detector.DetectBrowser(req.UserAgent),
		OS:         detector.DetectOS(req.UserAgent),
	}
	if r.geo != nil {
		event.CountryCode = r.geo.Country(req.IPAddress)
	}

	// The event row and the counter are independent best-effort writes; a
	// failed insert must not cost the link its click.
	if err := r.clicks.Insert(ctx, event); err != nil {
		log.Error("insert click event", "link_id", req.LinkID, "error", err)
	}

	if err := r.counter.IncrementClicks(ctx, req.LinkID); err != nil {
		log.Warn("atomic increment failed, using fallback", "link_id", req.LinkID, "error", err)

		if err := r.fallbackIncrement(ctx, req.LinkID); err != nil {
			log.Error("click counter fallback failed", "link_id", req.LinkID, "error", err)
		}
	}
}

// fallbackIncrement reads and writes back clicks+1. Concurrent fallbacks can
// lose an update; the counter stays monotonic either way.
func (r *ClickRecorder) fallbackIncrement(ctx context.Context, id int64) error {
	clicks, err := r.counter.GetClickCount(ctx, id)
	if err != nil {
		return err
	}
	return r.counter.SetClickCount(ctx, id, clicks+1)
}
