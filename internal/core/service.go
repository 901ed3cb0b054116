package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/byhelaman/sched-planner/internal/config"
	"github.com/byhelaman/sched-planner/internal/schedule"
	"github.com/byhelaman/sched-planner/internal/schema"
	"github.com/byhelaman/sched-planner/internal/store"
	"github.com/byhelaman/sched-planner/internal/workbook"
)

// DefaultMaxAge is how long a collection lives when no max age is configured.
const DefaultMaxAge = time.Hour

// Options tune a Service. Zero values select defaults.
type Options struct {
	// MaxAge is the lifetime of a collection after its last write.
	MaxAge time.Duration

	// MaxFiles caps the number of files per upload; 0 means no cap.
	MaxFiles int

	// UploadTimeout bounds parsing and storing one upload; 0 means none.
	UploadTimeout time.Duration

	// Limiter bounds concurrent uploads; nil admits every upload.
	Limiter *UploadLimiter
}

// Service provides schedule ingestion, editing and export over a Store.
type Service struct {
	store   store.Store
	parser  *workbook.Parser
	limiter *UploadLimiter

	maxAge        time.Duration
	maxFiles      int
	uploadTimeout time.Duration

	sweeping atomic.Bool
}

// NewService creates a Service on st that parses uploads with parser.
func NewService(st store.Store, parser *workbook.Parser, opts Options) *Service {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	return &Service{
		store:         st,
		parser:        parser,
		limiter:       opts.Limiter,
		maxAge:        opts.MaxAge,
		maxFiles:      opts.MaxFiles,
		uploadTimeout: opts.UploadTimeout,
	}
}

// NewParser builds the workbook parser selected by cfg.
func NewParser(cfg config.ParseConfig) (*workbook.Parser, error) {
	layout, err := schema.Lookup(cfg.SheetLayout)
	if err != nil {
		return nil, err
	}
	tags := schedule.NewTagFilter(schedule.TagMatch(cfg.TagMatch))
	return workbook.NewParser(schedule.NewExtractor(layout, tags), cfg.MaxWorkers), nil
}

// NewServiceFromConfig wires a Service on st from application config.
func NewServiceFromConfig(cfg *config.Config, st store.Store) (*Service, error) {
	parser, err := NewParser(cfg.Parse)
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}
	return NewService(st, parser, Options{
		MaxAge:        cfg.Session.MaxAge,
		MaxFiles:      cfg.Upload.MaxFiles,
		UploadTimeout: cfg.Upload.Timeout,
		Limiter:       NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
	}), nil
}

// MaxAge returns the configured collection lifetime.
func (s *Service) MaxAge() time.Duration {
	return s.maxAge
}

// UploadLimiterStatus returns the upload limiter state; zero when unlimited.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	if s.limiter == nil {
		return UploadLimiterStatus{}
	}
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight uploads finish or ctx is done.
func (s *Service) WaitForUploads(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.WaitForDrain(ctx)
}
