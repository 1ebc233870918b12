package web

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	appLog "weekcal/internal/log"
	"weekcal/internal/sample"
)

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	Sources int      `json:"sources"`
	Failed  int      `json:"failed"`
	Events  int      `json:"events"`
	Sample  bool     `json:"sample,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Refresh reloads the store from the configured ICS sources. Without
// sources it seeds the demo data (when enabled) into an empty store. When
// every source fails the store is left untouched.
func (s *Server) Refresh(ctx context.Context) RefreshResult {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	sources := s.cfg.Sources()
	if len(sources) == 0 {
		res := RefreshResult{Events: s.store.Len()}
		if s.cfg.Sample && s.store.Len() == 0 {
			s.store.Replace(sample.Around(s.now(), s.cfg.Weekday()))
			res.Events = s.store.Len()
			res.Sample = true
			appLog.Info("loaded sample events", "count", res.Events)
		}
		return res
	}

	events, errs := s.fetcher.Load(ctx, sources, s.loc)
	res := RefreshResult{Sources: len(sources), Failed: len(errs)}
	for _, err := range errs {
		res.Errors = append(res.Errors, err.Error())
	}
	if len(errs) > 0 {
		appLog.Error("refresh: one or more ICS sources failed", errorsAggregate(errs), "error_count", len(errs))
	}
	if len(errs) == len(sources) {
		res.Events = s.store.Len()
		return res
	}

	s.store.Replace(events)
	res.Events = s.store.Len()
	appLog.Info("refresh done", "sources", len(sources), "failed", len(errs), "events", res.Events)
	return res
}

// StartScheduler runs Refresh once and then on cfg.RefreshCron until ctx is
// canceled.
func (s *Server) StartScheduler(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.cfg.RefreshCron, func() { s.Refresh(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.cfg.RefreshCron, err)
	}

	s.Refresh(ctx)
	c.Start()
	appLog.Info("refresh scheduler started", "schedule", s.cfg.RefreshCron)

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		appLog.Info("refresh scheduler stopped")
	}()
	return nil
}
