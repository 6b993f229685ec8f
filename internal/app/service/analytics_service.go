package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/suwityarat/portfolio/internal/app/model"
	apprepository "github.com/suwityarat/portfolio/internal/app/repository"
	"github.com/suwityarat/portfolio/internal/apperror"
	"github.com/suwityarat/portfolio/internal/infra/prometheus"
	"go.uber.org/zap"
)

const dayLayout = "2006-01-02"

// AnalyticsService records client events and serves the admin summary.
type AnalyticsService interface {
	// Track stores one event. Storage failures are logged and swallowed;
	// only an unknown event type is reported. Pages under /admin are ignored
	// and yield a nil event.
	Track(ctx context.Context, input TrackInput) (*model.AnalyticsEvent, error)
	// Summary never fails; unreadable storage yields an empty summary.
	Summary(ctx context.Context) model.AnalyticsSummary
	// Reset deletes every key under the analytics namespace.
	Reset(ctx context.Context) (int, error)
}

// TrackInput is the client-reported event.
type TrackInput struct {
	Type      string
	Page      string
	Action    string
	SessionID string
}

type analyticsService struct {
	repo   apprepository.AnalyticsRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalyticsService returns a service backed by repo.
func NewAnalyticsService(repo apprepository.AnalyticsRepository, logger *zap.Logger) AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &analyticsService{repo: repo, logger: logger, now: time.Now}
}

// IsAdminPath reports whether path belongs to the admin section, which is
// never tracked.
func IsAdminPath(path string) bool {
	return strings.Contains(path, "/admin")
}

func (s *analyticsService) Track(ctx context.Context, input TrackInput) (*model.AnalyticsEvent, error) {
	eventType := model.EventType(strings.TrimSpace(input.Type))
	if !eventType.Valid() {
		return nil, apperror.Validation("Invalid event type")
	}
	if IsAdminPath(input.Page) {
		return nil, nil
	}

	page := input.Page
	if page == "" {
		page = "/"
	}

	now := s.now().UTC()
	event := &model.AnalyticsEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Page:      page,
		Action:    strings.TrimSpace(input.Action),
		Timestamp: now.UnixMilli(),
		SessionID: input.SessionID,
	}
	s.store(ctx, event, now.Format(dayLayout))
	return event, nil
}

func (s *analyticsService) store(ctx context.Context, event *model.AnalyticsEvent, day string) {
	log := s.logger.With(zap.String("event_id", event.ID), zap.String("type", string(event.Type)))

	if err := s.repo.SaveEvent(ctx, event); err != nil {
		log.Warn("failed to store analytics event", zap.Error(err))
		return
	}

	if event.Type == model.EventPageView {
		if _, err := s.repo.IncrementPage(ctx, day, event.Page); err != nil {
			log.Warn("failed to increment page counter", zap.Error(err))
			return
		}
	}

	if event.Type.IsAction() {
		action := event.Action
		if action == "" {
			action = string(event.Type)
		}
		if _, err := s.repo.IncrementAction(ctx, day, action); err != nil {
			log.Warn("failed to increment action counter", zap.Error(err))
			return
		}
	}

	if err := s.repo.PushRecent(ctx, event); err != nil {
		log.Warn("failed to update recent events", zap.Error(err))
		return
	}

	prometheus.RecordAnalyticsEvent(string(event.Type))
}

func (s *analyticsService) Summary(ctx context.Context) model.AnalyticsSummary {
	recent, err := s.repo.Recent(ctx)
	if err != nil {
		s.logger.Error("failed to read recent events", zap.Error(err))
		return model.EmptySummary()
	}

	summary := model.EmptySummary()
	for _, ev := range recent {
		switch ev.Type {
		case model.EventPageView:
			summary.TotalPageViews++
		case model.EventDownload:
			summary.TotalDownloads++
		case model.EventContactClick:
			summary.TotalContactClicks++
		case model.EventNavigationClick:
			summary.TotalNavigationClicks++
		}
	}

	pageCounts := make(map[string]int64)
	today := s.now().UTC()
	for i := 0; i < model.SummaryDays; i++ {
		day := today.AddDate(0, 0, -i).Format(dayLayout)
		counts, err := s.repo.PageCounts(ctx, day)
		if err != nil {
			s.logger.Error("failed to read page counters", zap.String("day", day), zap.Error(err))
			return model.EmptySummary()
		}
		for page, n := range counts {
			pageCounts[page] += n
		}
	}
	summary.TopPages = topPages(pageCounts, model.TopPagesLimit)
	summary.RecentActivity = recentActivity(recent, model.RecentActivityShow)

	return summary
}

func (s *analyticsService) Reset(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset analytics: %w", err)
	}
	s.logger.Info("analytics data reset", zap.Int("keys", n))
	return n, nil
}

func topPages(counts map[string]int64, limit int) []model.PageCount {
	merged := make(map[string]int64, len(counts))
	for page, n := range counts {
		merged[pageDisplayName(page)] += n
	}

	pages := make([]model.PageCount, 0, len(merged))
	for page, n := range merged {
		pages = append(pages, model.PageCount{Page: page, Count: n})
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Count != pages[j].Count {
			return pages[i].Count > pages[j].Count
		}
		return pages[i].Page < pages[j].Page
	})
	if len(pages) > limit {
		pages = pages[:limit]
	}
	return pages
}

// recentActivity labels recent events, skipping bare page views.
func recentActivity(events []model.AnalyticsEvent, limit int) []model.ActivityEntry {
	entries := make([]model.ActivityEntry, 0, limit)
	for _, ev := range events {
		if ev.Type == model.EventPageView && ev.Action == "" {
			continue
		}
		entries = append(entries, model.ActivityEntry{
			Action:    activityLabel(ev),
			Page:      homeName(ev.Page),
			Timestamp: ev.Timestamp,
		})
		if len(entries) == limit {
			break
		}
	}
	return entries
}

func activityLabel(ev model.AnalyticsEvent) string {
	if ev.Action != "" {
		return ev.Action
	}
	switch ev.Type {
	case model.EventPageView:
		return "Viewed " + homeName(ev.Page)
	case model.EventDownload:
		return "Downloaded Resume"
	case model.EventContactClick:
		return "Clicked contact"
	case model.EventNavigationClick:
		return "Navigated to page"
	}
	return "Unknown"
}

func pageDisplayName(page string) string {
	switch page {
	case "/":
		return "Home"
	case "/about":
		return "About"
	case "/portfolio":
		return "Portfolio"
	case "/contact":
		return "Contact"
	}
	return page
}

func homeName(page string) string {
	if page == "/" {
		return "Home"
	}
	return page
}
