package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/suwityarat/portfolio/internal/app/model"
)

// AnalyticsRepository defines the data access contract for analytics keys.
type AnalyticsRepository interface {
	SaveEvent(ctx context.Context, event *model.AnalyticsEvent) error
	IncrementPage(ctx context.Context, day, page string) (int64, error)
	IncrementAction(ctx context.Context, day, action string) (int64, error)
	PushRecent(ctx context.Context, event *model.AnalyticsEvent) error
	Recent(ctx context.Context) ([]model.AnalyticsEvent, error)
	PageCounts(ctx context.Context, day string) (map[string]int64, error)
	DeleteAll(ctx context.Context) (int, error)
}

type analyticsRepository struct {
	kv    KV
	limit int
}

// NewAnalyticsRepository returns a KV-backed AnalyticsRepository.
func NewAnalyticsRepository(kv KV) AnalyticsRepository {
	return &analyticsRepository{kv: kv, limit: model.RecentEventsLimit}
}

func EventKey(id string) string { return model.AnalyticsPrefix + "event:" + id }

func PageCounterKey(day, page string) string {
	return pageDayPrefix(day) + page
}

func ActionCounterKey(day, action string) string {
	return model.AnalyticsPrefix + "action:" + day + ":" + action
}

func pageDayPrefix(day string) string {
	return model.AnalyticsPrefix + "page:" + day + ":"
}

func (r *analyticsRepository) SaveEvent(ctx context.Context, event *model.AnalyticsEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, EventKey(event.ID), string(data))
}

func (r *analyticsRepository) IncrementPage(ctx context.Context, day, page string) (int64, error) {
	return r.kv.Incr(ctx, PageCounterKey(day, page))
}

func (r *analyticsRepository) IncrementAction(ctx context.Context, day, action string) (int64, error) {
	return r.kv.Incr(ctx, ActionCounterKey(day, action))
}

// PushRecent prepends event to the recent list and drops entries beyond the
// cap. The list is rewritten as a whole; concurrent pushes may lose entries.
func (r *analyticsRepository) PushRecent(ctx context.Context, event *model.AnalyticsEvent) error {
	events, err := r.Recent(ctx)
	if err != nil {
		return err
	}

	events = append([]model.AnalyticsEvent{*event}, events...)
	if len(events) > r.limit {
		events = events[:r.limit]
	}

	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, model.AnalyticsRecentKey, string(data))
}

func (r *analyticsRepository) Recent(ctx context.Context) ([]model.AnalyticsEvent, error) {
	raw, ok, err := r.kv.Get(ctx, model.AnalyticsRecentKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []model.AnalyticsEvent{}, nil
	}

	var events []model.AnalyticsEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return nil, fmt.Errorf("decode recent events: %w", err)
	}
	return events, nil
}

func (r *analyticsRepository) PageCounts(ctx context.Context, day string) (map[string]int64, error) {
	prefix := pageDayPrefix(day)
	keys, err := r.kv.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(keys))
	for _, key := range keys {
		raw, ok, err := r.kv.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			continue
		}
		counts[strings.TrimPrefix(key, prefix)] += n
	}
	return counts, nil
}

func (r *analyticsRepository) DeleteAll(ctx context.Context) (int, error) {
	keys, err := r.kv.List(ctx, model.AnalyticsPrefix)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.kv.Delete(ctx, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}
