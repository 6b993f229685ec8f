package model

// EventType enumerates the tracked client actions.
type EventType string

const (
	EventPageView        EventType = "page_view"
	EventDownload        EventType = "download"
	EventContactClick    EventType = "contact_click"
	EventNavigationClick EventType = "navigation_click"
)

// Valid reports whether t is one of the four tracked kinds.
func (t EventType) Valid() bool {
	switch t {
	case EventPageView, EventDownload, EventContactClick, EventNavigationClick:
		return true
	}
	return false
}

// IsAction reports whether t is counted under the per-action counters.
func (t EventType) IsAction() bool {
	return t == EventDownload || t == EventContactClick || t == EventNavigationClick
}

// AnalyticsEvent is written once and never updated. Timestamp is unix millis.
type AnalyticsEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Page      string    `json:"page"`
	Action    string    `json:"action,omitempty"`
	Timestamp int64     `json:"timestamp"`
	SessionID string    `json:"sessionId,omitempty"`
}

// PageCount is one row of the top pages list.
type PageCount struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

// ActivityEntry is a human-readable recent action.
type ActivityEntry struct {
	Action    string `json:"action"`
	Page      string `json:"page"`
	Timestamp int64  `json:"timestamp"`
}

// AnalyticsSummary is the admin dashboard view over the stored analytics.
type AnalyticsSummary struct {
	TotalPageViews        int             `json:"totalPageViews"`
	TotalDownloads        int             `json:"totalDownloads"`
	TotalContactClicks    int             `json:"totalContactClicks"`
	TotalNavigationClicks int             `json:"totalNavigationClicks"`
	TopPages              []PageCount     `json:"topPages"`
	RecentActivity        []ActivityEntry `json:"recentActivity"`
}

// EmptySummary is returned when the store cannot be read.
func EmptySummary() AnalyticsSummary {
	return AnalyticsSummary{
		TopPages:       []PageCount{},
		RecentActivity: []ActivityEntry{},
	}
}

const (
	AnalyticsPrefix    = "analytics:"
	AnalyticsRecentKey = "analytics:recent"
	RecentEventsLimit  = 50
	SummaryDays        = 7
	TopPagesLimit      = 5
	RecentActivityShow = 10
)
