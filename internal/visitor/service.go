package visitor

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is used when a caller supplies no page size.
const DefaultPageSize = 20

// DefaultChartDays is the trailing window for the daily chart series.
const DefaultChartDays = 30

// topHostsLimit caps the host leaderboard in Stats.
const topHostsLimit = 10

// Service implements the listing, statistics and chart operations of
// the dashboard. It only reads the store.
type Service struct {
	repo *Repository

	// now is replaceable in tests; stat windows are computed in its
	// returned location (server local time).
	now func() time.Time
}

// NewService creates a visitor service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Pagination describes the page of a listing response.
type Pagination struct {
	Current int  `json:"current"`
	Pages   int  `json:"pages"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// ListResult is the listing response body.
type ListResult struct {
	Visitors   []Display  `json:"visitors"`
	Pagination Pagination `json:"pagination"`
}

// List returns one page of records matching params, most recent first.
//
// The whole matched set is loaded and sorted here rather than in SQL:
// the sort key is the resolved effective timestamp across two columns
// of mixed presence, and keeping the resolution in one place (Record
// methods) is worth the O(matched-set) memory at visitor-log scale.
// Page and pageSize are coerced to 1 / DefaultPageSize when invalid.
func (s *Service) List(params Params, page, pageSize int) (*ListResult, error) {
	records, err := s.repo.Find(params.Filter())
	if err != nil {
		return nil, err
	}
	sortByRecency(records)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(records)
	pages := (total + pageSize - 1) / pageSize

	skip := (page - 1) * pageSize
	if skip > total {
		skip = total
	}
	end := skip + pageSize
	if end > total {
		end = total
	}

	visitors := make([]Display, 0, end-skip)
	for _, rec := range records[skip:end] {
		visitors = append(visitors, rec.ToDisplay())
	}

	return &ListResult{
		Visitors: visitors,
		Pagination: Pagination{
			Current: page,
			Pages:   pages,
			Total:   total,
			HasNext: page*pageSize < total,
			HasPrev: page > 1,
		},
	}, nil
}

// ExportResult is the export response body: every matching record,
// sorted like the listing, with no pagination.
type ExportResult struct {
	Visitors []Display `json:"visitors"`
	Total    int       `json:"total"`
}

// Export returns all records matching params for client-side CSV export.
func (s *Service) Export(params Params) (*ExportResult, error) {
	records, err := s.repo.Find(params.Filter())
	if err != nil {
		return nil, err
	}
	sortByRecency(records)

	visitors := make([]Display, 0, len(records))
	for _, rec := range records {
		visitors = append(visitors, rec.ToDisplay())
	}

	return &ExportResult{Visitors: visitors, Total: len(visitors)}, nil
}

// StatsResult is the dashboard statistics response body.
type StatsResult struct {
	TotalVisitors   int          `json:"totalVisitors"`
	TodayVisitors   int          `json:"todayVisitors"`
	WeeklyVisitors  int          `json:"weeklyVisitors"`
	MonthlyVisitors int          `json:"monthlyVisitors"`
	TypeStats       []GroupCount `json:"typeStats"`
	TopHosts        []GroupCount `json:"topHosts"`
}

// Stats computes the dashboard KPI counts and group-by summaries.
// Windows are local-time: today is [midnight, tomorrow), the week
// starts on the most recent Monday, the month on its first day. The
// six sub-queries are independent reads and run concurrently; any
// failure fails the whole call.
func (s *Service) Stats() (*StatsResult, error) {
	now := s.now()
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := startOfWeek(today)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	var res StatsResult
	var g errgroup.Group

	g.Go(func() error {
		n, err := s.repo.Count(nil)
		res.TotalVisitors = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Count(windowCond(today, tomorrow))
		res.TodayVisitors = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Count(windowCond(weekStart, tomorrow))
		res.WeeklyVisitors = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Count(windowCond(monthStart, nextMonth))
		res.MonthlyVisitors = n
		return err
	})
	g.Go(func() error {
		groups, err := s.repo.GroupCounts("type", 0)
		res.TypeStats = groups
		return err
	})
	g.Go(func() error {
		groups, err := s.repo.GroupCounts("host", topHostsLimit)
		res.TopHosts = groups
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &res, nil
}

// ChartSeries returns daily visit counts over the trailing window of
// days (default 30 when days < 1), from local midnight days ago through
// now. Buckets are the effective timestamp's UTC calendar date, so the
// series does not depend on server timezone. Dates with no visits are
// absent, not zero.
func (s *Service) ChartSeries(days int) ([]GroupCount, error) {
	if days < 1 {
		days = DefaultChartDays
	}

	now := s.now()
	start := startOfDay(now.AddDate(0, 0, -days))

	records, err := s.repo.Find(Or(
		Between("entry_time", &start, nil),
		Between("timestamp", &start, nil),
	))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, rec := range records {
		t, ok := rec.EffectiveTime()
		if !ok || t.Before(start) {
			// A legacy row can match the window on its fallback field
			// while its effective time is older than the window.
			continue
		}
		counts[t.UTC().Format("2006-01-02")]++
	}

	series := make([]GroupCount, 0, len(counts))
	for date, n := range counts {
		series = append(series, GroupCount{ID: date, Count: n})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].ID < series[j].ID })

	return series, nil
}

// sortByRecency orders records by effective timestamp descending.
// Records with no timestamp sort as epoch (last); equal timestamps
// tie-break descending by ID so the order is total and deterministic.
func sortByRecency(records []*Record) {
	sort.Slice(records, func(i, j int) bool {
		ti, tj := records[i].sortTime(), records[j].sortTime()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return strings.Compare(records[i].ID, records[j].ID) > 0
	})
}

// windowCond matches records whose entry_time or timestamp falls in
// [from, until). The store keeps millisecond precision, so the
// exclusive upper bound is expressed as an inclusive bound one
// millisecond earlier.
func windowCond(from, until time.Time) Cond {
	to := until.Add(-time.Millisecond)
	return Or(
		Between("entry_time", &from, &to),
		Between("timestamp", &from, &to),
	)
}

// startOfDay returns local midnight of t's day.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the most recent Monday at midnight. Week start is
// Monday by product decision; a Sunday maps to the Monday six days
// earlier.
func startOfWeek(day time.Time) time.Time {
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, 1-weekday)
}
