package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"plumenote/dao"
	"plumenote/model"

	"github.com/go-redis/redis/v8"
)

const (
	activityDays           = 30
	defaultTopNotesLimit   = 10
	defaultTopContribLimit = 5
	dateLayout             = "2006-01-02"
)

// StatsScope narrows every aggregation either to the whole instance or to a
// single workspace. Passed explicitly instead of overloading each signature.
type StatsScope struct {
	WorkspaceID *uint64
}

func (s StatsScope) cacheKey() string {
	if s.WorkspaceID == nil {
		return "pn:stats:all"
	}
	return "pn:stats:ws:" + strconv.FormatUint(*s.WorkspaceID, 10)
}

// DailyActivity is one calendar-day bucket of note creation/modification.
type DailyActivity struct {
	Date     string `json:"date"`
	Created  int64  `json:"created"`
	Modified int64  `json:"modified"`
}

// Contributor is one ranked entry of the contributor leaderboard.
type Contributor struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Image         string `json:"image"`
	NotesCreated  int64  `json:"notes_created"`
	NotesModified int64  `json:"notes_modified"`
}

// TopNote is one ranked entry of the most-viewed leaderboard.
type TopNote struct {
	ID            uint64 `json:"id"`
	Title         string `json:"title"`
	ViewsCount    int64  `json:"views_count"`
	ContainerName string `json:"container_name"`
}

// StatsOverview is the full admin statistics payload.
type StatsOverview struct {
	TotalNotes      int64           `json:"total_notes"`
	TotalUsers      int64           `json:"total_users"`
	TotalWorkspaces int64           `json:"total_workspaces"`
	TotalViews      int64           `json:"total_views"`
	DailyActivity   []DailyActivity `json:"daily_activity"`
	TopNotes        []TopNote       `json:"top_notes"`
	TopContributors []Contributor   `json:"top_contributors"`
}

// StatsService assembles the admin statistics payload. Results are cached in
// Redis for a short TTL per scope; each underlying query is an independent
// snapshot, the same as the CRUD reads elsewhere.
type StatsService struct {
	stats      *dao.StatsDAO
	users      *dao.UserDAO
	notes      *dao.NoteDAO
	workspaces *dao.WorkspaceDAO
	rdb        *redis.Client
	cacheTTL   time.Duration
}

func NewStatsService(stats *dao.StatsDAO, users *dao.UserDAO, notes *dao.NoteDAO, workspaces *dao.WorkspaceDAO, rdb *redis.Client, cacheTTL time.Duration) *StatsService {
	return &StatsService{
		stats:      stats,
		users:      users,
		notes:      notes,
		workspaces: workspaces,
		rdb:        rdb,
		cacheTTL:   cacheTTL,
	}
}

// GetOverview returns the cached payload when fresh, otherwise rebuilds it.
// The bool result reports whether the cache served the request.
func (s *StatsService) GetOverview(ctx context.Context, scope StatsScope) (*StatsOverview, bool, error) {
	if s.rdb != nil && s.cacheTTL > 0 {
		if raw, err := s.rdb.Get(ctx, scope.cacheKey()).Result(); err == nil && raw != "" {
			var cached StatsOverview
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, true, nil
			}
		}
	}

	overview, err := s.buildOverview(scope, time.Now())
	if err != nil {
		return nil, false, err
	}

	if s.rdb != nil && s.cacheTTL > 0 {
		if raw, err := json.Marshal(overview); err == nil {
			_ = s.rdb.Set(ctx, scope.cacheKey(), raw, s.cacheTTL).Err()
		}
	}
	return overview, false, nil
}

func (s *StatsService) buildOverview(scope StatsScope, now time.Time) (*StatsOverview, error) {
	overview := &StatsOverview{}
	var err error

	if overview.TotalNotes, err = s.notes.Count(scope.WorkspaceID); err != nil {
		return nil, err
	}
	if overview.TotalUsers, err = s.users.Count(); err != nil {
		return nil, err
	}
	if overview.TotalWorkspaces, err = s.workspaces.Count(); err != nil {
		return nil, err
	}
	if overview.TotalViews, err = s.stats.TotalViews(scope.WorkspaceID); err != nil {
		return nil, err
	}
	if overview.DailyActivity, err = s.GetDailyActivity(scope, now); err != nil {
		return nil, err
	}
	if overview.TopNotes, err = s.GetTopNotes(scope, defaultTopNotesLimit); err != nil {
		return nil, err
	}
	if overview.TopContributors, err = s.GetTopContributors(scope, defaultTopContribLimit); err != nil {
		return nil, err
	}
	return overview, nil
}

// GetDailyActivity produces a gapless 30-day series ending today, local
// calendar days, oldest first.
func (s *StatsService) GetDailyActivity(scope StatsScope, now time.Time) ([]DailyActivity, error) {
	windowStart := dayStart(now).AddDate(0, 0, -(activityDays - 1))
	rows, err := s.stats.NoteTimestampsSince(windowStart, scope.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return buildDailyActivity(rows, now), nil
}

// buildDailyActivity buckets note timestamps into calendar days. The full
// window is zero-filled up front so quiet days still appear in the series.
// A note counts once under created and, only when it was actually edited
// after creation (updated_at differs from created_at), once under modified.
func buildDailyActivity(rows []dao.NoteTimestamps, now time.Time) []DailyActivity {
	start := dayStart(now).AddDate(0, 0, -(activityDays - 1))

	byDate := make(map[string]*DailyActivity, activityDays)
	series := make([]DailyActivity, activityDays)
	for i := 0; i < activityDays; i++ {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		series[i] = DailyActivity{Date: date}
		byDate[date] = &series[i]
	}

	for _, row := range rows {
		if bucket, ok := byDate[row.CreatedAt.Format(dateLayout)]; ok {
			bucket.Created++
		}
		if !row.UpdatedAt.Equal(row.CreatedAt) {
			if bucket, ok := byDate[row.UpdatedAt.Format(dateLayout)]; ok {
				bucket.Modified++
			}
		}
	}
	return series
}

// GetTopNotes ranks notes by view count inside the scope.
func (s *StatsService) GetTopNotes(scope StatsScope, limit int) ([]TopNote, error) {
	if limit <= 0 {
		limit = defaultTopNotesLimit
	}
	rows, err := s.stats.TopNotes(limit, scope.WorkspaceID)
	if err != nil {
		return nil, err
	}
	top := make([]TopNote, 0, len(rows))
	for _, row := range rows {
		top = append(top, TopNote{
			ID:            row.ID,
			Title:         row.Title,
			ViewsCount:    row.ViewsCount,
			ContainerName: containerName(row.FolderName, row.WorkspaceName),
		})
	}
	return top, nil
}

func containerName(folder, workspace *string) string {
	if folder != nil && *folder != "" {
		return *folder
	}
	if workspace != nil {
		return *workspace
	}
	return ""
}

// GetTopContributors ranks users by created+modified note counts and then
// loads display metadata for just the winners.
func (s *StatsService) GetTopContributors(scope StatsScope, limit int) ([]Contributor, error) {
	if limit <= 0 {
		limit = defaultTopContribLimit
	}
	created, err := s.stats.CreatedCountsByUser(scope.WorkspaceID)
	if err != nil {
		return nil, err
	}
	modified, err := s.stats.ModifiedCountsByUser(scope.WorkspaceID)
	if err != nil {
		return nil, err
	}

	ranked := mergeContributorCounts(created, modified, limit)

	ids := make([]uint64, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.ID)
	}
	users, err := s.users.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range ranked {
		u, ok := byID[ranked[i].ID]
		if !ok {
			continue
		}
		ranked[i].Name = u.Nickname
		if ranked[i].Name == "" {
			ranked[i].Name = u.Username
		}
		ranked[i].Image = u.AvatarURL
	}
	return ranked, nil
}

// mergeContributorCounts joins the created/modified maps by user, keeping a
// zero on whichever side is missing, and returns the top entries by combined
// total (ties broken by user id ascending). There is no minimum-activity
// threshold; a single note is enough to rank when the field is small.
func mergeContributorCounts(created, modified map[uint64]int64, limit int) []Contributor {
	totals := make(map[uint64]Contributor, len(created)+len(modified))
	for userID, n := range created {
		totals[userID] = Contributor{ID: userID, NotesCreated: n}
	}
	for userID, n := range modified {
		c := totals[userID]
		c.ID = userID
		c.NotesModified = n
		totals[userID] = c
	}

	ranked := make([]Contributor, 0, len(totals))
	for _, c := range totals {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		ti := ranked[i].NotesCreated + ranked[i].NotesModified
		tj := ranked[j].NotesCreated + ranked[j].NotesModified
		if ti != tj {
			return ti > tj
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
