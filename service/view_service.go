package service

import (
	"strconv"
	"time"

	"plumenote/dao"
	"plumenote/model"
)

// DedupWindow is how long repeat views by the same user on the same note are
// collapsed into the existing event without counting again.
const DedupWindow = time.Hour

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 20
)

// ViewService is the view-tracking ledger plus the per-user recency lists.
type ViewService struct {
	events *dao.ViewEventDAO
	notes  *NoteService
}

func NewViewService(events *dao.ViewEventDAO, notes *NoteService) *ViewService {
	return &ViewService{events: events, notes: notes}
}

// RecordView records that the user viewed the note at `now` and reports
// whether the visit counted along with the note's resulting view total.
// Access is verified first; callers get ErrNoteNotFound for notes they may
// not see. Safe to call fire-and-forget: the underlying write is one
// transaction, so a failure leaves no partial state.
func (s *ViewService) RecordView(userID, noteID uint64, now time.Time) (counted bool, viewCount int64, err error) {
	if _, err := s.notes.GetAccessible(noteID, userID); err != nil {
		return false, 0, err
	}
	return s.events.RecordView(userID, noteID, now, DedupWindow)
}

// RecentLists is the payload for the recent-notes endpoint. The two lists
// are independent; a note may appear in both.
type RecentLists struct {
	RecentlyViewed   []dao.RecentlyViewedEntry `json:"recently_viewed"`
	RecentlyModified []RecentNoteEntry         `json:"recently_modified"`
}

// RecentNoteEntry is one row of the recently-modified list.
type RecentNoteEntry struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	FolderID  *uint64   `json:"folder_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetRecent builds both recency lists for the user.
func (s *ViewService) GetRecent(userID uint64, limit int) (*RecentLists, error) {
	viewed, err := s.events.RecentlyViewed(userID, limit)
	if err != nil {
		return nil, err
	}
	modified, err := s.notes.notes.RecentlyModified(userID, limit)
	if err != nil {
		return nil, err
	}
	return &RecentLists{
		RecentlyViewed:   viewed,
		RecentlyModified: toRecentEntries(modified),
	}, nil
}

func toRecentEntries(notes []model.Note) []RecentNoteEntry {
	entries := make([]RecentNoteEntry, 0, len(notes))
	for _, note := range notes {
		entries = append(entries, RecentNoteEntry{
			ID:        note.ID,
			Title:     note.Title,
			FolderID:  note.FolderID,
			UpdatedAt: note.UpdatedAt,
		})
	}
	return entries
}

// ParseRecentLimit turns the raw query value into a usable limit: empty or
// non-numeric input falls back to the default instead of erroring, and the
// result is clamped to [1, 20].
func ParseRecentLimit(raw string) int {
	limit := defaultRecentLimit
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return limit
}
