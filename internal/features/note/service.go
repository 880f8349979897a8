package note

import (
	"context"
	"sort"
	"strings"
	"time"

	"go-backoffice/internal/common/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NoteService interface {
	Record(ctx context.Context, leadID, content, author string, noteType Type) error
	ListForLead(ctx context.Context, leadID string, limit int64) ([]NoteEntry, error)
}

type NoteServiceImpl struct {
	Repo  NoteRepository
	nowFn func() time.Time
}

func NewNoteService(repo NoteRepository) NoteService {
	return &NoteServiceImpl{Repo: repo, nowFn: time.Now}
}

// Record appends a new entry. Every call gets its own id and timestamp, so concurrent
// writers on the same lead produce independent entries.
func (s *NoteServiceImpl) Record(ctx context.Context, leadID, content, author string, noteType Type) error {
	if leadID == "" {
		return errs.Validation("note.record", "lead id is required")
	}
	if strings.TrimSpace(content) == "" {
		return errs.Validation("note.record", "content is required")
	}
	if !noteType.Valid() {
		return errs.Validation("note.record", "unknown note type %q", noteType)
	}
	if author == "" {
		author = "System"
	}

	entry := &NoteEntry{
		ID:      primitive.NewObjectID().Hex(),
		LeadID:  leadID,
		Content: content,
		Author:  author,
		Date:    s.nowFn().UTC(), // provisional; the Mongo store dates entries with its own clock
		Type:    noteType,
	}
	return s.Repo.Insert(ctx, entry)
}

func (s *NoteServiceImpl) ListForLead(ctx context.Context, leadID string, limit int64) ([]NoteEntry, error) {
	entries, err := s.Repo.ListByLead(ctx, leadID, limit)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(entries)
	return entries, nil
}

// SortNewestFirst orders entries by date descending, id descending on ties.
func SortNewestFirst(entries []NoteEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].ID > entries[j].ID
	})
}
