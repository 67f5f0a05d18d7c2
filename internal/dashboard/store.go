// Package dashboard holds the snapshot the API serves. Each upload replaces the
// snapshot wholesale.
package dashboard

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentimentiq/backend/internal/ingestion"
	"github.com/sentimentiq/backend/internal/metrics"
	"github.com/sentimentiq/backend/internal/models"
	"github.com/sentimentiq/backend/internal/sentiment"
	"github.com/sentimentiq/backend/pkg/logger"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

var ErrInvalidFilter = errors.New("invalid sentiment filter")

type Store struct {
	mu      sync.RWMutex
	current *models.Snapshot
	subs    map[<-chan *models.Snapshot]chan *models.Snapshot
}

func NewStore() *Store {
	return &Store{
		subs: make(map[<-chan *models.Snapshot]chan *models.Snapshot),
	}
}

// NewSnapshot wraps a pipeline result under a fresh id.
func NewSnapshot(source string, res *ingestion.Result) *models.Snapshot {
	return &models.Snapshot{
		ID:          uuid.New().String(),
		Source:      source,
		CreatedAt:   time.Now().UTC(),
		RowsDropped: res.Stats.Dropped,
		Columns:     res.Columns,
		Dashboard:   res.Dashboard,
		Reviews:     res.Reviews,
	}
}

// Current returns the latest snapshot, or nil before the first Replace.
// Callers must treat the snapshot as read-only.
func (s *Store) Current() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace swaps in snap and notifies subscribers.
func (s *Store) Replace(snap *models.Snapshot) {
	s.mu.Lock()
	s.current = snap
	for _, ch := range s.subs {
		offer(ch, snap)
	}
	subscribers := len(s.subs)
	s.mu.Unlock()

	if snap.Dashboard != nil {
		metrics.SnapshotReviews.Set(float64(snap.Dashboard.TotalReviews))
	}

	logger.Info("Snapshot replaced",
		zap.String("snapshot_id", snap.ID),
		zap.String("source", snap.Source),
		zap.Int("subscribers", subscribers),
	)
}

// Subscribe returns a channel that always holds the most recent snapshot not
// yet received. Slow readers skip intermediate snapshots.
func (s *Store) Subscribe() <-chan *models.Snapshot {
	ch := make(chan *models.Snapshot, 1)

	s.mu.Lock()
	s.subs[ch] = ch
	s.mu.Unlock()

	return ch
}

func (s *Store) Unsubscribe(ch <-chan *models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(c)
	}
}

func offer(ch chan *models.Snapshot, snap *models.Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

type ReviewPage struct {
	Reviews    []models.AnalyzedReview `json:"reviews"`
	Filter     string                  `json:"filter"`
	Page       int                     `json:"page"`
	PerPage    int                     `json:"per_page"`
	Total      int                     `json:"total"`
	TotalPages int                     `json:"total_pages"`
}

// Reviews pages through the current snapshot's reviews. filter is "All", empty,
// or a sentiment label in any case. Pages start at 1; a page past the end is empty.
func (s *Store) Reviews(filter string, page, perPage int) (*ReviewPage, error) {
	label := "All"
	var want models.Sentiment
	if filter != "" && !strings.EqualFold(filter, "all") {
		parsed, ok := sentiment.ParseLabel(filter)
		if !ok {
			return nil, ErrInvalidFilter
		}
		want = parsed
		label = string(parsed)
	}

	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}

	var all []models.AnalyzedReview
	if snap := s.Current(); snap != nil {
		all = snap.Reviews
	}

	matched := make([]models.AnalyzedReview, 0, len(all))
	for _, r := range all {
		if want == "" || r.Sentiment == want {
			matched = append(matched, r)
		}
	}

	result := &ReviewPage{
		Reviews:    []models.AnalyzedReview{},
		Filter:     label,
		Page:       page,
		PerPage:    perPage,
		Total:      len(matched),
		TotalPages: (len(matched) + perPage - 1) / perPage,
	}

	if page > result.TotalPages {
		return result, nil
	}

	start := (page - 1) * perPage
	if start < len(matched) {
		end := start + perPage
		if end > len(matched) {
			end = len(matched)
		}
		result.Reviews = matched[start:end]
	}

	return result, nil
}
