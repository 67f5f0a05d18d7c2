package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/sentimentiq/backend/internal/ingestion"
	"github.com/sentimentiq/backend/internal/models"
	"github.com/sentimentiq/backend/internal/sentiment"
)

func snapshotWith(t *testing.T, rows ...string) *models.Snapshot {
	t.Helper()
	lex := sentiment.DefaultLexicon()
	p := ingestion.NewProcessor(sentiment.NewKeywordClassifier(lex), lex)

	text := "product_name,review_text\n" + strings.Join(rows, "\n")
	res, err := p.Process(context.Background(), text)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return NewSnapshot("test.csv", res)
}

func TestStoreEmpty(t *testing.T) {
	s := NewStore()
	if s.Current() != nil {
		t.Fatal("expected nil snapshot before Replace")
	}
	page, err := s.Reviews("", 1, 10)
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if page.Total != 0 || len(page.Reviews) != 0 || page.Reviews == nil {
		t.Errorf("got %+v, want empty non-nil page", page)
	}
}

func TestStoreReplaceWholesale(t *testing.T) {
	s := NewStore()
	first := snapshotWith(t, "A,great", "B,awful")
	s.Replace(first)
	second := snapshotWith(t, "C,fine")
	s.Replace(second)

	cur := s.Current()
	if cur.ID != second.ID {
		t.Fatalf("Current: got %s, want %s", cur.ID, second.ID)
	}
	if cur.Dashboard.TotalReviews != 1 {
		t.Errorf("TotalReviews: got %d, want 1 (no merge)", cur.Dashboard.TotalReviews)
	}
	if first.ID == second.ID {
		t.Error("snapshot ids should differ")
	}
}

func TestSubscribeLatestWins(t *testing.T) {
	s := NewStore()
	ch := s.Subscribe()
	defer s.Unsubscribe(ch)

	a := snapshotWith(t, "A,great")
	b := snapshotWith(t, "B,awful")
	s.Replace(a)
	s.Replace(b)

	got := <-ch
	if got.ID != b.ID {
		t.Errorf("got %s, want latest %s", got.ID, b.ID)
	}
	select {
	case extra := <-ch:
		t.Errorf("unexpected extra snapshot %s", extra.ID)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	s := NewStore()
	ch := s.Subscribe()
	s.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
	// Second unsubscribe is a no-op and Replace must not panic.
	s.Unsubscribe(ch)
	s.Replace(DemoSnapshot())
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	snap := snapshotWith(t, "A,great")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace(snap)
		}()
		go func() {
			defer wg.Done()
			if cur := s.Current(); cur != nil && cur.Dashboard.TotalReviews != 1 {
				t.Errorf("torn snapshot: %+v", cur.Dashboard)
			}
		}()
	}
	wg.Wait()
}

func TestReviewsPagination(t *testing.T) {
	rows := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		text := "great"
		if i%5 == 0 {
			text = "awful"
		}
		rows = append(rows, fmt.Sprintf("P%d,%s", i, text))
	}
	s := NewStore()
	s.Replace(snapshotWith(t, rows...))

	page, err := s.Reviews("All", 3, 0)
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if page.PerPage != DefaultPerPage || page.Total != 25 || page.TotalPages != 3 {
		t.Errorf("got %+v", page)
	}
	if len(page.Reviews) != 5 || page.Reviews[0].Product != "P20" {
		t.Errorf("page 3: got %d reviews starting %q", len(page.Reviews), page.Reviews[0].Product)
	}

	neg, err := s.Reviews("negative", 1, 10)
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if neg.Filter != "Negative" || neg.Total != 5 {
		t.Errorf("negative: got filter %q total %d", neg.Filter, neg.Total)
	}
	for _, r := range neg.Reviews {
		if r.Sentiment != models.Negative {
			t.Errorf("unexpected %s review in negative page", r.Sentiment)
		}
	}

	past, _ := s.Reviews("", 9, 10)
	if len(past.Reviews) != 0 {
		t.Errorf("page past end: got %d reviews", len(past.Reviews))
	}
}

func TestReviewsHugePage(t *testing.T) {
	s := NewStore()
	s.Replace(snapshotWith(t, "A,great", "B,awful"))

	page, err := s.Reviews("", math.MaxInt64, 10)
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if len(page.Reviews) != 0 || page.Total != 2 || page.Page != math.MaxInt64 {
		t.Errorf("got %+v, want empty page", page)
	}
}

func TestReviewsInvalidFilter(t *testing.T) {
	if _, err := NewStore().Reviews("angry", 1, 10); !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("got %v, want ErrInvalidFilter", err)
	}
}

func TestDemoData(t *testing.T) {
	d := DemoData()
	sum := 0
	for _, b := range d.SentimentDistribution {
		sum += b.Count
	}
	if sum != d.TotalReviews {
		t.Errorf("distribution sums to %d, want %d", sum, d.TotalReviews)
	}
	if len(d.TrendData) != 12 || d.TrendData[11].Date != "Dec" {
		t.Errorf("trend: got %d months", len(d.TrendData))
	}
	if d.SentimentLabel != string(models.Positive) {
		t.Errorf("label: got %q", d.SentimentLabel)
	}

	snap := DemoSnapshot()
	if snap.Source != DemoSource || len(snap.Reviews) != 0 {
		t.Errorf("demo snapshot: got %+v", snap)
	}
}
