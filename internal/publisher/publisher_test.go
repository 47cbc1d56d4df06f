package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"threadcaster/internal/models"
	"threadcaster/internal/platform"
	"threadcaster/internal/store"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func testHistory(t *testing.T) *store.HistoryStore {
	t.Helper()
	h, err := store.NewHistoryStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create history store: %v", err)
	}
	return h
}

// fakePlatform scripts the three publish endpoints. statuses is consumed
// one entry per poll; the last entry repeats once drained.
type fakePlatform struct {
	statuses []platform.ContainerState
	polls    int
	creates  int
	publishs int
}

func (f *fakePlatform) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/threads"):
			f.creates++
			json.NewEncoder(w).Encode(map[string]string{"id": "ctr-1"})
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/threads_publish"):
			f.publishs++
			json.NewEncoder(w).Encode(map[string]string{"id": "post-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/ctr-1":
			idx := f.polls
			if idx >= len(f.statuses) {
				idx = len(f.statuses) - 1
			}
			f.polls++
			json.NewEncoder(w).Encode(f.statuses[idx])
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"message":"unknown path","code":100}}`)
		}
	})
}

func newTestPublisher(t *testing.T, f *fakePlatform) (*Publisher, *store.HistoryStore) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	history := testHistory(t)
	p := New(platform.NewClient(srv.URL, "token", testLog()), history, false, testLog())
	p.pollInterval = time.Millisecond
	p.maxPolls = 3
	return p, history
}

func request() Request {
	return Request{
		Account:  models.Account{Name: "main", UserID: "me"},
		Category: models.CategoryKnowhow,
		TopicKey: "knowhow:test:0",
		Text:     "a finished post",
	}
}

func TestPublish_AppendsHistoryOnSuccess(t *testing.T) {
	f := &fakePlatform{statuses: []platform.ContainerState{
		{Status: platform.StatusInProgress},
		{Status: platform.StatusFinished},
	}}
	p, history := newTestPublisher(t, f)

	postID, err := p.Publish(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if postID != "post-1" {
		t.Errorf("expected post-1, got %s", postID)
	}
	if f.publishs != 1 {
		t.Errorf("expected one publish call, got %d", f.publishs)
	}

	records, err := history.Load("main")
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	rec := records[0]
	if rec.PlatformPostID != "post-1" || rec.Category != models.CategoryKnowhow || rec.TopicKey != "knowhow:test:0" {
		t.Errorf("record not filled from request: %+v", rec)
	}
	if rec.CharCount != len([]rune("a finished post")) {
		t.Errorf("unexpected char count %d", rec.CharCount)
	}
}

func TestPublish_ContainerErrorLeavesHistoryEmpty(t *testing.T) {
	f := &fakePlatform{statuses: []platform.ContainerState{
		{Status: platform.StatusError, ErrorMessage: "text not allowed"},
	}}
	p, history := newTestPublisher(t, f)

	_, err := p.Publish(context.Background(), request())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "text not allowed") {
		t.Errorf("platform message not surfaced: %v", err)
	}
	if f.publishs != 0 {
		t.Errorf("publish endpoint must not be hit, got %d calls", f.publishs)
	}

	records, err := history.Load("main")
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d records", len(records))
	}
}

func TestPublish_PollBudgetExhausted(t *testing.T) {
	f := &fakePlatform{statuses: []platform.ContainerState{
		{Status: platform.StatusInProgress},
	}}
	p, history := newTestPublisher(t, f)

	_, err := p.Publish(context.Background(), request())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "never became ready") {
		t.Errorf("unexpected error: %v", err)
	}
	if f.polls != 3 {
		t.Errorf("expected 3 polls, got %d", f.polls)
	}

	records, err := history.Load("main")
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d records", len(records))
	}
}

func TestPublish_DryRunMintsLocalIDAndAppends(t *testing.T) {
	history := testHistory(t)
	p := New(nil, history, true, testLog())

	postID, err := p.Publish(context.Background(), request())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(postID, models.DryRunIDPrefix) {
		t.Errorf("expected dry-run id, got %s", postID)
	}

	records, err := history.Load("main")
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if !records[0].IsDryRun() {
		t.Errorf("record should be flagged dry-run: %+v", records[0])
	}
}

func TestPublish_ReplyCarriesTarget(t *testing.T) {
	history := testHistory(t)
	p := New(nil, history, true, testLog())

	req := request()
	req.ReplyToID = "parent-7"
	if _, err := p.Publish(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := history.Load("main")
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(records) != 1 || !records[0].IsReply() || records[0].RepliedTo != "parent-7" {
		t.Errorf("reply target not recorded: %+v", records)
	}
}
