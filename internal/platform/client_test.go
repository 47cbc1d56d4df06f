package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "token-1", testLog())
}

func TestInsights_ParsesMetrics(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/post-1/insights" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("metric"); got != "views,likes,replies,reposts,quotes" {
			t.Errorf("unexpected metric param %q", got)
		}
		fmt.Fprint(w, `{"data":[
			{"name":"views","values":[{"value":1200}]},
			{"name":"likes","values":[{"value":15}]},
			{"name":"replies","values":[{"value":3}]},
			{"name":"reposts","values":[{"value":2}]},
			{"name":"quotes","values":[{"value":1}]}
		]}`)
	})

	e, err := c.Insights(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Views != 1200 || e.Likes != 15 || e.Replies != 3 || e.Reposts != 2 || e.Quotes != 1 {
		t.Errorf("metrics not parsed: %+v", e)
	}

	// Second fetch served from cache.
	if _, err := c.Insights(context.Background(), "post-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one upstream call, got %d", calls)
	}
}

func TestCreateContainer_SendsReplyTarget(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("media_type") != "TEXT" || q.Get("text") != "hello" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("reply_to_id") != "parent-1" {
			t.Errorf("reply target missing: %v", q)
		}
		if q.Get("access_token") != "token-1" {
			t.Error("access token missing")
		}
		fmt.Fprint(w, `{"id":"ctr-9"}`)
	})

	id, err := c.CreateContainer(context.Background(), "me", "hello", "parent-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "ctr-9" {
		t.Errorf("expected ctr-9, got %s", id)
	}
}

func TestAPIError_NotFoundIsNotRetried(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"message":"Unsupported get request","type":"GraphMethodException","code":100}}`)
	})

	_, err := c.ContainerStatus(context.Background(), "ctr-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("expected a not-found error, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != 100 || apiErr.Message != "Unsupported get request" {
		t.Errorf("error body not decoded: %v", err)
	}
	if calls != 1 {
		t.Errorf("4xx must not be retried, got %d calls", calls)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"server error", &APIError{StatusCode: 500}, true},
		{"rate limited", &APIError{StatusCode: 429}, true},
		{"bad request", &APIError{StatusCode: 400}, false},
		{"not found", &APIError{StatusCode: 404}, false},
		{"transport failure", errors.New("connection refused"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Errorf("isTransient = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRefreshToken_SwapsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/refresh_access_token":
			if r.URL.Query().Get("grant_type") != "th_refresh_token" {
				t.Errorf("unexpected grant type %q", r.URL.Query().Get("grant_type"))
			}
			fmt.Fprint(w, `{"access_token":"token-2","expires_in":5184000}`)
		case "/me":
			if r.URL.Query().Get("access_token") != "token-2" {
				t.Errorf("refreshed token not in use: %q", r.URL.Query().Get("access_token"))
			}
			fmt.Fprint(w, `{"id":"me"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	token, err := c.RefreshToken(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "token-2" {
		t.Errorf("expected token-2, got %s", token)
	}
	if err := c.CheckToken(context.Background()); err != nil {
		t.Fatalf("check with refreshed token failed: %v", err)
	}
}

func TestKeywordSearch_SendsWindow(t *testing.T) {
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/keyword_search" || q.Get("q") != "balcony garden" {
			t.Errorf("unexpected request %s %v", r.URL.Path, q)
		}
		if q.Get("since") == "" || q.Get("until") == "" {
			t.Error("time window missing")
		}
		fmt.Fprint(w, `{"data":[{"id":"p1","text":"my balcony garden","username":"someone"}]}`)
	})

	posts, err := c.KeywordSearch(context.Background(), "balcony garden", since, until)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Errorf("results not decoded: %+v", posts)
	}
}

func TestReplies_ReadsThread(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/p1/replies" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{"id":"r1","text":"nice one","username":"friend"}]}`)
	})

	replies, err := c.Replies(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(replies) != 1 || replies[0].Username != "friend" {
		t.Errorf("replies not decoded: %+v", replies)
	}
}

func TestRecentPosts_DecodesTimestamps(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"id":"p1","text":"first","username":"main","timestamp":"2026-08-01T09:30:00+0000"},
			{"id":"p2","text":"second","username":"main","timestamp":""}
		]}`)
	})

	posts, err := c.RecentPosts(context.Background(), "me", time.Time{}, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[0].Timestamp.IsZero() {
		t.Error("timestamp not decoded")
	}
	if posts[0].Timestamp.UTC().Hour() != 9 {
		t.Errorf("timestamp decoded wrong: %v", posts[0].Timestamp)
	}
	if !posts[1].Timestamp.IsZero() {
		t.Error("empty timestamp should stay zero")
	}
}
