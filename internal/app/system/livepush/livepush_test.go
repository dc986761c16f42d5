package livepush

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/livequery"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestMailbox_LatestWinsPerType(t *testing.T) {
	m := newMailbox()
	m.put("classes", 1)
	m.put("posts", "a")
	m.put("classes", 2)

	got := m.take()
	if len(got) != 2 {
		t.Fatalf("got %d frames, want 2", len(got))
	}
	if got[0].Type != "classes" || got[0].Data != 2 {
		t.Errorf("frame 0: %+v", got[0])
	}
	if got[1].Type != "posts" {
		t.Errorf("frame 1: %+v", got[1])
	}
	if len(m.take()) != 0 {
		t.Error("mailbox should be empty after take")
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestServe_PushesFramesAndCancelsOnClose(t *testing.T) {
	s := New(zap.NewNop())
	closed := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Serve(w, r, "test", func(ctx context.Context, push Push, subs *livequery.Group) error {
			push("assignments", []string{"essay"})
			go func() {
				<-ctx.Done()
				close(closed)
			}()
			return nil
		})
	}))
	defer srv.Close()

	conn := dial(t, srv)
	var f Frame
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Type != "assignments" {
		t.Errorf("Type = %q", f.Type)
	}
	conn.Close()

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("view context not canceled after client closed")
	}
}

func TestServe_StartError(t *testing.T) {
	s := New(zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Serve(w, r, "broken", func(context.Context, Push, *livequery.Group) error {
			return errors.New("no profile")
		})
	}))
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()

	var f Frame
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Type != "error" {
		t.Errorf("expected error frame, got %+v", f)
	}
}
