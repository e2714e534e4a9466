package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// readFrame returns the next non-empty SSE line
func readFrame(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	lines := make(chan string, 1)
	go func() {
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			if line = strings.TrimSpace(line); line != "" {
				lines <- line
				return
			}
		}
	}()
	select {
	case line, ok := <-lines:
		if !ok {
			t.Fatal("stream closed")
		}
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for SSE frame")
	}
	return ""
}

func connect(t *testing.T, srv *httptest.Server, query string) *bufio.Reader {
	t.Helper()
	resp, err := http.Get(srv.URL + query)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %s, want text/event-stream", ct)
	}
	r := bufio.NewReader(resp.Body)
	if line := readFrame(t, r); line != ": connected" {
		t.Fatalf("first frame = %q, want \": connected\"", line)
	}
	return r
}

func TestHubBroadcast(t *testing.T) {
	h := New()
	srv := httptest.NewServer(h)
	defer srv.Close()

	// Stopping the hub ends open streams so srv.Close does not wait on them
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	all := connect(t, srv, "")
	scoped := connect(t, srv, "?session=s1")

	t.Run("unscoped event reaches everyone", func(t *testing.T) {
		h.Broadcast("", map[string]string{"type": "session_created"})
		want := `data: {"type":"session_created"}`
		if got := readFrame(t, all); got != want {
			t.Errorf("all got %q, want %q", got, want)
		}
		if got := readFrame(t, scoped); got != want {
			t.Errorf("scoped got %q, want %q", got, want)
		}
	})

	t.Run("session events are filtered", func(t *testing.T) {
		h.Broadcast("s2", map[string]string{"type": "marker_inserted", "session_id": "s2"})
		h.Broadcast("s1", map[string]string{"type": "marker_inserted", "session_id": "s1"})

		// The unscoped client sees both, the s1 client only its own
		if got := readFrame(t, all); !strings.Contains(got, `"s2"`) {
			t.Errorf("all got %q, want s2 event first", got)
		}
		if got := readFrame(t, all); !strings.Contains(got, `"s1"`) {
			t.Errorf("all got %q, want s1 event", got)
		}
		if got := readFrame(t, scoped); !strings.Contains(got, `"s1"`) {
			t.Errorf("scoped got %q, want only the s1 event", got)
		}
	})

	if n := h.ClientCount(); n != 2 {
		t.Errorf("ClientCount() = %d, want 2", n)
	}
}

func TestHubUnmarshalableEvent(t *testing.T) {
	h := New()
	// Channels cannot be encoded; Broadcast drops the event instead of queueing it
	h.Broadcast("", make(chan int))
	if len(h.broadcast) != 0 {
		t.Error("expected event to be dropped")
	}
}
