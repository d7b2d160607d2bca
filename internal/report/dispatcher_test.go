package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ssarthak-dev/honeygrid/internal/protocol"
)

func sampleReport() protocol.FinalReport {
	return protocol.FinalReport{
		ReportID:               "r-1",
		SessionID:              "s-1",
		ScamDetected:           true,
		TotalMessagesExchanged: 20,
		ExtractedIntelligence: map[string][]string{
			"phoneNumbers": {"9876543210"},
		},
		AgentNotes:        "notes",
		EngagementSeconds: 42,
	}
}

func TestSendPostsReportJSON(t *testing.T) {
	var got protocol.FinalReport
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, time.Second)
	if err := d.Send(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.SessionID != "s-1" || !got.ScamDetected || got.TotalMessagesExchanged != 20 {
		t.Fatalf("received report = %+v", got)
	}
	if len(got.ExtractedIntelligence["phoneNumbers"]) != 1 {
		t.Fatalf("intelligence not delivered: %+v", got.ExtractedIntelligence)
	}
}

func TestSendErrorsOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collector down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, time.Second)
	if err := d.Send(context.Background(), sampleReport()); err == nil {
		t.Fatalf("Send returned nil on 500")
	}
}

func TestSendWithoutURLIsNoOp(t *testing.T) {
	d := NewDispatcher("", time.Second)
	if err := d.Send(context.Background(), sampleReport()); err != nil {
		t.Fatalf("Send without URL: %v", err)
	}
}

func TestDispatchAsyncDeliversExactlyOnce(t *testing.T) {
	hits := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, time.Second)
	done := make(chan error, 1)
	d.onDone = func(err error) { done <- err }

	d.DispatchAsync(sampleReport())

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("async delivery: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("async delivery did not complete")
	}

	if n := len(hits); n != 1 {
		t.Fatalf("collector hit %d times, want 1", n)
	}
}

func TestDispatchAsyncSwallowsFailure(t *testing.T) {
	d := NewDispatcher("http://127.0.0.1:0/unreachable", 200*time.Millisecond)
	done := make(chan error, 1)
	d.onDone = func(err error) { done <- err }

	d.DispatchAsync(sampleReport())

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected delivery error for unreachable collector")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("async delivery did not complete")
	}
}
