package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ssarthak-dev/honeygrid/internal/protocol"
)

const defaultTimeout = 5 * time.Second

// Dispatcher delivers final intelligence reports to the external reporting
// collaborator. Delivery is best-effort: one attempt, short timeout, failures
// logged and swallowed; the reply path never depends on it.
type Dispatcher struct {
	url    string
	client *http.Client
	// onDone, when set, is invoked after each async delivery attempt. Tests
	// use it to synchronize.
	onDone func(error)
}

func NewDispatcher(url string, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		url:    strings.TrimSpace(url),
		client: &http.Client{Timeout: timeout},
	}
}

// DispatchAsync hands the report off to a detached goroutine and returns
// immediately.
func (d *Dispatcher) DispatchAsync(rep protocol.FinalReport) {
	go func() {
		err := d.Send(context.Background(), rep)
		if err != nil {
			log.Printf("report delivery failed for session %s: %v", rep.SessionID, err)
		}
		if d.onDone != nil {
			d.onDone(err)
		}
	}()
}

// Send performs the single delivery attempt.
func (d *Dispatcher) Send(ctx context.Context, rep protocol.FinalReport) error {
	if d.url == "" {
		log.Printf("no report URL configured, final report for session %s logged only", rep.SessionID)
		return nil
	}

	body, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return fmt.Errorf("report endpoint status %d: %s", resp.StatusCode, string(snippet))
	}

	log.Printf("report delivered for session %s (scam=%v, artifacts=%d categories)",
		rep.SessionID, rep.ScamDetected, len(rep.ExtractedIntelligence))
	return nil
}
