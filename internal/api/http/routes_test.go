package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-bot/internal/store"
)

type echoReplier struct{}

func (echoReplier) Reply(_ context.Context, text string) string {
	return "reply to " + text
}

func newTestApp(probes *store.MemoryStore) *fiber.App {
	app := fiber.New(fiber.Config{ReadBufferSize: ReadBufferSize})
	RegisterRoutes(app, echoReplier{}, probes)
	return app
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestHealth(t *testing.T) {
	probes := store.NewMemoryStore(10, 0)
	app := newTestApp(probes)

	var body struct {
		Status string       `json:"status"`
		Probe  *store.Probe `json:"probe"`
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decode(t, resp, &body)
	if body.Status != "ok" || body.Probe != nil {
		t.Fatalf("unexpected health without probes: %+v", body)
	}

	probes.Save(store.Probe{Provider: "weatherapi", Query: "Москва", Timestamp: time.Now().UTC(), OK: false, Error: "timeout"})

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decode(t, resp, &body)
	if body.Status != "degraded" || body.Probe == nil || body.Probe.Error != "timeout" {
		t.Fatalf("unexpected health after failed probe: %+v", body)
	}
}

func TestReply(t *testing.T) {
	app := newTestApp(store.NewMemoryStore(10, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reply?text="+url.QueryEscape("погода Лондон"), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Reply string `json:"reply"`
	}
	decode(t, resp, &body)
	if body.Reply != "reply to погода Лондон" {
		t.Fatalf("unexpected reply %q", body.Reply)
	}
}

// TestReplyValidation verifies that the reply endpoint requires a text of at
// most 4096 characters, counted in runes.
func TestReplyValidation(t *testing.T) {
	app := newTestApp(store.NewMemoryStore(10, 0))

	tests := []struct {
		name   string
		text   string
		status int
	}{
		{"missing text", "", http.StatusBadRequest},
		{"cyrillic at limit", strings.Repeat("ж", 4096), http.StatusOK},
		{"cyrillic over limit", strings.Repeat("ж", 4097), http.StatusBadRequest},
		{"emoji at limit", strings.Repeat("🌤", 4096), http.StatusOK},
		{"long lookup command", "погода " + strings.Repeat("ж", 700), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/v1/reply"
			if tt.text != "" {
				target += "?text=" + url.QueryEscape(tt.text)
			}

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestProbes(t *testing.T) {
	probes := store.NewMemoryStore(10, 0)
	base := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	probes.Save(store.Probe{Provider: "weatherapi", Timestamp: base, OK: true})
	probes.Save(store.Probe{Provider: "weatherapi", Timestamp: base.Add(time.Hour), OK: true})
	app := newTestApp(probes)

	target := "/api/v1/probes?from=" + url.QueryEscape(base.Format(time.RFC3339)) +
		"&to=" + url.QueryEscape(base.Add(30*time.Minute).Format(time.RFC3339))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Probes []store.Probe `json:"probes"`
	}
	decode(t, resp, &body)
	if len(body.Probes) != 1 {
		t.Fatalf("expected 1 probe in range, got %d", len(body.Probes))
	}
}

func TestProbesErrors(t *testing.T) {
	app := newTestApp(store.NewMemoryStore(10, 0))

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing params", "/api/v1/probes", http.StatusBadRequest},
		{"bad time", "/api/v1/probes?from=yesterday&to=1700000000", http.StatusBadRequest},
		{"to before from", "/api/v1/probes?from=1700000100&to=1700000000", http.StatusBadRequest},
		{"empty range", "/api/v1/probes?from=1700000000&to=1700000100", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	want := time.Unix(1700000000, 0).UTC()

	for _, in := range []string{"1700000000", want.Format(time.RFC3339)} {
		got, err := parseTime(in)
		if err != nil {
			t.Fatalf("parseTime(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parseTime(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := parseTime("tomorrow"); err == nil {
		t.Fatal("expected error")
	}
}
