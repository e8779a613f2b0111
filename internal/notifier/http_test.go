package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWebhookNotifier(t *testing.T) {
	var got webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Email alert sent"}`)) // nolint:errcheck
	}))
	defer server.Close()

	n, err := NewWebhookNotifier(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewWebhookNotifier() error = %v", err)
	}
	n.now = func() time.Time { return time.Date(2026, 3, 1, 1, 2, 3, 0, time.UTC) }

	if err := n.Notify(context.Background(), []Notice{testNotice()}); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if got.BatchID == "" {
		t.Error("batchId should be set")
	}
	if got.Timestamp != "2026-03-01T01:02:03Z" {
		t.Errorf("timestamp = %q", got.Timestamp)
	}
	if len(got.Alerts) != 1 || got.Alerts[0].Venue != "02" || got.Alerts[0].Odds != "6.2-8.0" {
		t.Errorf("alerts = %+v", got.Alerts)
	}
}

func TestWebhookNotifier_Errors(t *testing.T) {
	if _, err := NewWebhookNotifier("", time.Second); err == nil {
		t.Error("expected error for empty URL")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	n, _ := NewWebhookNotifier(server.URL, time.Second)
	err := n.Notify(context.Background(), []Notice{testNotice()})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status 429", err)
	}
}

func TestTelegramNotifier(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		response   string
		wantErr    bool
	}{
		{"success", http.StatusOK, `{"ok":true}`, false},
		{"api error", http.StatusOK, `{"ok":false,"description":"chat not found"}`, true},
		{"http error", http.StatusUnauthorized, `{"ok":false}`, true},
		{"bad json", http.StatusOK, `not json`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload map[string]interface{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/bottoken/sendMessage" {
					t.Errorf("path = %q", r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
					t.Errorf("Content-Type = %q", ct)
				}
				json.NewDecoder(r.Body).Decode(&payload) // nolint:errcheck
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.response)) // nolint:errcheck
			}))
			defer server.Close()

			n, err := NewTelegramNotifier("token", "12345")
			if err != nil {
				t.Fatalf("NewTelegramNotifier() error = %v", err)
			}
			n.baseURL = server.URL + "/bot"

			err = n.Notify(context.Background(), []Notice{testNotice()})
			if (err != nil) != tt.wantErr {
				t.Errorf("Notify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if payload["chat_id"] != "12345" || payload["parse_mode"] != "HTML" {
				t.Errorf("payload = %v", payload)
			}
			if text, _ := payload["text"].(string); !strings.Contains(text, "<b>戸田</b> 7R") {
				t.Errorf("text = %q", text)
			}
		})
	}
}

func TestNewTelegramNotifier_Validation(t *testing.T) {
	if _, err := NewTelegramNotifier("", "1"); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := NewTelegramNotifier("t", ""); err == nil {
		t.Error("expected error for empty chat")
	}
}
