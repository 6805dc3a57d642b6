package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type gatewayState struct {
	mu        sync.Mutex
	authCalls int
	sendCalls int
	lastAuth  map[string]string
	lastSend  map[string]string
	lastToken string
}

// newGateway fakes the SMS provider: /auth/login hands out tokens, and
// /message/sms/send accepts them via authorize.
func newGateway(t *testing.T, state *gatewayState, issueToken func(call int) string, authorize func(header string) int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			state.mu.Lock()
			state.authCalls++
			call := state.authCalls
			var creds map[string]string
			_ = json.NewDecoder(r.Body).Decode(&creds)
			state.lastAuth = creds
			state.mu.Unlock()

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{
					"token":      issueToken(call),
					"expires_in": 3600,
				},
			})
		case "/message/sms/send":
			state.mu.Lock()
			state.sendCalls++
			state.lastToken = r.Header.Get("Authorization")
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			state.lastSend = body
			header := state.lastToken
			state.mu.Unlock()

			status := authorize(header)
			w.WriteHeader(status)
			if status == http.StatusOK {
				_, _ = w.Write([]byte(`{"id":"1"}`))
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestSendOtpDisabled(t *testing.T) {
	// The base URL is unreachable on purpose; a disabled gateway must not
	// touch the network.
	svc := NewSMSService("http://sms.invalid", "api@example.com", "hunter2", "4546", false)
	if err := svc.SendOtp(context.Background(), "998901234567", 123456); err != nil {
		t.Fatalf("disabled SendOtp returned error: %v", err)
	}
}

func TestSendOtp(t *testing.T) {
	state := &gatewayState{}
	srv := newGateway(t, state,
		func(int) string { return "token-1" },
		func(string) int { return http.StatusOK },
	)
	defer srv.Close()

	svc := NewSMSService(srv.URL, "api@example.com", "hunter2", "4546", true)

	if err := svc.SendOtp(context.Background(), "998901234567", 123456); err != nil {
		t.Fatalf("SendOtp returned error: %v", err)
	}

	state.mu.Lock()
	if state.authCalls != 1 {
		t.Errorf("auth called %d times, want 1", state.authCalls)
	}
	if state.lastAuth["email"] != "api@example.com" || state.lastAuth["password"] != "hunter2" {
		t.Errorf("auth credentials = %v, want the configured ones", state.lastAuth)
	}
	if state.sendCalls != 1 {
		t.Errorf("send called %d times, want 1", state.sendCalls)
	}
	if state.lastToken != "Bearer token-1" {
		t.Errorf("authorization header = %q, want %q", state.lastToken, "Bearer token-1")
	}
	if state.lastSend["mobile_phone"] != "998901234567" {
		t.Errorf("mobile_phone = %q, want the target phone", state.lastSend["mobile_phone"])
	}
	if state.lastSend["from"] != "4546" {
		t.Errorf("from = %q, want the configured sender", state.lastSend["from"])
	}
	if !strings.Contains(state.lastSend["message"], "123456") {
		t.Errorf("message %q does not carry the code", state.lastSend["message"])
	}
	state.mu.Unlock()

	// A second send must reuse the cached token.
	if err := svc.SendOtp(context.Background(), "998901234567", 654321); err != nil {
		t.Fatalf("second SendOtp returned error: %v", err)
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	if state.authCalls != 1 {
		t.Errorf("auth called %d times after second send, want 1", state.authCalls)
	}
	if state.sendCalls != 2 {
		t.Errorf("send called %d times, want 2", state.sendCalls)
	}
}

func TestSendOtpRetriesOnUnauthorized(t *testing.T) {
	state := &gatewayState{}
	srv := newGateway(t, state,
		func(call int) string {
			if call == 1 {
				return "stale"
			}
			return "fresh"
		},
		func(header string) int {
			if header == "Bearer stale" {
				return http.StatusUnauthorized
			}
			return http.StatusOK
		},
	)
	defer srv.Close()

	svc := NewSMSService(srv.URL, "api@example.com", "hunter2", "4546", true)

	if err := svc.SendOtp(context.Background(), "998901234567", 123456); err != nil {
		t.Fatalf("SendOtp returned error: %v", err)
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	if state.authCalls != 2 {
		t.Errorf("auth called %d times, want 2 (initial login plus refresh)", state.authCalls)
	}
	if state.sendCalls != 2 {
		t.Errorf("send called %d times, want 2 (rejected then retried)", state.sendCalls)
	}
	if state.lastToken != "Bearer fresh" {
		t.Errorf("final authorization header = %q, want %q", state.lastToken, "Bearer fresh")
	}
}

func TestSendOtpGatewayFailure(t *testing.T) {
	state := &gatewayState{}
	srv := newGateway(t, state,
		func(int) string { return "token-1" },
		func(string) int { return http.StatusInternalServerError },
	)
	defer srv.Close()

	svc := NewSMSService(srv.URL, "api@example.com", "hunter2", "4546", true)

	if err := svc.SendOtp(context.Background(), "998901234567", 123456); err == nil {
		t.Fatal("expected an error when the gateway rejects the send")
	}
}

func TestSendOtpAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	svc := NewSMSService(srv.URL, "api@example.com", "wrong", "4546", true)

	if err := svc.SendOtp(context.Background(), "998901234567", 123456); err == nil {
		t.Fatal("expected an error when gateway login fails")
	}
}
