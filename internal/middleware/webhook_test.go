package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const (
	testSecret = "super-secret"
	sigHeader  = "Sentry-Hook-Signature"
)

func sign(body, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func runWebhook(t *testing.T, secret, body, signature string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	var nextCalled bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		// The body must still be readable downstream.
		got, _ := io.ReadAll(r.Body)
		if string(got) != body {
			t.Errorf("downstream body = %q, want %q", got, body)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/sentry", strings.NewReader(body))
	if signature != "" {
		req.Header.Set(sigHeader, signature)
	}
	rec := httptest.NewRecorder()

	WebhookHMAC(secret, sigHeader)(next).ServeHTTP(rec, req)
	return rec, nextCalled
}

func TestValidSignature(t *testing.T) {
	body := `{"action":"created"}`
	rec, called := runWebhook(t, testSecret, body, sign(body, testSecret))

	if !called {
		t.Fatal("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSha256PrefixAccepted(t *testing.T) {
	body := `{"action":"created"}`
	_, called := runWebhook(t, testSecret, body, "sha256="+sign(body, testSecret))

	if !called {
		t.Error("prefixed signature rejected")
	}
}

func TestMissingSignature(t *testing.T) {
	rec, called := runWebhook(t, testSecret, "{}", "")

	if called {
		t.Error("next handler called without signature")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestInvalidSignature(t *testing.T) {
	body := `{"action":"created"}`
	rec, called := runWebhook(t, testSecret, body, sign(body, "wrong-secret"))

	if called {
		t.Error("next handler called with bad signature")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestNonHexSignature(t *testing.T) {
	rec, called := runWebhook(t, testSecret, "{}", "zzzz not hex")

	if called {
		t.Error("next handler called with garbage signature")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestUnconfiguredSecret(t *testing.T) {
	rec, called := runWebhook(t, "", "{}", sign("{}", "anything"))

	if called {
		t.Error("next handler called without configured secret")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestTamperedBody(t *testing.T) {
	rec, called := runWebhook(t, testSecret, `{"action":"deleted"}`, sign(`{"action":"created"}`, testSecret))

	if called {
		t.Error("next handler called with tampered body")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
