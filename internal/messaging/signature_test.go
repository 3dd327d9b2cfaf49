package messaging

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

const testAuthToken = "test-auth-token"

func TestVerifyProviderSignatureValid(t *testing.T) {
	webhookURL := "https://connect.example.org/webhooks/voice"
	form := url.Values{}
	form.Set("CallSid", "CA123")
	form.Set("Digits", "2")

	r := httptest.NewRequest("POST", webhookURL, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-Twilio-Signature", computeSignature(buildSignaturePayload(webhookURL, form), testAuthToken))

	if !VerifyProviderSignature(r, testAuthToken, webhookURL) {
		t.Error("valid signature rejected")
	}
}

func TestVerifyProviderSignatureMissingHeader(t *testing.T) {
	r := httptest.NewRequest("POST", "https://connect.example.org/webhooks/voice", nil)
	if VerifyProviderSignature(r, testAuthToken, "https://connect.example.org/webhooks/voice") {
		t.Error("request without signature accepted")
	}
}

func TestVerifyProviderSignatureTampered(t *testing.T) {
	webhookURL := "https://connect.example.org/webhooks/voice"
	form := url.Values{}
	form.Set("CallSid", "CA123")
	form.Set("Digits", "2")
	sig := computeSignature(buildSignaturePayload(webhookURL, form), testAuthToken)

	// Change a parameter after signing.
	form.Set("Digits", "9")
	r := httptest.NewRequest("POST", webhookURL, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-Twilio-Signature", sig)

	if VerifyProviderSignature(r, testAuthToken, webhookURL) {
		t.Error("tampered request accepted")
	}
}

func TestBuildSignaturePayloadSortsParams(t *testing.T) {
	form := url.Values{}
	form.Set("Zebra", "z")
	form.Set("Alpha", "a")
	got := buildSignaturePayload("https://example.org/hook", form)
	want := "https://example.org/hookAlphaaZebraz"
	if got != want {
		t.Errorf("payload = %q, want %q", got, want)
	}
}
