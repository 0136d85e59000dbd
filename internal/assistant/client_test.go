// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant provides the HTTP client for the remote assistant service.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(baseURL string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           baseURL,
		Timeout:           2 * time.Second,
		RequestsPerMinute: 600,
	})
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.SessionID != "s1" || req.Message != "hello" {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(ChatResponse{Reply: "hi there"})
	}))
	defer srv.Close()

	reply, err := testClient(srv.URL).Send(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "hi there" {
		t.Errorf("reply = %q", reply)
	}
}

func TestSend_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Send(context.Background(), "s1", "hello")
	var cerr *ClientError
	if !errors.As(err, &cerr) || cerr.Type != ErrTypeInvalidResponse {
		t.Errorf("err = %v, want invalid-response ClientError", err)
	}
}

func TestSend_Unreachable(t *testing.T) {
	// Nothing listens on this port.
	_, err := testClient("http://127.0.0.1:1").Send(context.Background(), "s1", "hello")
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("err = %v, want ErrUnreachable", err)
	}
}

func TestSend_MalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Send(context.Background(), "s1", "hello")
	var cerr *ClientError
	if !errors.As(err, &cerr) || cerr.Type != ErrTypeInvalidResponse {
		t.Errorf("err = %v, want invalid-response ClientError", err)
	}
}

// =============================================================================
// HEALTH CHECK TESTS
// =============================================================================

func TestCheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("path = %q, want /api/health", r.URL.Path)
		}
	}))
	defer srv.Close()

	if err := testClient(srv.URL).CheckRunning(context.Background()); err != nil {
		t.Errorf("CheckRunning failed: %v", err)
	}
}

func TestCheckRunning_Down(t *testing.T) {
	if err := testClient("http://127.0.0.1:1").CheckRunning(context.Background()); err == nil {
		t.Error("expected error for unreachable service")
	}
}

// =============================================================================
// ERROR MESSAGE TESTS
// =============================================================================

func TestUserMessage(t *testing.T) {
	if got := UserMessage(ErrUnreachable); got != "Assistant service is not reachable. Is it running?" {
		t.Errorf("unreachable message = %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != "Something went wrong: boom" {
		t.Errorf("generic message = %q", got)
	}
}
