package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipeshare/internal/enhance"
)

func TestComplete_Success(t *testing.T) {
	var received Request

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		resp := Response{Choices: []Choice{{Message: ResponseMessage{Role: "assistant", Content: `{"ingredients":["a"],"instructions":["b"]}`}}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(Config{APIURL: server.URL, APIKey: "test-key", Model: "deepseek/deepseek-r1:free"})

	reply, err := client.Complete(context.Background(), "recipe feedback here")
	require.NoError(t, err)
	assert.Equal(t, `{"ingredients":["a"],"instructions":["b"]}`, reply)

	// Fixed request parameters: model, low-moderate temperature, chef
	// persona as the system message, feedback as the user message.
	assert.Equal(t, "deepseek/deepseek-r1:free", received.Model)
	assert.Equal(t, 0.5, received.Temperature)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, "system", received.Messages[0].Role)
	assert.Contains(t, received.Messages[0].Content, "professional chef")
	assert.Equal(t, "user", received.Messages[1].Role)
	assert.Equal(t, "recipe feedback here", received.Messages[1].Content)
}

func TestComplete_UpstreamStatusPassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{APIURL: server.URL, APIKey: "test-key", Model: "m"})

	_, err := client.Complete(context.Background(), "feedback")

	var upstreamErr *enhance.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Body, "rate limited")
}

func TestComplete_EmptyCompletion(t *testing.T) {
	cases := []struct {
		name string
		resp Response
	}{
		{"no choices", Response{}},
		{"empty content", Response{Choices: []Choice{{Message: ResponseMessage{Role: "assistant"}}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(tc.resp)
			}))
			defer server.Close()

			client := NewClient(Config{APIURL: server.URL, APIKey: "test-key", Model: "m"})

			_, err := client.Complete(context.Background(), "feedback")
			assert.ErrorIs(t, err, enhance.ErrEmptyCompletion)
		})
	}
}

func TestComplete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(Response{})
	}))
	defer server.Close()

	client := NewClient(Config{APIURL: server.URL, APIKey: "test-key", Model: "m", Timeout: 20 * time.Millisecond})

	_, err := client.Complete(context.Background(), "feedback")

	var upstreamErr *enhance.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	// A timeout never reached the service, so there is no status to pass on.
	assert.Equal(t, 0, upstreamErr.StatusCode)
	assert.Error(t, upstreamErr.Err)
}

func TestComplete_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(Config{APIURL: server.URL, APIKey: "test-key", Model: "m"})

	_, err := client.Complete(context.Background(), "feedback")

	var upstreamErr *enhance.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, 0, upstreamErr.StatusCode)
}
