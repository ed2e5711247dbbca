package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toolServer returns an httptest server that answers every chat completion
// with a yes_or_no tool call carrying the given arguments.
func toolServer(t *testing.T, arguments string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "yes_or_no", req.ToolChoice.Function.Name)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "system", req.Messages[1].Role)

		fmt.Fprintf(w, `{"choices":[{"message":{"tool_calls":[{"function":{"name":"yes_or_no","arguments":%q}}]}}]}`, arguments)
	}))
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient(endpoint, "test-key", "test-model")
	require.NoError(t, err)
	return c
}

func TestYesOrNoYes(t *testing.T) {
	srv := toolServer(t, `{"response":"yes"}`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.YesOrNo(context.Background(), "input", "question", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "yes", got.Response)
	assert.Empty(t, got.WhyNot)
	assert.False(t, got.No())
}

func TestYesOrNoNoWithReason(t *testing.T) {
	srv := toolServer(t, `{"response":"no","whyNot":"wrong tense"}`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.YesOrNo(context.Background(), "input", "question", "user-1")
	require.NoError(t, err)
	assert.True(t, got.No())
	assert.Equal(t, "wrong tense", got.WhyNot)
}

func TestYesOrNoProtocolViolations(t *testing.T) {
	cases := []struct {
		name string
		args string
	}{
		{"no without whyNot", `{"response":"no"}`},
		{"yes with whyNot", `{"response":"yes","whyNot":"but actually"}`},
		{"neither yes nor no", `{"response":"maybe"}`},
		{"malformed arguments", `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := toolServer(t, tc.args)
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			_, err := c.YesOrNo(context.Background(), "input", "question", "user-1")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrOracleProtocol)
		})
	}
}

func TestYesOrNoMissingToolCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"YES"}}]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.YesOrNo(context.Background(), "input", "question", "user-1")
	assert.ErrorIs(t, err, ErrOracleProtocol)
}

func TestYesOrNoHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.YesOrNo(context.Background(), "input", "question", "user-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrOracleProtocol)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", "", "")
	assert.Error(t, err)
}
