package ipc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chronicle-builder/internal/bridge"
	"chronicle-builder/internal/commands"
	"chronicle-builder/internal/config"
	"chronicle-builder/internal/debug"
)

func newTestServer(t *testing.T, addr string) *Server {
	t.Helper()
	s, _ := newServerWithBridge(t, addr)
	return s
}

func newServerWithBridge(t *testing.T, addr string) (*Server, *bridge.Bridge) {
	t.Helper()
	dc := debug.NewCoordinator(debug.DefaultConfig(), nil)
	t.Cleanup(dc.Shutdown)

	b := bridge.New(dc)
	require.NoError(t, commands.Register(b, commands.NewStory(nil), "test"))

	cfg := config.IPC{Enabled: true, Addr: addr, AllowedOrigins: []string{config.DevFrontendOrigin}}
	return NewServer(cfg, b, nil, "test"), b
}

func post(t *testing.T, s *Server, path, body, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp := httptest.NewRecorder()
	s.Handler().ServeHTTP(resp, req)
	return resp
}

func TestInvokeGreetJSON(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")

	resp := post(t, s, "/invoke/greet", `{"name":"Ada"}`, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	var data InvokeData
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &data))
	assert.Equal(t, "greet", data.Command)
	assert.Equal(t, "Hello, Ada! You've got this!", data.Result)
	assert.NotEmpty(t, data.ID)
}

func TestInvokeSaveCBOR(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")

	resp := post(t, s, "/invoke/save_story_data", `{"data":""}`, "application/cbor")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/cbor", resp.Header().Get("Content-Type"))

	var data InvokeData
	require.NoError(t, cbor.Unmarshal(resp.Body.Bytes(), &data))
	assert.Equal(t, "Data saved successfully", data.Result)
}

func TestInvokeLoad(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")

	resp := post(t, s, "/invoke/load_story_data", `{}`, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var data InvokeData
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &data))
	assert.Equal(t, "Data loaded successfully", data.Result)
}

func TestInvokeErrors(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")

	cases := []struct {
		path   string
		body   string
		status int
	}{
		{"/invoke/delete_everything", `{}`, http.StatusNotFound},
		{"/invoke/greet", `{}`, http.StatusUnprocessableEntity},
		{"/invoke/greet", `["Ada"]`, http.StatusUnprocessableEntity},
		{"/invoke/greet", `{"name":42}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s %s", tc.path, tc.body), func(t *testing.T) {
			resp := post(t, s, tc.path, tc.body, "")
			require.Equal(t, tc.status, resp.Code)
			assert.Equal(t, "application/problem+json", resp.Header().Get("Content-Type"))

			var problem huma.ErrorModel
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &problem))
			assert.Equal(t, tc.status, problem.Status)
		})
	}
}

func TestListCommands(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")

	req := httptest.NewRequest(http.MethodGet, "/commands", nil)
	resp := httptest.NewRecorder()
	s.Handler().ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var out struct {
		Commands []string `json:"commands"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, []string{"get_app_version", "greet", "load_story_data", "save_story_data"}, out.Commands)
}

func preflight(s *Server, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/invoke/greet", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	s.Handler().ServeHTTP(resp, req)
	return resp
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")

	resp := preflight(s, "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsOtherOrigins(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")

	resp := preflight(s, "https://evil.example")
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestEventStreamDeliversEmittedEvents(t *testing.T) {
	s, b := newServerWithBridge(t, "127.0.0.1:0")
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)

	// Headers arrive with the first event, so connect in the background.
	responses := make(chan *http.Response, 1)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			responses <- resp
		}
	}()

	require.Eventually(t, func() bool { return b.Listeners() == 1 }, 2*time.Second, 5*time.Millisecond)
	sent := b.Emit(commands.MenuSaveStory, map[string]string{"source": "menu"})

	var resp *http.Response
	select {
	case resp = <-responses:
	case <-ctx.Done():
		t.Fatal("event stream did not respond")
	}
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	var eventLine, dataLine string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			eventLine = strings.TrimPrefix(line, "event: ")
		}
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	require.NotEmpty(t, dataLine)
	assert.Equal(t, "event", eventLine)

	var data EventData
	require.NoError(t, json.Unmarshal([]byte(dataLine), &data))
	assert.Equal(t, sent.ID.String(), data.ID)
	assert.Equal(t, "menu-save-story", data.Name)
	assert.Equal(t, map[string]interface{}{"source": "menu"}, data.Payload)
}

func TestEventStreamEndsWhenBridgeCloses(t *testing.T) {
	s, b := newServerWithBridge(t, "127.0.0.1:0")

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	resp := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Handler().ServeHTTP(resp, req)
	}()

	require.Eventually(t, func() bool { return b.Listeners() == 1 }, time.Second, 5*time.Millisecond)
	b.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream still open after close")
	}
}

func TestStartAndShutdown(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")
	require.NoError(t, s.Start())

	url := fmt.Sprintf("http://%s/invoke/greet", s.Addr())
	httpResp, err := http.Post(url, "application/json", bytes.NewReader([]byte(`{"name":"Ada"}`)))
	require.NoError(t, err)
	body, err := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, httpResp.StatusCode)
	assert.Contains(t, string(body), "You've got this!")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
}

func TestShutdownBeforeStart(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")
	assert.NoError(t, s.Shutdown(context.Background()))
}
