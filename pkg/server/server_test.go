package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/graft/internal/errors"
	"github.com/vango-dev/graft/pkg/host/memdom"
	"github.com/vango-dev/graft/pkg/protocol"
)

const greeting = `
vars:
  name: %s
root:
  tag: p
  props: {className: greeting}
  children: ["Hello ${name}"]
`

func doc(name string) string {
	return strings.Replace(greeting, "%s", name, 1)
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(nil)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRenderEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/render", "application/yaml", strings.NewReader(doc("Ada")))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `<p class="greeting">Hello Ada</p>`, string(body))

	resp, err = http.Post(ts.URL+"/render", "application/yaml", strings.NewReader("vars: {}"))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "E230")
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/render", "application/yaml", strings.NewReader(doc("Ada")))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `graft_mounts_total{kind="Native"}`)
	assert.Contains(t, string(body), `graft_http_requests_total{route="/render",status="2xx"} 1`)
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, mt int, data string) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.WriteMessage(mt, []byte(data)))
	got, reply, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, got)
	return reply
}

func TestLiveSession(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)

	first, err := protocol.DecodeMutations(send(t, conn, websocket.TextMessage, doc("Ada")))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Seq)
	require.NotEmpty(t, first.Mutations)
	last := first.Mutations[len(first.Mutations)-1]
	assert.Equal(t, memdom.OpInsert, last.Op)
	assert.Equal(t, uint64(1), last.Parent, "the tree is appended to the container")
	assert.Equal(t, 1, s.Sessions())

	second, err := protocol.DecodeMutations(send(t, conn, websocket.TextMessage, doc("Grace")))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Seq)
	require.Len(t, second.Mutations, 1)
	assert.Equal(t, memdom.OpSetText, second.Mutations[0].Op)
	assert.Equal(t, "Hello Grace", second.Mutations[0].Value)

	bad, err := protocol.DecodeError(send(t, conn, websocket.TextMessage, "root: {component: Nope}"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), bad.Seq)
	assert.Equal(t, "E230", bad.Code)

	binary, err := protocol.DecodeError(send(t, conn, websocket.BinaryMessage, doc("x")))
	require.NoError(t, err)
	assert.Equal(t, "E230", binary.Code)

	third, err := protocol.DecodeMutations(send(t, conn, websocket.TextMessage, doc("Ada")))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), third.Seq)
	require.Len(t, third.Mutations, 1)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.Eventually(t, func() bool { return s.Sessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestLiveSessionIslands(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	frame, err := protocol.DecodeMutations(send(t, conn, websocket.TextMessage, `
root:
  island: badge
  props: {text: hi}
`))
	require.NoError(t, err)

	var attrs []string
	for _, m := range frame.Mutations {
		if m.Op == memdom.OpSetAttr {
			attrs = append(attrs, m.Name+"="+m.Value)
		}
	}
	assert.Contains(t, attrs, "data-island=badge")
}

func TestSessionApplyAfterFailure(t *testing.T) {
	s := New(nil)
	ss, err := newSession(s)
	require.NoError(t, err)
	ss.broken = true

	reply, err := ss.Apply(context.Background(), []byte(doc("Ada")))
	assert.ErrorIs(t, err, ErrSessionBroken)
	assert.Equal(t, protocol.FrameError, reply.Type)
	require.NoError(t, ss.Close(context.Background()))
}

func TestSessionContainerError(t *testing.T) {
	s := New(nil)
	ss, err := openSession(s, "")
	assert.Nil(t, ss)
	assert.True(t, errors.HasCode(err, "E210"), "got %v", err)

	ss, err = newSession(s)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), ss.container.ID())
	require.NoError(t, ss.Close(context.Background()))
}

func TestShutdownClosesSessions(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dial(t, ts)
	send(t, conn, websocket.TextMessage, doc("Ada"))

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestSameOriginCheck(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://example.com/live", nil)
	assert.True(t, SameOriginCheck(r))

	r.Header.Set("Origin", "http://example.com")
	assert.True(t, SameOriginCheck(r))

	r.Header.Set("Origin", "http://evil.com")
	assert.False(t, SameOriginCheck(r))
}
