package debug

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/noctua-games/duskfall/internal/config"
	"github.com/noctua-games/duskfall/internal/sim"
	"github.com/noctua-games/duskfall/internal/worldstate"
)

func newTestServer(t *testing.T) (*Server, *Hub, *sim.Loop, *worldstate.Broadcaster) {
	t.Helper()
	hub := NewHub()
	loop := sim.NewLoop(30)
	world := worldstate.NewBroadcaster()
	tun, err := config.LoadTunables(filepath.Join(t.TempDir(), "tunables.json"))
	if err != nil {
		t.Fatal(err)
	}
	return NewServer("127.0.0.1:0", hub, loop, world, tun, nil), hub, loop, world
}

func wsURL(t *testing.T, httpURL string) string {
	t.Helper()
	u, err := url.Parse(httpURL)
	if err != nil {
		t.Fatal(err)
	}
	u.Scheme = "ws"
	u.Path = "/ws"
	return u.String()
}

func TestHubPublishReachesClient(t *testing.T) {
	srv, hub, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(t, ts.URL), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		if resp != nil {
			resp.Body.Close()
		}
	})

	// The subscription is registered during the upgrade handshake, so the
	// first publish after a successful dial must reach the client.
	for i := 0; hub.ClientCount() == 0 && i < 100; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	hub.Publish(sim.Snapshot{Frame: 42, Abnormal: true})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var snap sim.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.Frame != 42 || !snap.Abnormal {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(sim.Snapshot{Frame: uint64(i)})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked with no clients")
	}
}

func TestAbnormalToggleLandsAtFrameBoundary(t *testing.T) {
	srv, _, loop, world := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	body := bytes.NewBufferString(`{"value": true}`)
	resp, err := http.Post(ts.URL+"/abnormal", "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}

	if world.Abnormal() {
		t.Fatal("toggle must wait for the frame boundary")
	}
	loop.Step()
	if !world.Abnormal() {
		t.Fatal("toggle not applied after step")
	}
}

func TestTunablesEndpointRoundTrip(t *testing.T) {
	srv, _, loop, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/tunables",
		strings.NewReader(`{"monster.desired_speed": 6.5}`))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", resp.StatusCode)
	}
	loop.Step()

	getResp, err := http.Get(ts.URL + "/tunables")
	if err != nil {
		t.Fatal(err)
	}
	defer getResp.Body.Close()
	var values map[string]any
	if err := json.NewDecoder(getResp.Body).Decode(&values); err != nil {
		t.Fatal(err)
	}
	if values["monster.desired_speed"] != 6.5 {
		t.Fatalf("tunable = %v, want 6.5", values["monster.desired_speed"])
	}
}

func TestMethodGuards(t *testing.T) {
	srv, _, _, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/restart")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET /restart status = %d, want 405", resp.StatusCode)
	}
}
