package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// ---------- helpers ----------

var uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// startTestServer spins up an httptest.Server with a Hub backed by a
// temp database and returns the server, its WebSocket URL, and a
// cleanup func.
func startTestServer(t *testing.T) (*httptest.Server, string, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte("<html>test</html>"), 0o644)

	db, err := OpenDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	hub := NewHub(db)
	go hub.Run()

	mux := SetupRoutes(hub, tmpDir, "http://test.local")
	srv := httptest.NewServer(mux)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	return srv, wsURL, func() {
		srv.Close()
		hub.analytics.Stop()
		db.Close()
	}
}

// dialWS opens a WebSocket connection to the test server.
func dialWS(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial WS: %v", err)
	}
	return conn
}

// readEnvelope reads one message from the WebSocket. Binary messages
// are msgpack-encoded GameState frames.
func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read WS: %v", err)
	}
	if msgType == websocket.BinaryMessage {
		var gs GameState
		if err := msgpack.Unmarshal(raw, &gs); err != nil {
			t.Fatalf("msgpack unmarshal: %v", err)
		}
		return Envelope{T: MsgState, Data: gs}
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return env
}

// readUntil reads messages until one of the given type arrives,
// skipping state broadcasts and other interleaved traffic.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) Envelope {
	t.Helper()
	for i := 0; i < 50; i++ {
		env := readEnvelope(t, conn)
		if env.T == msgType {
			return env
		}
	}
	t.Fatalf("never received %q", msgType)
	return Envelope{}
}

// sendMsg sends a typed message over the WebSocket.
func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	env := Envelope{T: msgType, Data: data}
	raw, _ := json.Marshal(env)
	if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		t.Fatalf("write WS: %v", err)
	}
}

// dataMap extracts the Data field as map[string]interface{}.
func dataMap(t *testing.T, env Envelope) map[string]interface{} {
	t.Helper()
	raw, _ := json.Marshal(env.Data)
	var m map[string]interface{}
	json.Unmarshal(raw, &m)
	return m
}

// createAndJoin creates a session then joins it. Returns the session ID.
func createAndJoin(t *testing.T, conn *websocket.Conn, sname string) string {
	t.Helper()
	sendMsg(t, conn, MsgCreate, CreateMsg{SessionName: sname})
	created := readUntil(t, conn, MsgCreated)
	sid := dataMap(t, created)["sid"].(string)

	sendMsg(t, conn, MsgJoin, JoinMsg{SessionID: sid})
	_ = readUntil(t, conn, MsgJoined)
	_ = readUntil(t, conn, MsgWelcome)
	return sid
}

// ---------- UUID generation ----------

func TestGenerateUUIDFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		id := GenerateUUID()
		if !uuidRegex.MatchString(id) {
			t.Errorf("GenerateUUID() = %q, does not match UUID v4 format", id)
		}
	}
}

func TestGenerateUUIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateUUID()
		if seen[id] {
			t.Fatalf("duplicate UUID generated: %s", id)
		}
		seen[id] = true
	}
}

// ---------- SPA routing ----------

func TestSPARoutingRoot(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("GET / status = %d, want 200", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected Cache-Control: no-cache, got %q", cc)
	}
}

func TestSPARoutingUUIDPath(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/" + GenerateUUID())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("UUID path status = %d, want 200", resp.StatusCode)
	}
	buf := make([]byte, 100)
	n, _ := resp.Body.Read(buf)
	if !strings.Contains(string(buf[:n]), "<html>") {
		t.Error("UUID path should serve index.html")
	}
}

// ---------- Session lifecycle over WS ----------

func TestCreateJoinCheck(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c1 := dialWS(t, wsURL)
	defer c1.Close()
	sid := createAndJoin(t, c1, "Arena One")

	if !uuidRegex.MatchString(sid) {
		t.Errorf("session id %q is not a UUID v4", sid)
	}

	c2 := dialWS(t, wsURL)
	defer c2.Close()
	sendMsg(t, c2, MsgCheck, CheckMsg{SID: sid})
	checked := readUntil(t, c2, MsgChecked)
	d := dataMap(t, checked)
	if d["exists"] != true {
		t.Error("expected exists=true")
	}
	if d["name"] != "Arena One" {
		t.Errorf("expected name 'Arena One', got %v", d["name"])
	}
}

func TestCheckNonExistentSession(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	fakeSID := GenerateUUID()
	sendMsg(t, c, MsgCheck, CheckMsg{SID: fakeSID})
	checked := readUntil(t, c, MsgChecked)
	if dataMap(t, checked)["exists"] != false {
		t.Error("expected exists=false for unknown session")
	}
}

func TestJoinNonExistentSession(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	sendMsg(t, c, MsgJoin, JoinMsg{SessionID: GenerateUUID()})
	errMsg := readUntil(t, c, MsgError)
	if errMsg.T != MsgError {
		t.Fatalf("expected error, got %s", errMsg.T)
	}
}

func TestSecondJoinerSpectates(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c1 := dialWS(t, wsURL)
	defer c1.Close()
	sid := createAndJoin(t, c1, "Spectate")

	c2 := dialWS(t, wsURL)
	defer c2.Close()
	sendMsg(t, c2, MsgJoin, JoinMsg{SessionID: sid})
	joined := readUntil(t, c2, MsgJoined)
	if dataMap(t, joined)["spec"] != true {
		t.Error("second joiner should spectate")
	}
}

func TestListSessions(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	sendMsg(t, c, MsgList, nil)
	listMsg := readUntil(t, c, MsgSessions)
	raw, _ := json.Marshal(listMsg.Data)
	var sessions []SessionInfo
	json.Unmarshal(raw, &sessions)
	if len(sessions) != 0 {
		t.Errorf("expected 0 sessions, got %d", len(sessions))
	}

	c2 := dialWS(t, wsURL)
	defer c2.Close()
	createAndJoin(t, c2, "Listed")

	sendMsg(t, c, MsgList, nil)
	listMsg = readUntil(t, c, MsgSessions)
	raw, _ = json.Marshal(listMsg.Data)
	sessions = nil
	json.Unmarshal(raw, &sessions)
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Name != "Listed" || sessions[0].Players != 1 {
		t.Errorf("unexpected session info %+v", sessions[0])
	}
}

func TestLeaveCleansUpSession(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	sid := createAndJoin(t, c, "Temp")

	sendMsg(t, c, MsgLeave, nil)
	time.Sleep(100 * time.Millisecond)

	c2 := dialWS(t, wsURL)
	defer c2.Close()
	sendMsg(t, c2, MsgCheck, CheckMsg{SID: sid})
	checked := readUntil(t, c2, MsgChecked)
	if dataMap(t, checked)["exists"] != false {
		t.Error("session should be cleaned up after last client leaves")
	}
}

// ---------- Game state broadcasts ----------

func TestGameStateBroadcasts(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	createAndJoin(t, c, "StateTest")

	state := readUntil(t, c, MsgState)
	gs, ok := state.Data.(GameState)
	if !ok {
		t.Fatal("state data should be a decoded GameState")
	}
	if gs.BaseMaxHP != EnemyBaseFullHP {
		t.Errorf("expected base max HP %f, got %f", EnemyBaseFullHP, gs.BaseMaxHP)
	}
}

func TestInputHandlingOverWS(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	createAndJoin(t, c, "InputTest")

	sendMsg(t, c, MsgInput, ClientInput{TX: 100, TY: -200, Assist: true})

	// Game keeps running after input
	env := readUntil(t, c, MsgState)
	if env.T != MsgState {
		t.Fatalf("expected state after input, got %s", env.T)
	}
}

func TestInputBeforeJoin(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	sendMsg(t, c, MsgInput, ClientInput{TX: 100})

	sendMsg(t, c, MsgList, nil)
	env := readUntil(t, c, MsgSessions)
	if env.T != MsgSessions {
		t.Fatalf("expected sessions, got %s", env.T)
	}
}

// ---------- Auth over WS ----------

func TestAuthGuestFlow(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	sendMsg(t, c, MsgAuth, AuthMsg{Action: "guest"})
	ok := readUntil(t, c, MsgAuthOK)
	d := dataMap(t, ok)
	if !strings.HasPrefix(d["user"].(string), "Guest_") {
		t.Errorf("expected a guest name, got %v", d["user"])
	}
	token := d["token"].(string)
	if token == "" {
		t.Fatal("guest should receive a token")
	}

	// The token round-trips
	c2 := dialWS(t, wsURL)
	defer c2.Close()
	sendMsg(t, c2, MsgAuth, AuthMsg{Action: "token", Token: token})
	ok2 := readUntil(t, c2, MsgAuthOK)
	if dataMap(t, ok2)["user"] != d["user"] {
		t.Error("token should resolve to the same account")
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	_, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()

	sendMsg(t, c, MsgAuth, AuthMsg{Action: "register", Username: "paddler", Password: "secret"})
	ok := readUntil(t, c, MsgAuthOK)
	if dataMap(t, ok)["user"] != "paddler" {
		t.Errorf("unexpected register response %v", ok.Data)
	}

	// Wrong password rejected
	sendMsg(t, c, MsgAuth, AuthMsg{Action: "login", Username: "paddler", Password: "wrong"})
	if env := readUntil(t, c, MsgError); env.T != MsgError {
		t.Error("wrong password should error")
	}

	sendMsg(t, c, MsgAuth, AuthMsg{Action: "login", Username: "paddler", Password: "secret"})
	ok2 := readUntil(t, c, MsgAuthOK)
	if dataMap(t, ok2)["user"] != "paddler" {
		t.Error("login should succeed with the right password")
	}
}

// ---------- HTTP API ----------

func TestQREndpoint(t *testing.T) {
	srv, wsURL, cleanup := startTestServer(t)
	defer cleanup()

	c := dialWS(t, wsURL)
	defer c.Close()
	sid := createAndJoin(t, c, "QRTest")

	resp, err := http.Get(srv.URL + "/qr/" + sid)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("GET /qr/%s status = %d, want 200", sid, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}

	// Unknown session: 404
	resp2, err := http.Get(srv.URL + "/qr/" + GenerateUUID())
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != 404 {
		t.Errorf("unknown session QR status = %d, want 404", resp2.StatusCode)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/api/leaderboard")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("leaderboard status = %d, want 200", resp.StatusCode)
	}
	var entries []LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	srv, _, cleanup := startTestServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
}

// ---------- Util functions ----------

func TestGenerateIDLength(t *testing.T) {
	if id := GenerateID(4); len(id) != 8 {
		t.Errorf("expected 8 chars, got %d: %s", len(id), id)
	}
	if id := GenerateID(8); len(id) != 16 {
		t.Errorf("expected 16 chars, got %d: %s", len(id), id)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}
	for _, tt := range tests {
		got := Clamp(tt.v, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("Clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Vec{}, Vec{X: 3, Y: 4}); d != 5 {
		t.Errorf("Distance((0,0),(3,4)) = %f, want 5", d)
	}
}
