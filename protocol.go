package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin   = "join"
	MsgLeave  = "leave"
	MsgInput  = "input"
	MsgCreate = "create" // create session
	MsgList   = "list"   // list sessions
	MsgCheck  = "check"  // check if session exists
	MsgReady  = "ready"  // start the match from lobby
	MsgAuth   = "auth"   // login/register/guest
)

// Server -> Client message types
const (
	MsgState    = "state" // binary msgpack snapshot, not an envelope
	MsgWelcome  = "welcome"
	MsgJoined   = "joined"
	MsgCreated  = "created"
	MsgSessions = "sessions"
	MsgChecked  = "checked"
	MsgError    = "error"
	MsgBounce   = "bounce"
	MsgHit      = "hit"
	MsgMiss     = "miss"
	MsgHeal     = "heal"
	MsgGameOver = "game_over"
	MsgAuthOK   = "auth_ok"
	MsgUnlocked = "unlocked"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the paddle control sent by the client at 20Hz.
// TX/TY is the pointer target in arena coordinates.
type ClientInput struct {
	TX     float64 `json:"tx"`
	TY     float64 `json:"ty"`
	Assist bool    `json:"as"` // let the server steer toward intercepts
}

// JoinMsg is sent when a player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg is sent when a player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
	Mode        int    `json:"mode"` // 0 battle, 1 practice
}

// AuthMsg carries login, registration or guest requests
type AuthMsg struct {
	Action   string `json:"action"` // "login", "register", "guest", "token"
	Username string `json:"user,omitempty"`
	Password string `json:"pass,omitempty"`
	Token    string `json:"token,omitempty"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	PlayerID int64  `json:"pid"`
	Username string `json:"user"`
	Token    string `json:"token"`
}

// PaddleState is one paddle in the snapshot. Broadcast coordinates are
// rounded to keep frames small; the authoritative state stays float64.
type PaddleState struct {
	X  float64 `json:"x" msgpack:"x"`
	Y  float64 `json:"y" msgpack:"y"`
	VX float64 `json:"vx" msgpack:"vx"`
	VY float64 `json:"vy" msgpack:"vy"`
}

// BallState is the ball in the snapshot
type BallState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	VX     float64 `json:"vx" msgpack:"vx"`
	VY     float64 `json:"vy" msgpack:"vy"`
	Live   bool    `json:"l" msgpack:"l"`
	ServeT float64 `json:"st" msgpack:"st"` // countdown until serve while parked
}

// PointState is one trajectory sample shared for client-side hints
type PointState struct {
	T float64 `json:"t" msgpack:"t"`
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// GameState is the full snapshot broadcast as a binary msgpack frame
type GameState struct {
	Tick      uint64       `json:"tick" msgpack:"tick"`
	Phase     int          `json:"ph" msgpack:"ph"`
	Player    PaddleState  `json:"p" msgpack:"p"`
	Enemy     PaddleState  `json:"e" msgpack:"e"`
	Ball      BallState    `json:"b" msgpack:"b"`
	BaseHP    float64      `json:"hp" msgpack:"hp"`
	BaseMaxHP float64      `json:"mhp" msgpack:"mhp"`
	Balls     int          `json:"bc" msgpack:"bc"`
	Hits      int          `json:"h" msgpack:"h"`
	Misses    int          `json:"m" msgpack:"m"`
	SlitGap   int          `json:"sg" msgpack:"sg"`
	SlitX     []float64    `json:"sx,omitempty" msgpack:"sx,omitempty"`
	Hint      []PointState `json:"tr,omitempty" msgpack:"tr,omitempty"`
	Countdown float64      `json:"cd,omitempty" msgpack:"cd,omitempty"`
}

// WelcomeMsg is sent to a player when they connect
type WelcomeMsg struct {
	ID string `json:"id"`
}

// JoinedMsg confirms joining a session
type JoinedMsg struct {
	SessionID string `json:"sid"`
	Spectator bool   `json:"spec"`
}

// CreatedMsg confirms session creation
type CreatedMsg struct {
	SessionID string `json:"sid"`
}

// BounceMsg flags a ball contact, debounced per pair at the source
type BounceMsg struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Speed     float64 `json:"v"`  // relative speed before resolution
	Intensity float64 `json:"in"` // Speed normalized into [0,1] for effect scaling
}

// HitMsg reports ball damage to the enemy base
type HitMsg struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Damage float64 `json:"dmg"`
	HP     float64 `json:"hp"`
}

// MissMsg reports the ball reaching the player base
type MissMsg struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	BallsLeft int     `json:"left"`
}

// HealMsg reports enemy base regeneration
type HealMsg struct {
	Amount float64 `json:"amt"`
	HP     float64 `json:"hp"`
}

// GameOverMsg ends the match
type GameOverMsg struct {
	Won      bool    `json:"won"`
	Hits     int     `json:"hits"`
	Misses   int     `json:"misses"`
	Duration float64 `json:"dur"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Mode    int    `json:"mode"`
	Players int    `json:"players"`
}

// CheckMsg is sent by a client to check whether a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID    string `json:"sid"`
	Exists bool   `json:"exists"`
	Name   string `json:"name,omitempty"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// UnlockedMsg announces a newly earned achievement
type UnlockedMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
