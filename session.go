package main

import (
	"log"
	"sync"
	"time"
)

const (
	maxSessions     = 100
	sessionIdleTime = 10 * time.Minute
)

// Session represents a game session that players can join
type Session struct {
	ID         string
	Name       string
	Mode       GameMode
	Game       *Game
	CreatedAt  time.Time
	lastActive time.Time

	mu           sync.Mutex
	authPlayerID int64 // account of the paddle holder, 0 = guest
}

// BindPlayer links the paddle holder's account to the session so the
// finish hook knows whose stats to write
func (s *Session) BindPlayer(authPlayerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authPlayerID = authPlayerID
}

// PlayerID returns the bound account, 0 for guests
func (s *Session) PlayerID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authPlayerID
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	hub      *Hub
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(hub *Hub) *SessionManager {
	sm := &SessionManager{
		sessions: make(map[string]*Session),
		hub:      hub,
	}
	go sm.reapLoop()
	return sm
}

// CreateSession creates a new game session. Returns nil if limit reached.
func (sm *SessionManager) CreateSession(name string, mode GameMode) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateUUID()
	game := NewGame(DefaultConfig(mode))
	sess := &Session{
		ID:         id,
		Name:       name,
		Mode:       mode,
		Game:       game,
		CreatedAt:  time.Now(),
		lastActive: time.Now(),
	}
	game.SetOnFinish(func(stats MatchStats) {
		sm.onMatchFinish(sess, stats)
	})
	sm.sessions[id] = sess
	go game.Run()
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// MarkActive refreshes the idle timer
func (sm *SessionManager) MarkActive(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sess, ok := sm.sessions[id]; ok {
		sess.lastActive = time.Now()
	}
}

// RemoveClient detaches a client from a session, tearing the session
// down once it empties
func (sm *SessionManager) RemoveClient(sessionID, clientID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Game.RemoveClient(clientID)

	// Clean up empty sessions
	if sess.Game.ClientCount() == 0 {
		sess.Game.Stop()
		sm.mu.Lock()
		delete(sm.sessions, sessionID)
		sm.mu.Unlock()
	}
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Mode:    int(sess.Mode),
			Players: sess.Game.ClientCount(),
		})
	}
	return list
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// reapLoop tears down sessions idle past the deadline
func (sm *SessionManager) reapLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-sessionIdleTime)
		sm.mu.Lock()
		for id, sess := range sm.sessions {
			if sess.Game.ClientCount() == 0 && sess.lastActive.Before(cutoff) {
				sess.Game.Stop()
				delete(sm.sessions, id)
			}
		}
		sm.mu.Unlock()
	}
}

// onMatchFinish persists a finished match for the paddle holder
func (sm *SessionManager) onMatchFinish(sess *Session, stats MatchStats) {
	hub := sm.hub
	if hub == nil {
		return
	}
	if hub.analytics != nil {
		hub.analytics.Record("match_end", map[string]interface{}{
			"sid":      sess.ID,
			"mode":     int(sess.Mode),
			"won":      stats.Won,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"duration": stats.Duration,
		})
	}

	playerID := sess.PlayerID()
	if hub.db == nil || playerID == 0 {
		return
	}
	if err := hub.db.RecordMatch(playerID, sess.ID, int(sess.Mode), stats); err != nil {
		log.Printf("record match: %v", err)
		return
	}
	if err := hub.db.UpdateStats(playerID, stats); err != nil {
		log.Printf("update stats: %v", err)
	}

	unlocked, err := CheckAchievements(hub.db, playerID)
	if err != nil {
		log.Printf("achievements: %v", err)
		return
	}
	for _, a := range unlocked {
		if client := hub.GetOnlineClient(playerID); client != nil {
			client.SendJSON(Envelope{T: MsgUnlocked, Data: UnlockedMsg{ID: a.ID, Name: a.Name}})
		}
	}
}
