package main

// MatchPhase represents the lifecycle of a match
type MatchPhase int

const (
	PhaseLobby     MatchPhase = 0
	PhaseCountdown MatchPhase = 1
	PhasePlaying   MatchPhase = 2
	PhaseResult    MatchPhase = 3
)

// GameMode defines the type of match
type GameMode int

const (
	ModeBattle   GameMode = 0 // destroy the enemy base before running out of balls
	ModePractice GameMode = 1 // endless rally, nothing at stake
)

// MatchConfig holds settings for a match
type MatchConfig struct {
	Mode        GameMode
	ArenaW      float64
	ArenaH      float64
	BallCount   int
	EnemyBaseHP float64
	Slits       bool
}

// DefaultConfig returns the default config for the given mode
func DefaultConfig(mode GameMode) MatchConfig {
	switch mode {
	case ModePractice:
		return MatchConfig{
			Mode:   ModePractice,
			ArenaW: ArenaWidth, ArenaH: ArenaHeight,
			BallCount:   0, // misses never run out
			EnemyBaseHP: EnemyBaseFullHP,
			Slits:       false,
		}
	default:
		return MatchConfig{
			Mode:   ModeBattle,
			ArenaW: ArenaWidth, ArenaH: ArenaHeight,
			BallCount:   PlayerBaseBallCount,
			EnemyBaseHP: EnemyBaseFullHP,
			Slits:       true,
		}
	}
}

const (
	CountdownDuration = 3.0
	ResultDuration    = 5.0
)

// MatchState tracks phase transitions and the outcome
type MatchState struct {
	Phase      MatchPhase
	Config     MatchConfig
	CountdownT float64
	ResultT    float64
	Won        bool
	Elapsed    float64 // seconds in PhasePlaying
}

// NewMatchState creates a lobby-phase match for the config
func NewMatchState(config MatchConfig) MatchState {
	return MatchState{Phase: PhaseLobby, Config: config}
}

// Begin moves lobby -> countdown
func (ms *MatchState) Begin() {
	if ms.Phase == PhaseLobby {
		ms.Phase = PhaseCountdown
		ms.CountdownT = CountdownDuration
	}
}

// Finish moves playing -> result with the given outcome
func (ms *MatchState) Finish(won bool) {
	if ms.Phase == PhasePlaying {
		ms.Phase = PhaseResult
		ms.ResultT = ResultDuration
		ms.Won = won
	}
}

// Update ticks phase timers; returns true when the result phase just
// expired and the session should reset to lobby.
func (ms *MatchState) Update(dt float64) bool {
	switch ms.Phase {
	case PhaseCountdown:
		ms.CountdownT -= dt
		if ms.CountdownT <= 0 {
			ms.Phase = PhasePlaying
			ms.Elapsed = 0
		}
	case PhasePlaying:
		ms.Elapsed += dt
	case PhaseResult:
		ms.ResultT -= dt
		if ms.ResultT <= 0 {
			return true
		}
	}
	return false
}
