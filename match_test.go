package main

import "testing"

func TestMatchPhaseFlow(t *testing.T) {
	ms := NewMatchState(DefaultConfig(ModeBattle))
	if ms.Phase != PhaseLobby {
		t.Fatalf("new match should start in lobby, got %v", ms.Phase)
	}

	ms.Begin()
	if ms.Phase != PhaseCountdown {
		t.Fatalf("Begin should enter countdown, got %v", ms.Phase)
	}

	ms.Update(CountdownDuration + 0.01)
	if ms.Phase != PhasePlaying {
		t.Fatalf("countdown expiry should enter playing, got %v", ms.Phase)
	}

	ms.Update(12.5)
	if ms.Elapsed < 12.5 {
		t.Errorf("elapsed should accumulate, got %f", ms.Elapsed)
	}

	ms.Finish(true)
	if ms.Phase != PhaseResult || !ms.Won {
		t.Fatalf("Finish(true) should enter result with a win, got %v", ms.Phase)
	}

	if !ms.Update(ResultDuration + 0.01) {
		t.Error("result expiry should signal a reset")
	}
}

func TestMatchFinishOnlyWhilePlaying(t *testing.T) {
	ms := NewMatchState(DefaultConfig(ModeBattle))
	ms.Finish(true)
	if ms.Phase != PhaseLobby {
		t.Error("Finish in lobby should be ignored")
	}

	ms.Begin()
	ms.Begin() // second Begin is a no-op
	if ms.CountdownT != CountdownDuration {
		t.Error("repeated Begin should not restart the countdown")
	}
}

func TestDefaultConfigs(t *testing.T) {
	battle := DefaultConfig(ModeBattle)
	if battle.BallCount != PlayerBaseBallCount || !battle.Slits {
		t.Error("battle config should have limited balls and slits")
	}

	practice := DefaultConfig(ModePractice)
	if practice.BallCount != 0 || practice.Slits {
		t.Error("practice config should have unlimited balls and no slits")
	}
}
