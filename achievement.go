package main

// Achievement definitions
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_hit", "First Hit", "Land your first hit on the enemy base"},
	{"battering_ram", "Battering Ram", "Reach 100 lifetime hits"},
	{"siege_engine", "Siege Engine", "Reach 1000 lifetime hits"},
	{"demolisher", "Demolisher", "Deal 100000 lifetime damage"},
	{"wall", "The Wall", "Win a match without losing a ball"},
	{"victor", "Victor", "Win 10 matches"},
	{"conqueror", "Conqueror", "Win 100 matches"},
	{"veteran", "Veteran", "Reach level 10"},
	{"elite", "Elite", "Reach level 25"},
	{"legend", "Legend", "Reach level 50"},
	{"marathon", "Marathon", "Play for 1 hour total"},
}

// CheckAchievements checks if any new achievements should be unlocked
// for a player. Returns the newly unlocked definitions.
func CheckAchievements(db *DB, playerID int64) ([]AchievementDef, error) {
	if db == nil {
		return nil, nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil, err
	}

	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil, err
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	// lastMatch: wall needs per-match data, read the most recent row
	var lastWon bool
	var lastMisses int
	if hist, err := db.GetMatchHistory(playerID, 1); err == nil && len(hist) > 0 {
		lastWon = hist[0].Won
		lastMisses = hist[0].Misses
	}

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_hit":
			return stats.Hits >= 1
		case "battering_ram":
			return stats.Hits >= 100
		case "siege_engine":
			return stats.Hits >= 1000
		case "demolisher":
			return stats.Damage >= 100000
		case "wall":
			return lastWon && lastMisses == 0
		case "victor":
			return stats.Wins >= 10
		case "conqueror":
			return stats.Wins >= 100
		case "veteran":
			return stats.Level >= 10
		case "elite":
			return stats.Level >= 25
		case "legend":
			return stats.Level >= 50
		case "marathon":
			return stats.Playtime >= 3600
		}
		return false
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(playerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked, nil
}
