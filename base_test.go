package main

import (
	"math"
	"testing"
)

func TestEnemyBaseHitDamage(t *testing.T) {
	eb := NewEnemyBase()

	damage, destroyed := eb.Hit(800, 1.0, 0)
	if damage != 800 {
		t.Errorf("damage = %f, want speed*mass = 800", damage)
	}
	if destroyed {
		t.Error("base should survive one hit")
	}
	if eb.HP != EnemyBaseFullHP-800 {
		t.Errorf("HP = %f, want %f", eb.HP, EnemyBaseFullHP-800)
	}
}

func TestEnemyBaseDamageCap(t *testing.T) {
	eb := NewEnemyBase()
	damage, _ := eb.Hit(9000, 3.0, 0)
	if damage != MaxDamage {
		t.Errorf("damage should cap at %f, got %f", MaxDamage, damage)
	}
}

func TestEnemyBaseDestroyed(t *testing.T) {
	eb := NewEnemyBase()
	eb.HP = 500

	damage, destroyed := eb.Hit(2000, 1.0, 0)
	if damage != 500 {
		t.Errorf("damage should stop at remaining HP, got %f", damage)
	}
	if !destroyed {
		t.Error("base at 0 HP should report destroyed")
	}
}

func TestEnemyBaseHealGrace(t *testing.T) {
	eb := NewEnemyBase()
	eb.Hit(1000, 1.0, 10)

	if healed := eb.Heal(1.0, 10+EnemyBaseHealGrace-0.1); healed != 0 {
		t.Errorf("healing inside the grace window, got %f", healed)
	}
	if healed := eb.Heal(1.0, 10+EnemyBaseHealGrace+0.1); math.Abs(healed-EnemyBaseHealRate) > 1e-9 {
		t.Errorf("expected %f healed, got %f", EnemyBaseHealRate, healed)
	}
}

func TestEnemyBaseHealStopsAtMax(t *testing.T) {
	eb := NewEnemyBase()
	eb.HP = eb.MaxHP - 100

	healed := eb.Heal(10, 100)
	if healed != 100 {
		t.Errorf("heal should stop at max HP, got %f", healed)
	}
	if eb.HP != eb.MaxHP {
		t.Errorf("HP = %f, want max %f", eb.HP, eb.MaxHP)
	}
	if eb.Heal(1, 200) != 0 {
		t.Error("full base should not heal")
	}
}

func TestEnemyBaseNoHealWhenDestroyed(t *testing.T) {
	eb := NewEnemyBase()
	eb.HP = 0
	if eb.Heal(10, 1000) != 0 {
		t.Error("destroyed base must not heal")
	}
}

func TestPlayerBaseMiss(t *testing.T) {
	pb := NewPlayerBase()

	for i := 0; i < PlayerBaseBallCount; i++ {
		if pb.Miss() {
			t.Fatalf("miss %d should not lose the match", i+1)
		}
	}
	if pb.BallCount != 0 {
		t.Errorf("expected 0 balls left, got %d", pb.BallCount)
	}
	if !pb.Miss() {
		t.Error("miss with no balls left should lose the match")
	}
}
