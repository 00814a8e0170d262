package main

// Positional correction tuning. Only a fraction of the residual
// penetration is corrected per step, past a small slop, so stacked
// contacts settle without injecting energy.
const (
	correctionPercent = 0.8
	correctionSlop    = 0.5
)

// resolve converts one collision event into velocity impulses and a
// positional correction. Bodies already separating get no impulse;
// pairs of two immovable bodies are a no-op. Ids that vanished since
// detection are skipped silently.
func (w *World) resolve(ev CollisionEvent) {
	a := w.bodies[ev.A]
	b := w.bodies[ev.B]
	if a == nil || b == nil {
		return
	}

	invSum := a.InvMass + b.InvMass
	if invSum == 0 {
		return
	}

	normal := ev.Normal
	relVel := a.Vel.Sub(b.Vel)
	velAlongNormal := relVel.Dot(normal)

	var j float64
	if velAlongNormal < 0 {
		// Restitution impulse along the contact normal
		e := (a.Restitution + b.Restitution) / 2
		j = -(1 + e) * velAlongNormal / invSum
		impulse := normal.Scale(j)
		a.Vel = a.Vel.Add(impulse.Scale(a.InvMass))
		b.Vel = b.Vel.Sub(impulse.Scale(b.InvMass))

		// Friction impulse tangential to the normal, Coulomb-clamped
		// by the normal impulse magnitude
		relVel = a.Vel.Sub(b.Vel)
		tangent := relVel.Sub(normal.Scale(relVel.Dot(normal))).Normalized()
		if tangent.LenSq() > 0 {
			jt := -relVel.Dot(tangent) / invSum
			mu := (a.Friction + b.Friction) / 2
			jt = Clamp(jt, -mu*j, mu*j)
			fric := tangent.Scale(jt)
			a.Vel = a.Vel.Add(fric.Scale(a.InvMass))
			b.Vel = b.Vel.Sub(fric.Scale(b.InvMass))
		}
	}

	// Positional correction of residual penetration, split by inverse
	// mass so immovable bodies never move
	depth := ev.Penetration - correctionSlop
	if depth > 0 {
		corr := normal.Scale(depth / invSum * correctionPercent)
		a.Pos = a.Pos.Add(corr.Scale(a.InvMass))
		b.Pos = b.Pos.Sub(corr.Scale(b.InvMass))
	}
}
