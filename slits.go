package main

// Mid-arena separator: a row of blocks with one open slit the ball can
// pass through. The slit wanders periodically and the blocks slide to
// their new slots instead of teleporting.
const (
	SlitBlockWidth    = 96.0
	SlitBlockHeight   = 16.0
	SlitCount         = 8 // slots across the arena, one of them open
	SlitShiftInterval = 4.0
	SlitBlockSpeed    = 1000.0
	SlitBlockDamp     = 20.0
	SlitRowY          = 200.0
)

// Slits owns the separator blocks. len(blocks) == SlitCount-1: one slot
// is always the gap.
type Slits struct {
	blocks []BodyID
	gap    int
	shiftT float64
}

// NewSlits registers the separator blocks and activates them as
// steerable immovable bodies.
func NewSlits(w *World) *Slits {
	s := &Slits{gap: SlitCount / 2, shiftT: SlitShiftInterval}
	for i := 0; i < SlitCount-1; i++ {
		id := w.RegisterBody(SeparatorDef(SlitBlockWidth, SlitBlockHeight))
		s.blocks = append(s.blocks, id)
	}
	for i, id := range s.blocks {
		w.AttachMotion(id, s.slotPos(s.slotOf(i)), Vec{})
	}
	return s
}

// slotOf maps block index to slot index, skipping the gap slot
func (s *Slits) slotOf(i int) int {
	if i >= s.gap {
		return i + 1
	}
	return i
}

func (s *Slits) slotPos(slot int) Vec {
	x := -ArenaWidth/2 + SlitBlockWidth*(float64(slot)+0.5)
	return Vec{X: x, Y: SlitRowY}
}

// Update moves the gap when its timer expires and keeps every block
// steering toward its slot. Blocks are immovable to the resolver, so
// they push the ball but never recoil.
func (s *Slits) Update(w *World, dt float64, pick func(n int) int) {
	s.shiftT -= dt
	if s.shiftT <= 0 {
		s.shiftT = SlitShiftInterval
		s.gap = pick(SlitCount)
	}

	for i, id := range s.blocks {
		b := w.Body(id)
		if b == nil {
			continue
		}
		to := s.slotPos(s.slotOf(i)).Sub(b.Pos)
		if to.Len() < 1.0 {
			w.SetTarget(id, Vec{})
			continue
		}
		w.SetTarget(id, to.Normalized().Scale(SlitBlockSpeed))
	}
}

// Gap returns the open slot index, for state broadcasts
func (s *Slits) Gap() int {
	return s.gap
}

// BlockPositions returns current block centers in block order
func (s *Slits) BlockPositions(w *World) []Vec {
	out := make([]Vec, 0, len(s.blocks))
	for _, id := range s.blocks {
		if b := w.Body(id); b != nil {
			out = append(out, b.Pos)
		}
	}
	return out
}
