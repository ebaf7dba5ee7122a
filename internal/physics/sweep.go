package physics

// OutOfBounds reports whether a body state lies outside the sweep rectangle.
func (s *Space) OutOfBounds(st BodyState) bool {
	b := s.cfg.Bounds
	p := st.Pos
	return p.Y > b.MaxY || p.Y < b.MinY || p.X < b.MinX || p.X > b.MaxX
}

// Sweep removes every ray that left the play area. The item is never swept.
// Returns the number of rays removed.
func (s *Space) Sweep() int {
	n := 0
	for _, b := range s.rays {
		if s.OutOfBounds(stateOf(b)) && s.QueueRemove(b) {
			n++
		}
	}
	s.Flush()
	return n
}
