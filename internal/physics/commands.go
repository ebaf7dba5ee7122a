package physics

import "github.com/jakecoffman/cp"

// CommandKind is a deferred mutation of the space.
type CommandKind int

const (
	CommandRemove  CommandKind = iota // Detach shapes, then remove the body
	CommandPromote                    // Kinematic ray becomes neutral dynamic debris
)

type command struct {
	kind CommandKind
	body *cp.Body
}

// QueueRemove schedules a body for removal at the next Flush.
// Returns false if the body already has a pending command or is the item.
func (s *Space) QueueRemove(b *cp.Body) bool {
	return s.queue(CommandRemove, b)
}

// QueuePromote schedules a ray to become dynamic debris at the next Flush.
// Returns false if the body already has a pending command or is the item.
func (s *Space) QueuePromote(b *cp.Body) bool {
	return s.queue(CommandPromote, b)
}

// Pending reports whether b has a command waiting for Flush.
func (s *Space) Pending(b *cp.Body) bool {
	_, ok := s.pending[b]
	return ok
}

func (s *Space) queue(kind CommandKind, b *cp.Body) bool {
	if b == nil || b == s.item {
		return false
	}
	if _, ok := s.pending[b]; ok {
		return false
	}
	s.pending[b] = struct{}{}
	s.commands = append(s.commands, command{kind: kind, body: b})
	return true
}

// Flush applies queued commands in order. Must not be called during Step.
func (s *Space) Flush() {
	if len(s.commands) == 0 {
		return
	}

	removed := make(map[*cp.Body]bool)
	for _, cmd := range s.commands {
		switch cmd.kind {
		case CommandRemove:
			s.remove(cmd.body)
			removed[cmd.body] = true
		case CommandPromote:
			s.promote(cmd.body)
		}
	}
	s.commands = s.commands[:0]
	clear(s.pending)

	if len(removed) > 0 {
		// Compact rays, preserving spawn order
		kept := s.rays[:0]
		for _, b := range s.rays {
			if !removed[b] {
				kept = append(kept, b)
			}
		}
		for i := len(kept); i < len(s.rays); i++ {
			s.rays[i] = nil
		}
		s.rays = kept
	}
}

func (s *Space) remove(b *cp.Body) {
	if info := InfoOf(b); info != nil {
		for _, shape := range info.Shapes {
			s.space.RemoveShape(shape)
		}
		info.Shapes = nil
	}
	s.space.RemoveBody(b)
}

func (s *Space) promote(b *cp.Body) {
	info := InfoOf(b)
	if info == nil || info.Role != RoleRay {
		return
	}
	if b.GetType() != cp.BODY_DYNAMIC {
		b.SetType(cp.BODY_DYNAMIC)
		b.SetMass(s.cfg.RayMass)
		b.SetMoment(cp.MomentForBox(s.cfg.RayMass, s.cfg.RayWidth, s.cfg.RayHeight))
	}
	info.retag(CollisionNeutral)
}
