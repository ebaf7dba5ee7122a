package physics

import (
	"github.com/jakecoffman/cp"

	"github.com/tomz197/makemelaugh/internal/loop/config"
)

// ContactFunc is called once per ray that touches the item during a step.
// It runs inside the step: it may queue commands but must not mutate the
// space directly.
type ContactFunc func(ray *cp.Body)

// Space owns the cp space, the item body and every ray.
type Space struct {
	cfg   config.PhysicsConfig
	space *cp.Space
	item  *cp.Body
	rays  []*cp.Body // Spawn order

	commands []command
	pending  map[*cp.Body]struct{}

	onContact ContactFunc
}

// NewSpace creates a space with gravity pointing down the screen and a
// kinematic item body at itemPos.
func NewSpace(cfg config.PhysicsConfig, itemPos cp.Vector) *Space {
	s := &Space{
		cfg:     cfg,
		space:   cp.NewSpace(),
		pending: make(map[*cp.Body]struct{}),
	}
	s.space.SetGravity(cp.Vector{X: 0, Y: cfg.Gravity})

	item := cp.NewKinematicBody()
	item.SetPosition(itemPos)
	info := &BodyInfo{Role: RoleItem, Tag: CollisionItem}
	item.UserData = info
	s.space.AddBody(item)
	shape := s.space.AddShape(cp.NewBox(item, cfg.ItemSize, cfg.ItemSize, 0))
	shape.SetCollisionType(CollisionItem)
	info.Shapes = append(info.Shapes, shape)
	s.item = item

	handler := s.space.NewCollisionHandler(CollisionRay, CollisionItem)
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
		a, b := arb.Bodies()
		s.contact(a, b)
		// Rays pass through; the outcome is decided by the contact func.
		return false
	}

	return s
}

// OnContact installs the ray/item contact callback.
func (s *Space) OnContact(fn ContactFunc) {
	s.onContact = fn
}

// contact resolves which of the two bodies is the ray and dispatches it.
// Pairs not involving the item, and rays already scheduled, are ignored.
func (s *Space) contact(a, b *cp.Body) {
	var ray *cp.Body
	switch s.item {
	case a:
		ray = b
	case b:
		ray = a
	default:
		return
	}
	if ray == nil || ray == s.item || s.Pending(ray) {
		return
	}
	if info := InfoOf(ray); info == nil || info.Role != RoleRay || info.Tag != CollisionRay {
		return
	}
	if s.onContact != nil {
		s.onContact(ray)
	}
}

// Step advances the simulation by one fixed step, then applies queued commands.
func (s *Space) Step() {
	s.space.Step(s.cfg.StepDelta)
	s.Flush()
}

// SpawnRay adds a kinematic ray at pos moving along angle.
func (s *Space) SpawnRay(pos cp.Vector, angle, speed, spin float64) *cp.Body {
	body := cp.NewKinematicBody()
	body.SetPosition(pos)
	body.SetAngle(angle)
	body.SetVelocityVector(FromAngle(angle, speed))
	body.SetAngularVelocity(spin)
	info := &BodyInfo{Role: RoleRay, Tag: CollisionRay}
	body.UserData = info
	s.space.AddBody(body)

	shape := s.space.AddShape(cp.NewBox(body, s.cfg.RayWidth, s.cfg.RayHeight, 0))
	shape.SetCollisionType(CollisionRay)
	info.Shapes = append(info.Shapes, shape)

	s.rays = append(s.rays, body)
	return body
}

// Item returns the item body.
func (s *Space) Item() *cp.Body {
	return s.item
}

// ItemState returns the item's pose.
func (s *Space) ItemState() BodyState {
	return stateOf(s.item)
}

// MoveItem teleports the kinematic item to pos.
func (s *Space) MoveItem(pos cp.Vector) {
	s.item.SetPosition(pos)
	s.item.SetVelocity(0, 0)
}

// ReleaseItem turns the item into a dynamic body that falls and spins away.
func (s *Space) ReleaseItem(vel cp.Vector, spin float64) {
	if s.item.GetType() != cp.BODY_DYNAMIC {
		s.item.SetType(cp.BODY_DYNAMIC)
		s.item.SetMass(s.cfg.ItemMass)
		s.item.SetMoment(cp.MomentForBox(s.cfg.ItemMass, s.cfg.ItemSize, s.cfg.ItemSize))
	}
	s.item.SetVelocityVector(vel)
	s.item.SetAngularVelocity(spin)
}

// ResetItem makes the item kinematic again, upright and still, at pos.
func (s *Space) ResetItem(pos cp.Vector) {
	if s.item.GetType() != cp.BODY_KINEMATIC {
		s.item.SetType(cp.BODY_KINEMATIC)
	}
	s.item.SetPosition(pos)
	s.item.SetAngle(0)
	s.item.SetVelocity(0, 0)
	s.item.SetAngularVelocity(0)
}

// Rays returns the pose of every ray in spawn order.
func (s *Space) Rays() []BodyState {
	out := make([]BodyState, 0, len(s.rays))
	for _, b := range s.rays {
		out = append(out, stateOf(b))
	}
	return out
}

// RayCount returns the number of rays in the space.
func (s *Space) RayCount() int {
	return len(s.rays)
}

// ClearRays removes every ray immediately.
func (s *Space) ClearRays() {
	for _, b := range s.rays {
		s.QueueRemove(b)
	}
	s.Flush()
}
