package physics

import "github.com/jakecoffman/cp"

// Collision tags carried by shapes.
const (
	CollisionNeutral cp.CollisionType = iota // Already collided, or never collides with the item
	CollisionRay                             // Live ray, aimed at the item
	CollisionItem                            // The player-controlled item
)

// Role identifies what a body is for.
type Role int

const (
	RoleItem Role = iota
	RoleRay
)

func (r Role) String() string {
	switch r {
	case RoleItem:
		return "item"
	case RoleRay:
		return "ray"
	default:
		return "unknown"
	}
}

// BodyInfo is stored in every body's UserData.
// Shapes lists everything the body owns; they are detached before the body
// leaves the space.
type BodyInfo struct {
	Role   Role
	Tag    cp.CollisionType
	Shapes []*cp.Shape
}

// InfoOf returns the BodyInfo of a body created by a Space, or nil.
func InfoOf(b *cp.Body) *BodyInfo {
	if b == nil {
		return nil
	}
	info, _ := b.UserData.(*BodyInfo)
	return info
}

// BodyState is a read-only copy of a body's pose for rendering.
type BodyState struct {
	Pos     cp.Vector
	Angle   float64
	Dynamic bool
}

func stateOf(b *cp.Body) BodyState {
	return BodyState{
		Pos:     b.Position(),
		Angle:   b.Angle(),
		Dynamic: b.GetType() == cp.BODY_DYNAMIC,
	}
}

func (info *BodyInfo) retag(tag cp.CollisionType) {
	info.Tag = tag
	for _, shape := range info.Shapes {
		shape.SetCollisionType(tag)
	}
}
