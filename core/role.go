package core

// Role is one of the four functional memberships a shape may hold in the chunk grid
type Role uint8

const (
	RoleLocator Role = iota
	RoleOverlap
	RoleSolid
	RoleCollision

	RoleCount = 4
)

var roleNames = [RoleCount]string{"locator", "overlap", "solid", "collision"}

func (r Role) String() string {
	if r < RoleCount {
		return roleNames[r]
	}
	return "unknown"
}

// Capability maps a role to the capability bit required to serve it
func (r Role) Capability() Capability {
	return Capability(1) << r
}

// Direction names a solid surface side
type Direction uint8

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown

	DirCount = 4
)

var dirNames = [DirCount]string{"left", "right", "up", "down"}

func (d Direction) String() string {
	if d < DirCount {
		return dirNames[d]
	}
	return "unknown"
}

// DirectionSet is a bitmask of solid surface directions
type DirectionSet uint8

const (
	SurfaceLeft DirectionSet = 1 << iota
	SurfaceRight
	SurfaceUp
	SurfaceDown

	SurfaceNone DirectionSet = 0
	SurfaceAll               = SurfaceLeft | SurfaceRight | SurfaceUp | SurfaceDown
)

// Of returns the single-direction set for d
func Of(d Direction) DirectionSet {
	return DirectionSet(1) << d
}

func (s DirectionSet) Has(d Direction) bool {
	return s&Of(d) != 0
}

func (s DirectionSet) With(d Direction) DirectionSet {
	return s | Of(d)
}

func (s DirectionSet) Without(d Direction) DirectionSet {
	return s &^ Of(d)
}

// Count returns the number of directions in the set
func (s DirectionSet) Count() int {
	n := 0
	for d := Direction(0); d < DirCount; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Mirror swaps left/right when xFlip and up/down when yFlip
func (s DirectionSet) Mirror(xFlip, yFlip bool) DirectionSet {
	out := s
	if xFlip {
		out &^= SurfaceLeft | SurfaceRight
		if s.Has(DirLeft) {
			out |= SurfaceRight
		}
		if s.Has(DirRight) {
			out |= SurfaceLeft
		}
	}
	if yFlip {
		src := out
		out &^= SurfaceUp | SurfaceDown
		if src.Has(DirUp) {
			out |= SurfaceDown
		}
		if src.Has(DirDown) {
			out |= SurfaceUp
		}
	}
	return out
}
