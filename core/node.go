package core

// NodeID is a stable handle into a container's node arena
// Zero is the null handle
type NodeID uint32

// ObjectID identifies an owning object within its container
type ObjectID uint64

// ShapeKind is the closed set of hitbox shapes
type ShapeKind uint8

const (
	ShapePoint ShapeKind = iota
	ShapeCircle
	ShapeRect
	ShapeLine
	ShapePolygon
	ShapeComposite
)

var shapeNames = [...]string{
	ShapePoint:     "point",
	ShapeCircle:    "circle",
	ShapeRect:      "rect",
	ShapeLine:      "line",
	ShapePolygon:   "polygon",
	ShapeComposite: "composite",
}

func (k ShapeKind) String() string {
	if int(k) < len(shapeNames) {
		return shapeNames[k]
	}
	return "unknown"
}

// Capability is a bitmask of the roles a shape is able to serve
type Capability uint8

const (
	CapLocator Capability = 1 << iota
	CapOverlap
	CapSolid
	CapCollision

	CapNone Capability = 0
	CapAll             = CapLocator | CapOverlap | CapSolid | CapCollision
)

// Has reports whether every bit of want is set
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// KindCapability returns the capability set intrinsic to a shape kind
// Composite capability is derived from its acceptance mask instead
func KindCapability(k ShapeKind) Capability {
	switch k {
	case ShapePoint:
		return CapLocator | CapOverlap
	case ShapeCircle, ShapePolygon:
		return CapLocator | CapOverlap | CapCollision
	case ShapeRect:
		return CapAll
	case ShapeLine:
		return CapLocator | CapOverlap | CapSolid
	default:
		return CapNone
	}
}
