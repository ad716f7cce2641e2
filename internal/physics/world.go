package physics

import (
	"errors"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/charctl/internal/logger"
	"github.com/Faultbox/charctl/pkg/math"
)

// ErrInvalidSurface is returned for surfaces that cannot be stood on from above.
var ErrInvalidSurface = errors.New("invalid surface")

// Surface is a bounded planar patch. Min and Max bound the patch in XZ,
// relative to Origin. A non-zero Velocity makes it a moving platform; with
// Travel > 0 the platform reverses after covering that distance.
type Surface struct {
	Name     string
	Origin   math.Vec3
	Normal   math.Vec3
	Min      math.Vec2
	Max      math.Vec2
	Velocity math.Vec3
	Travel   float32

	travelled float32
}

// Contains reports whether the world XZ point lies over the patch.
func (s *Surface) Contains(x, z float32) bool {
	lx := x - s.Origin.X
	lz := z - s.Origin.Z
	return lx >= s.Min.X && lx <= s.Max.X && lz >= s.Min.Y && lz <= s.Max.Y
}

// HeightAt returns the plane height at the world XZ point.
func (s *Surface) HeightAt(x, z float32) float32 {
	n := s.Normal
	return s.Origin.Y - (n.X*(x-s.Origin.X)+n.Z*(z-s.Origin.Z))/n.Y
}

// exit returns the shortest XZ move that takes the point off the patch.
func (s *Surface) exit(x, z float32) (dx, dz float32) {
	lx := x - s.Origin.X
	lz := z - s.Origin.Z
	left := lx - s.Min.X
	right := s.Max.X - lx
	back := lz - s.Min.Y
	front := s.Max.Y - lz

	switch min(left, right, back, front) {
	case left:
		return -(left + edgeSkin), 0
	case right:
		return right + edgeSkin, 0
	case back:
		return 0, -(back + edgeSkin)
	default:
		return 0, front + edgeSkin
	}
}

// SlopeAngle returns the angle between the surface normal and +Y in radians.
func (s *Surface) SlopeAngle() float32 {
	return float32(gomath.Acos(float64(clamp(s.Normal.Y, -1, 1))))
}

// World holds every surface a body can stand on.
type World struct {
	surfaces []*Surface
	log      *zap.Logger
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{log: logger.Named("physics")}
}

// AddSurface normalizes and validates s, then adds it to the world.
func (w *World) AddSurface(s Surface) (*Surface, error) {
	n := s.Normal.Normalize()
	if n.Y <= 0 {
		return nil, fmt.Errorf("surface %q: normal %v must point up: %w", s.Name, s.Normal, ErrInvalidSurface)
	}
	if s.Max.X < s.Min.X || s.Max.Y < s.Min.Y {
		return nil, fmt.Errorf("surface %q: empty extent: %w", s.Name, ErrInvalidSurface)
	}
	if s.Travel < 0 {
		return nil, fmt.Errorf("surface %q: negative travel: %w", s.Name, ErrInvalidSurface)
	}
	s.Normal = n

	added := &s
	w.surfaces = append(w.surfaces, added)

	w.log.Debug("surface added",
		zap.String("name", s.Name),
		zap.Float32("slope_deg", added.SlopeAngle()*180/gomath.Pi),
		zap.Bool("moving", s.Velocity != math.Vec3Zero),
	)
	return added, nil
}

// Surfaces returns every surface in insertion order.
func (w *World) Surfaces() []*Surface {
	return w.surfaces
}

// SurfacesAt returns the surfaces lying under the XZ point.
func (w *World) SurfacesAt(x, z float32) []*Surface {
	var out []*Surface
	for _, s := range w.surfaces {
		if s.Contains(x, z) {
			out = append(out, s)
		}
	}
	return out
}

// Step advances moving platforms by dt seconds.
func (w *World) Step(dt float32) {
	if !(dt > 0) {
		return
	}
	for _, s := range w.surfaces {
		if s.Velocity == math.Vec3Zero {
			continue
		}
		s.Origin = s.Origin.Add(s.Velocity.Scale(dt))
		if s.Travel <= 0 {
			continue
		}
		s.travelled += s.Velocity.Length() * dt
		if s.travelled >= s.Travel {
			s.travelled -= s.Travel
			s.Velocity = s.Velocity.Neg()
		}
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
