// Package trace walks rays through the portal graph. The render backends
// call CastRay once per screen column and consume the ordered hit list;
// SpriteHit answers billboard tests against dynamic entities.
package trace

import (
	"math"
	"sort"

	"github.com/duskforge/grimwall/geom"
	"github.com/duskforge/grimwall/world"
)

// DefaultMaxHops bounds the number of portal hops a single ray may cross,
// so cyclic portal graphs always terminate.
const DefaultMaxHops = 32

// advanceEps is how far past a portal surface the ray origin is nudged
// before the walk continues in the neighbor sector. Large enough to clear
// the weld epsilon, small enough not to skip thin sectors.
const advanceEps = 1e-3

// Hit is one wall crossing along a ray. Non-portal hits are included too,
// in distance order, so semi-transparent geometry can be composited back
// to front.
type Hit struct {
	Point  geom.Point
	Sector world.SectorID
	Wall   *world.Wall
	Portal world.PortalID

	// Dist accumulates across portal hops and stays camera-relative.
	Dist float64
	// CorrectedDist is Dist projected onto the view direction, undoing
	// the fisheye distortion of a planar projection.
	CorrectedDist float64

	// Base and Height are the owning sector's floor and prism height,
	// which the column rasterizer needs to place the wall slice.
	Base   float64
	Height float64
}

// Options tunes a cast. The zero value selects the defaults.
type Options struct {
	MaxHops int
}

// CastRay walks a single ray from the camera at the given world angle and
// returns every wall hit in ascending camera distance. The walk starts in
// the camera's cached sector, or resolves it through the locator when the
// cache is unset. A nil slice means the camera is outside the map.
func CastRay(w *world.World, cam *world.Camera, angle float64) []Hit {
	return CastRayOpts(w, cam, angle, Options{})
}

// CastRayOpts is CastRay with explicit options.
//
// Each iteration gathers hits against every wall of the current sector
// and, one flattened level down, every wall of its child sectors, so
// nested solid prisms are found without a portal hop. The batch is sorted
// by distance and appended whole; the first portal hit in the batch
// decides where the ray continues. The walk stops at the hop cap, on an
// empty batch, or when no portal leads onward.
func CastRayOpts(w *world.World, cam *world.Camera, angle float64, opts Options) []Hit {
	maxHops := opts.MaxHops
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}

	current := cam.Sector
	if w.Sector(current) == nil {
		current = w.SectorAtZ(cam.Pos(), cam.Z)
	}
	if current == world.NoSector {
		return nil
	}

	origin := cam.Pos()
	dir := geom.Vec{X: math.Cos(angle), Y: math.Sin(angle)}
	correction := math.Cos(angle - cam.Yaw)
	base := 0.0

	var out []Hit
	var batch []Hit

	for hop := 0; hop < maxHops; hop++ {
		s := w.Sector(current)
		if s == nil {
			break
		}

		batch = batch[:0]
		batch = appendWallHits(batch, s, origin, dir, base, correction)
		for _, cid := range s.Children {
			if child := w.Sector(cid); child != nil {
				batch = appendWallHits(batch, child, origin, dir, base, correction)
			}
		}
		if len(batch) == 0 {
			break
		}

		sort.Slice(batch, func(i, j int) bool { return batch[i].Dist < batch[j].Dist })
		out = append(out, batch...)

		exit := -1
		for i := range batch {
			if batch[i].Portal != world.NoPortal {
				exit = i
				break
			}
		}
		if exit < 0 {
			break
		}

		hit := batch[exit]
		next := w.Neighbor(hit.Portal, hit.Sector)
		if next == world.NoSector || next == current {
			break
		}
		w.EmitPortalCrossed(current, next, hit.Portal)

		origin = hit.Point.Add(dir.Scale(advanceEps))
		base = hit.Dist + advanceEps
		current = next
	}

	return out
}

func appendWallHits(batch []Hit, s *world.Sector, origin geom.Point, dir geom.Vec, base, correction float64) []Hit {
	for i := range s.Walls {
		wall := &s.Walls[i]
		p, t, ok := geom.RaySegment(origin, dir, wall.P1, wall.P2)
		if !ok {
			continue
		}
		dist := base + t
		batch = append(batch, Hit{
			Point:         p,
			Sector:        s.ID,
			Wall:          wall,
			Portal:        wall.Portal,
			Dist:          dist,
			CorrectedDist: dist * correction,
			Base:          s.FloorZ,
			Height:        s.CeilZ - s.FloorZ,
		})
	}
	return batch
}

// SpriteHit tests a ray against an entity billboard: the entity occupies
// an angular slice as seen from the camera, proportional to its footprint
// radius. It reports the camera distance when the ray angle falls inside
// that slice. A camera standing inside the footprint always hits at
// distance zero.
func SpriteHit(cam *world.Camera, angle float64, e *world.Entity) (float64, bool) {
	to := geom.Vec{X: e.X - cam.X, Y: e.Y - cam.Y}
	dist := to.Len()
	if dist <= e.Radius {
		return 0, true
	}

	entAngle := math.Atan2(to.Y, to.X)
	halfWidth := math.Atan2(e.Radius, dist)
	if math.Abs(angleDiff(angle, entAngle)) > halfWidth {
		return 0, false
	}
	return dist, true
}

// angleDiff normalizes a-b into (-pi, pi].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
