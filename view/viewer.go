// Package view is a top-down debug viewer for sector maps. It draws the
// sector polygons colored by kind, portal edges in green, solid walls in
// white, and an optional camera with its ray fan.
package view

import (
	"image/color"
	"math"
	"sort"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/duskforge/grimwall/trace"
	"github.com/duskforge/grimwall/world"
)

// Viewer renders one world onto a pannable, zoomable canvas.
type Viewer struct {
	w   *world.World
	cam *world.Camera // nil hides the camera overlay

	// Ray fan parameters for the camera overlay.
	Fov     float64
	Columns int

	// Canvas state
	viewOffsetX float32
	viewOffsetY float32
	zoom        float32

	// Mouse/pointer state
	isPanning  bool
	lastMouseX float32
	lastMouseY float32
}

// NewViewer creates a viewer for the given world. cam may be nil.
func NewViewer(w *world.World, cam *world.Camera) *Viewer {
	return &Viewer{
		w:       w,
		cam:     cam,
		Fov:     math.Pi / 2,
		Columns: 40,
		zoom:    1.0,
	}
}

var kindColors = map[world.SectorKind]color.NRGBA{
	world.KindRoot:   {R: 40, G: 40, B: 48, A: 255},
	world.KindRoom:   {R: 70, G: 80, B: 100, A: 255},
	world.KindColumn: {R: 120, G: 90, B: 60, A: 255},
	world.KindBox:    {R: 150, G: 130, B: 80, A: 255},
}

var (
	wallColor   = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	portalColor = color.NRGBA{R: 60, G: 220, B: 60, A: 255}
	camColor    = color.NRGBA{R: 255, G: 80, B: 80, A: 255}
	rayColor    = color.NRGBA{R: 255, G: 220, B: 80, A: 90}
)

// Layout draws one frame.
func (v *Viewer) Layout(gtx layout.Context) layout.Dimensions {
	return layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
			paint.ColorOp{Color: color.NRGBA{R: 25, G: 25, B: 30, A: 255}}.Add(gtx.Ops)
			paint.PaintOp{}.Add(gtx.Ops)
			return layout.Dimensions{Size: gtx.Constraints.Max}
		},
		func(gtx layout.Context) layout.Dimensions {
			v.handleInput(gtx)
			defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
			v.drawSectors(gtx)
			v.drawCamera(gtx)
			return layout.Dimensions{Size: gtx.Constraints.Max}
		},
	)
}

// toScreen maps a world point onto the canvas.
func (v *Viewer) toScreen(gtx layout.Context, x, y float64) f32.Point {
	centerX := float32(gtx.Constraints.Max.X) / 2.0
	centerY := float32(gtx.Constraints.Max.Y) / 2.0
	return f32.Point{
		X: centerX + v.viewOffsetX + float32(x)*v.zoom,
		Y: centerY + v.viewOffsetY + float32(y)*v.zoom,
	}
}

// handleInput processes pointer events for panning and zooming.
func (v *Viewer) handleInput(gtx layout.Context) {
	area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	event.Op(gtx.Ops, v)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  v,
			Kinds:   pointer.Press | pointer.Release | pointer.Drag | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}

		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		switch pe.Kind {
		case pointer.Press:
			if pe.Buttons == pointer.ButtonSecondary {
				v.isPanning = true
				v.lastMouseX = pe.Position.X
				v.lastMouseY = pe.Position.Y
			}

		case pointer.Release:
			if pe.Buttons&pointer.ButtonSecondary == 0 {
				v.isPanning = false
			}

		case pointer.Drag:
			if v.isPanning {
				v.viewOffsetX += pe.Position.X - v.lastMouseX
				v.viewOffsetY += pe.Position.Y - v.lastMouseY
				v.lastMouseX = pe.Position.X
				v.lastMouseY = pe.Position.Y
			}

		case pointer.Scroll:
			zoomFactor := float32(1.0 + pe.Scroll.Y*0.1)
			newZoom := v.zoom * zoomFactor

			const minZoom = 0.05
			const maxZoom = 20.0
			if newZoom < minZoom {
				newZoom = minZoom
			}
			if newZoom > maxZoom {
				newZoom = maxZoom
			}

			// Zoom towards the mouse position: keep the world point
			// under the cursor fixed.
			centerX := float32(gtx.Constraints.Max.X) / 2.0
			centerY := float32(gtx.Constraints.Max.Y) / 2.0
			mouseRelX := pe.Position.X - centerX
			mouseRelY := pe.Position.Y - centerY

			zoomRatio := newZoom / v.zoom
			v.viewOffsetX = (v.viewOffsetX-mouseRelX)*zoomRatio + mouseRelX
			v.viewOffsetY = (v.viewOffsetY-mouseRelY)*zoomRatio + mouseRelY
			v.zoom = newZoom
		}
	}
}

// drawSectors fills every sector polygon and strokes its walls. Shallow
// sectors are drawn first so nested children stay visible on top.
func (v *Viewer) drawSectors(gtx layout.Context) {
	sectors := append([]*world.Sector(nil), v.w.Sectors()...)
	sort.Slice(sectors, func(i, j int) bool { return sectors[i].Depth < sectors[j].Depth })

	for _, s := range sectors {
		v.fillSector(gtx, s)
	}
	for _, s := range sectors {
		for i := range s.Walls {
			wall := &s.Walls[i]
			a := v.toScreen(gtx, wall.P1.X, wall.P1.Y)
			b := v.toScreen(gtx, wall.P2.X, wall.P2.Y)
			col := wallColor
			if wall.Portal != world.NoPortal {
				col = portalColor
			}
			v.drawLine(gtx, a, b, 2.0, col)
		}
	}
}

func (v *Viewer) fillSector(gtx layout.Context, s *world.Sector) {
	if len(s.Vertices) < 3 {
		return
	}

	col, ok := kindColors[s.Kind]
	if !ok {
		col = kindColors[world.KindRoom]
	}
	if s.Solid() {
		// Solid prisms read as obstacles, lighten them a little.
		col.R += 20
		col.G += 20
		col.B += 20
	}

	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(v.toScreen(gtx, s.Vertices[0].X, s.Vertices[0].Y))
	for _, p := range s.Vertices[1:] {
		path.LineTo(v.toScreen(gtx, p.X, p.Y))
	}
	path.Close()

	spec := path.End()
	stack := clip.Outline{Path: spec}.Op().Push(gtx.Ops)
	paint.ColorOp{Color: col}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	stack.Pop()
}

// drawCamera marks the camera position and casts the ray fan.
func (v *Viewer) drawCamera(gtx layout.Context) {
	if v.cam == nil {
		return
	}

	cols := v.Columns
	if cols < 1 {
		cols = 1
	}
	origin := v.toScreen(gtx, v.cam.X, v.cam.Y)
	for c := 0; c < cols; c++ {
		angle := v.cam.Yaw
		if cols > 1 {
			angle += v.Fov * (float64(c)/float64(cols-1) - 0.5)
		}
		hits := trace.CastRay(v.w, v.cam, angle)
		if len(hits) == 0 {
			continue
		}
		last := hits[len(hits)-1]
		v.drawLine(gtx, origin, v.toScreen(gtx, last.Point.X, last.Point.Y), 1.0, rayColor)
	}

	v.drawCircle(gtx, origin, 5.0, camColor)
}

// drawCircle draws a filled circle at the given screen position.
func (v *Viewer) drawCircle(gtx layout.Context, at f32.Point, radius float32, col color.NRGBA) {
	const segments = 32
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Point{X: at.X + radius, Y: at.Y})
	for i := 1; i <= segments; i++ {
		angle := float64(i) * 2.0 * math.Pi / segments
		path.LineTo(f32.Point{
			X: at.X + radius*float32(math.Cos(angle)),
			Y: at.Y + radius*float32(math.Sin(angle)),
		})
	}
	path.Close()

	spec := path.End()
	defer clip.Outline{Path: spec}.Op().Push(gtx.Ops).Pop()
	paint.ColorOp{Color: col}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

// drawLine strokes a line between two screen points.
func (v *Viewer) drawLine(gtx layout.Context, a, b f32.Point, width float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(a)
	path.LineTo(b)

	spec := path.End()
	stroke := clip.Stroke{
		Path:  spec,
		Width: width,
	}.Op()

	defer stroke.Push(gtx.Ops).Pop()
	paint.ColorOp{Color: col}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}
