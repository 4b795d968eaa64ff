package world

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/duskforge/grimwall/geom"
	"github.com/duskforge/grimwall/logger"
)

type (
	// MapFile is the on-disk YAML form of a map. Portals are never
	// stored; they are rebuilt from wall adjacency after every load.
	MapFile struct {
		// Name identifies the map in logs and tools.
		Name string `yaml:"name"`
		// Sectors is the ordered sector record list. IDs are authoritative
		// and stable for the session.
		Sectors []SectorRecord `yaml:"sectors"`
	}

	SectorRecord struct {
		ID      int32   `yaml:"id"`
		Floor   float64 `yaml:"floor"`
		Ceiling float64 `yaml:"ceiling"`
		Light   uint8   `yaml:"light,omitempty"`
		// FloorTex and CeilTex are tile ids into the texture table.
		FloorTex int32 `yaml:"floor_tex,omitempty"`
		CeilTex  int32 `yaml:"ceil_tex,omitempty"`
		// Parent is the enclosing sector id, or -1 for a root sector.
		Parent int32 `yaml:"parent"`
		// Kind is one of root, room, column, box.
		Kind string `yaml:"kind,omitempty"`
		// Solid is a loader hint only; solidity is derived from the live
		// portal/child counts and wins over this flag on mismatch.
		Solid bool `yaml:"solid,omitempty"`

		Vertices []VertexRecord `yaml:"vertices"`
		// Walls is optional; when absent one wall per polygon edge is
		// synthesized with the sector's middle texture.
		Walls []WallRecord `yaml:"walls,omitempty"`
	}

	VertexRecord struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	}

	WallRecord struct {
		Lower     int32   `yaml:"lower,omitempty"`
		Middle    int32   `yaml:"middle,omitempty"`
		Upper     int32   `yaml:"upper,omitempty"`
		SplitLow  float64 `yaml:"split_low,omitempty"`
		SplitHigh float64 `yaml:"split_high,omitempty"`
	}
)

// LoadMapFile reads and decodes a map file without building a world.
func LoadMapFile(path string) (*MapFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m MapFile
	if err := yaml.NewDecoder(f).Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &m, nil
}

// Save writes the map back out as YAML.
func (m *MapFile) Save(path string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	defer encoder.Close()
	encoder.SetIndent(4)

	return encoder.Encode(m)
}

func parseKind(s string) SectorKind {
	switch s {
	case "room":
		return KindRoom
	case "column":
		return KindColumn
	case "box":
		return KindBox
	}
	return KindRoot
}

func kindName(k SectorKind) string {
	return k.String()
}

// Build assembles a World from the decoded records, finalizes the nesting
// relation, and detects portals with the given weld epsilon. Records that
// fail structural validation are skipped with a logged warning; the rest
// of the map still loads.
func (m *MapFile) Build(weldEps float64) *World {
	w := New()
	for i := range m.Sectors {
		rec := &m.Sectors[i]
		s := rec.toSector()
		if err := w.AddSector(s); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"map":    m.Name,
				"sector": rec.ID,
			}).WithError(err).Warn("skipping sector record")
		}
	}

	w.Finalize()
	w.DetectPortals(weldEps)

	for i := range m.Sectors {
		rec := &m.Sectors[i]
		s := w.Sector(SectorID(rec.ID))
		if s == nil {
			continue
		}
		if rec.Solid != s.Solid() {
			logger.Log.WithFields(logrus.Fields{
				"map":     m.Name,
				"sector":  rec.ID,
				"hint":    rec.Solid,
				"derived": s.Solid(),
			}).Warn("solidity hint disagrees with derived value, using derived")
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"map":     m.Name,
		"sectors": w.NumSectors(),
		"portals": w.NumPortals(),
	}).Info("map loaded")
	return w
}

// LoadMap reads a map file and builds its world in one step.
func LoadMap(path string, weldEps float64) (*World, error) {
	m, err := LoadMapFile(path)
	if err != nil {
		return nil, err
	}
	return m.Build(weldEps), nil
}

// SaveMap writes a live world back out as a map file. Portal annotations
// are not serialized; a later load re-derives them.
func SaveMap(path, name string, w *World) error {
	m := &MapFile{Name: name}
	for _, s := range w.Sectors() {
		m.Sectors = append(m.Sectors, Record(s))
	}
	return m.Save(path)
}

func (rec *SectorRecord) toSector() *Sector {
	verts := make([]geom.Point, len(rec.Vertices))
	for i, v := range rec.Vertices {
		verts[i] = geom.Point{X: v.X, Y: v.Y}
	}
	// Normalize winding before walls are cut from the edges, so wall
	// records keep lining up with the stored vertex order.
	verts = geom.EnsureCCW(verts)

	s := &Sector{
		ID:       SectorID(rec.ID),
		FloorZ:   rec.Floor,
		CeilZ:    rec.Ceiling,
		Light:    rec.Light,
		FloorTex: rec.FloorTex,
		CeilTex:  rec.CeilTex,
		Vertices: verts,
		Parent:   SectorID(rec.Parent),
		Kind:     parseKind(rec.Kind),
	}

	n := len(verts)
	s.Walls = make([]Wall, 0, n)
	for i := 0; i < n; i++ {
		wall := Wall{
			ID:     int32(i),
			P1:     verts[i],
			P2:     verts[(i+1)%n],
			Portal: NoPortal,
		}
		if i < len(rec.Walls) {
			wr := rec.Walls[i]
			wall.Lower = wr.Lower
			wall.Middle = wr.Middle
			wall.Upper = wr.Upper
			wall.SplitLow = wr.SplitLow
			wall.SplitHigh = wr.SplitHigh
		} else {
			wall.Middle = rec.FloorTex
			wall.SplitLow = rec.Floor
			wall.SplitHigh = rec.Ceiling
		}
		s.Walls = append(s.Walls, wall)
	}
	return s
}

// Record converts a live sector back into its file form. Portal stamps
// are intentionally not serialized.
func Record(s *Sector) SectorRecord {
	rec := SectorRecord{
		ID:       int32(s.ID),
		Floor:    s.FloorZ,
		Ceiling:  s.CeilZ,
		Light:    s.Light,
		FloorTex: s.FloorTex,
		CeilTex:  s.CeilTex,
		Parent:   int32(s.Parent),
		Kind:     kindName(s.Kind),
		Solid:    s.Solid(),
	}
	for _, v := range s.Vertices {
		rec.Vertices = append(rec.Vertices, VertexRecord{X: v.X, Y: v.Y})
	}
	for _, wall := range s.Walls {
		rec.Walls = append(rec.Walls, WallRecord{
			Lower:     wall.Lower,
			Middle:    wall.Middle,
			Upper:     wall.Upper,
			SplitLow:  wall.SplitLow,
			SplitHigh: wall.SplitHigh,
		})
	}
	return rec
}
