// Package texture loads the tile set the render backends sample from.
// Tiles are QOI images named by their decimal tile id (e.g. 0042.qoi);
// the wall and flat texture ids in the map file index into this table.
// Pixel access stays with the backends, this package only decodes.
package texture

import (
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xfmoulet/qoi"

	"github.com/duskforge/grimwall/logger"
)

// Table maps tile ids to decoded images.
type Table struct {
	tiles map[int32]image.Image
}

// Get returns the tile image for an id, or nil when the id is unknown.
// Backends treat nil as "draw the missing-texture placeholder".
func (t *Table) Get(id int32) image.Image {
	return t.tiles[id]
}

// Len returns the number of loaded tiles.
func (t *Table) Len() int {
	return len(t.tiles)
}

// LoadDir reads every *.qoi file in dir whose name stem parses as a
// decimal tile id. Files that fail to parse or decode are skipped with a
// warning; a missing tile never aborts the load.
func LoadDir(dir string) (*Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	t := &Table{tiles: make(map[int32]image.Image)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".qoi") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		id, err := strconv.ParseInt(stem, 10, 32)
		if err != nil {
			logger.Log.WithField("file", entry.Name()).Warn("tile name is not a decimal id, skipping")
			continue
		}

		img, err := decode(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Log.WithField("file", entry.Name()).WithError(err).Warn("tile failed to decode, skipping")
			continue
		}
		t.tiles[int32(id)] = img
	}

	logger.Log.WithField("tiles", len(t.tiles)).Info("texture table loaded")
	return t, nil
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return qoi.Decode(f)
}
