package cmd

import (
	"math"
	"os"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/op"

	"github.com/duskforge/grimwall/config"
	"github.com/duskforge/grimwall/logger"
	"github.com/duskforge/grimwall/texture"
	"github.com/duskforge/grimwall/view"
	"github.com/duskforge/grimwall/world"
	"github.com/spf13/cobra"
)

var viewOpts struct {
	x, y, z float64
	angle   float64
	noCam   bool
}

var viewCmd = &cobra.Command{
	Use:   "view <map.yaml>",
	Short: "Open a top-down debug viewer for a map",
	Long: `Opens a window with a top-down rendering of the map. Sectors are
filled by kind, portal edges are drawn green and solid walls white.
Pan with the right mouse button, zoom with the wheel. Unless --no-camera
is given, a camera marker and its ray fan are drawn at the given position.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		w, err := loadWorld(args[0], cfg)
		if err != nil {
			return err
		}

		if tbl, err := texture.LoadDir(cfg.AssetsDir); err != nil {
			logger.Log.WithError(err).Warn("texture table unavailable")
		} else {
			reportMissingTiles(w, tbl)
		}

		var cam *world.Camera
		if !viewOpts.noCam {
			cam = &world.Camera{
				X:      viewOpts.x,
				Y:      viewOpts.y,
				Z:      viewOpts.z,
				Yaw:    viewOpts.angle * math.Pi / 180,
				Sector: world.NoSector,
			}
			cam.Sector = w.SectorAtZ(cam.Pos(), cam.Z)
			if cam.Sector == world.NoSector {
				logger.Log.WithField("x", cam.X).WithField("y", cam.Y).
					Warn("camera is outside the map, hiding it")
				cam = nil
			}
		}

		go func() {
			window := new(app.Window)
			window.Perform(system.ActionMaximize)
			if err := runViewer(window, w, cam); err != nil {
				logger.Log.WithError(err).Fatal("viewer")
			}
			os.Exit(0)
		}()
		app.Main()

		return nil
	},
}

// reportMissingTiles warns about tile ids the map references but the
// asset directory does not provide. Id 0 means "untextured".
func reportMissingTiles(w *world.World, tbl *texture.Table) {
	seen := map[int32]bool{}
	check := func(id int32) {
		if id != 0 && !seen[id] && tbl.Get(id) == nil {
			seen[id] = true
			logger.Log.WithField("tile", id).Warn("map references missing tile")
		}
	}
	for _, s := range w.Sectors() {
		check(s.FloorTex)
		check(s.CeilTex)
		for i := range s.Walls {
			check(s.Walls[i].Lower)
			check(s.Walls[i].Middle)
			check(s.Walls[i].Upper)
		}
	}
}

func runViewer(window *app.Window, w *world.World, cam *world.Camera) error {
	viewer := view.NewViewer(w, cam)

	var ops op.Ops
	for {
		switch e := window.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			viewer.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func init() {
	viewCmd.Flags().Float64Var(&viewOpts.x, "x", 0, "camera x")
	viewCmd.Flags().Float64Var(&viewOpts.y, "y", 0, "camera y")
	viewCmd.Flags().Float64Var(&viewOpts.z, "z", 0, "camera z (eye height)")
	viewCmd.Flags().Float64Var(&viewOpts.angle, "angle", 0, "view yaw in degrees")
	viewCmd.Flags().BoolVar(&viewOpts.noCam, "no-camera", false, "hide the camera overlay")
	rootCmd.AddCommand(viewCmd)
}
