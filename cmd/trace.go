package cmd

import (
	"fmt"
	"math"

	"github.com/duskforge/grimwall/collide"
	"github.com/duskforge/grimwall/config"
	"github.com/duskforge/grimwall/trace"
	"github.com/duskforge/grimwall/world"
	"github.com/spf13/cobra"
)

var traceOpts struct {
	x, y, z  float64
	angle    float64
	fov      float64
	columns  int
	toX, toY float64
}

var traceCmd = &cobra.Command{
	Use:   "trace <map.yaml>",
	Short: "Cast a ray fan through the portal graph and print the hits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		w, err := loadWorld(args[0], cfg)
		if err != nil {
			return err
		}

		cam := &world.Camera{
			X:      traceOpts.x,
			Y:      traceOpts.y,
			Z:      traceOpts.z,
			Yaw:    traceOpts.angle * math.Pi / 180,
			Sector: world.NoSector,
		}
		cam.Sector = w.SectorAtZ(cam.Pos(), cam.Z)
		if cam.Sector == world.NoSector {
			return fmt.Errorf("camera (%.1f, %.1f, %.1f) is outside the map",
				cam.X, cam.Y, cam.Z)
		}
		fmt.Printf("camera in sector %d\n", cam.Sector)

		if cmd.Flags().Changed("to-x") || cmd.Flags().Changed("to-y") {
			params := collide.Params{
				StepHeight:   cfg.StepHeight,
				PlayerHeight: cfg.PlayerHeight,
			}
			res := collide.TryMove(w, cam.X, cam.Y, cam.Z, traceOpts.toX, traceOpts.toY, params)
			if res.Allowed {
				fmt.Printf("move to (%.1f, %.1f): allowed, sector %d, floor %.1f\n",
					traceOpts.toX, traceOpts.toY, res.Sector, res.FloorZ)
			} else {
				fmt.Printf("move to (%.1f, %.1f): blocked (%s)\n",
					traceOpts.toX, traceOpts.toY, res.Reason)
			}
		}

		fov := traceOpts.fov * math.Pi / 180
		cols := traceOpts.columns
		if cols < 1 {
			cols = 1
		}
		for c := 0; c < cols; c++ {
			angle := cam.Yaw
			if cols > 1 {
				angle += fov * (float64(c)/float64(cols-1) - 0.5)
			}
			hits := trace.CastRay(w, cam, angle)
			fmt.Printf("column %3d (%.1f deg): %d hits\n",
				c, angle*180/math.Pi, len(hits))
			for _, h := range hits {
				tag := "wall"
				if h.Portal != world.NoPortal {
					tag = fmt.Sprintf("portal %d", h.Portal)
				}
				fmt.Printf("    %-10s sector %3d  dist %8.2f  corrected %8.2f  at (%.1f, %.1f)\n",
					tag, h.Sector, h.Dist, h.CorrectedDist, h.Point.X, h.Point.Y)
			}
		}
		return nil
	},
}

func init() {
	traceCmd.Flags().Float64Var(&traceOpts.x, "x", 0, "camera x")
	traceCmd.Flags().Float64Var(&traceOpts.y, "y", 0, "camera y")
	traceCmd.Flags().Float64Var(&traceOpts.z, "z", 0, "camera z (eye height)")
	traceCmd.Flags().Float64Var(&traceOpts.angle, "angle", 0, "view yaw in degrees")
	traceCmd.Flags().Float64Var(&traceOpts.fov, "fov", 90, "field of view in degrees")
	traceCmd.Flags().IntVar(&traceOpts.columns, "columns", 1, "number of rays across the fov")
	traceCmd.Flags().Float64Var(&traceOpts.toX, "to-x", 0, "also test a move to this x")
	traceCmd.Flags().Float64Var(&traceOpts.toY, "to-y", 0, "also test a move to this y")
	rootCmd.AddCommand(traceCmd)
}
