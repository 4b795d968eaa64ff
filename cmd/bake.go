package cmd

import (
	"fmt"

	"github.com/duskforge/grimwall/config"
	"github.com/duskforge/grimwall/vis"
	"github.com/duskforge/grimwall/world"
	"github.com/spf13/cobra"
)

var bakeCmd = &cobra.Command{
	Use:   "bake <map.yaml>",
	Short: "Bake the static sector visibility table",
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

		m := vis.Bake(w, cfg.BakeDepth)

		total := 0
		for _, s := range w.Sectors() {
			n := m.VisibleCount(s.ID)
			total += n
			fmt.Printf("sector %3d (%s, depth %d): sees %d\n", s.ID, s.Kind, s.Depth, n)
		}
		fmt.Printf("%d sectors, %d portals, %d visible pairs\n",
			w.NumSectors(), w.NumPortals(), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bakeCmd)
}

// loadWorld reads a map file and rebuilds its derived state with the
// configured weld epsilon.
func loadWorld(path string, cfg *config.Config) (*world.World, error) {
	mf, err := world.LoadMapFile(path)
	if err != nil {
		return nil, err
	}
	return mf.Build(cfg.WeldEpsilon), nil
}
