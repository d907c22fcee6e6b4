package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/trjrender/internal/codec"
	"github.com/san-kum/trjrender/internal/geom"
	"github.com/san-kum/trjrender/internal/viz"
)

var (
	dataDir   string
	themeName string
	debug     bool
	logFile   string

	configFile string
	preset     string
	rotX       float64
	rotY       float64
	rotZ       float64
	scale      float64
	autoFit    float64
	radii      []string
	types      []int
	lower      [3]float64
	upper      [3]float64
	noBox      bool
	background string
	boxColor   string

	outDir   string
	prefix   string
	format   string
	frameIdx int
	workers  int
)

// main registers the trjrender commands and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "trjrender",
		Short:        "render particle trajectories to images",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".trjrender", "data directory for run records")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name,
		fmt.Sprintf("terminal color theme %v", viz.ThemeNames()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")

	renderCmd := &cobra.Command{
		Use:   "render [trajectory]",
		Short: "render every frame of a trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}
	addViewFlags(renderCmd)
	addFilterFlags(renderCmd)
	renderCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	renderCmd.Flags().StringArrayVar(&radii, "radius", nil, "particle radius per type, as type=radius (repeatable)")
	renderCmd.Flags().BoolVar(&noBox, "no-box", false, "do not draw the bounding box")
	renderCmd.Flags().StringVar(&background, "background", "", "background color (hex)")
	renderCmd.Flags().StringVar(&boxColor, "box-color", "", "bounding box color (hex)")
	renderCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	renderCmd.Flags().StringVar(&prefix, "prefix", "", "output file prefix")
	renderCmd.Flags().StringVarP(&format, "format", "f", "", fmt.Sprintf("image format %v", codec.Formats()))
	renderCmd.Flags().IntVar(&frameIdx, "frame", -1, "render only this frame index (-1 for all)")
	renderCmd.Flags().IntVarP(&workers, "workers", "j", 1, "frames rendered in parallel")

	infoCmd := &cobra.Command{
		Use:   "info [trajectory]",
		Short: "summarize a trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo,
	}
	addViewFlags(infoCmd)

	statsCmd := &cobra.Command{
		Use:   "stats [trajectory]",
		Short: "plot particle counts per frame",
		Args:  cobra.ExactArgs(1),
		RunE:  showStats,
	}
	addFilterFlags(statsCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list view presets",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list render runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and frames as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(renderCmd, infoCmd, statsCmd, presetsCmd, listCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "view preset")
	cmd.Flags().Float64Var(&rotX, "rx", 0, "rotation about x in degrees")
	cmd.Flags().Float64Var(&rotY, "ry", 0, "rotation about y in degrees")
	cmd.Flags().Float64Var(&rotZ, "rz", 0, "rotation about z in degrees")
	cmd.Flags().Float64Var(&scale, "scale", -1, "pixels per length unit (negative to auto-fit)")
	cmd.Flags().Float64Var(&autoFit, "auto-fit", 800, "larger canvas side in pixels when auto-fitting")
}

func addFilterFlags(cmd *cobra.Command) {
	for _, a := range geom.Axes {
		cmd.Flags().Float64Var(&lower[a], a.String()+"min", 0, fmt.Sprintf("draw only particles with %s above this", a))
		cmd.Flags().Float64Var(&upper[a], a.String()+"max", 0, fmt.Sprintf("draw only particles with %s below this", a))
	}
	cmd.Flags().IntSliceVar(&types, "types", nil, "draw only these particle types")
}
