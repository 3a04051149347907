package main

import (
	"fmt"
	"strings"

	"github.com/SallySoul/escape/internal/family"
	"github.com/SallySoul/escape/internal/model"
	"github.com/spf13/cobra"
)

var orbitSpec model.OrbitSpec

var orbitCmd = &cobra.Command{
	Use:   "orbit",
	Short: "Render an animation moving a family constant around a circle",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := flagCampaign(model.KindOrbit, "orbit")
		spec := orbitSpec
		c.Orbit = &spec
		return runCampaign(cmd.Context(), c, nil)
	},
}

func registerOrbitCommand(root *cobra.Command) {
	root.AddCommand(orbitCmd)

	orbitCmd.Flags().StringVar(&orbitSpec.Template, "template", "", "Base sample config")
	orbitCmd.Flags().StringVar(&orbitSpec.Color, "color", "", "Color config for every frame")
	orbitCmd.Flags().StringVar(&orbitSpec.Family, "family", "julia",
		fmt.Sprintf("Fractal family (%s)", strings.Join(family.Names(), ", ")))
	orbitCmd.Flags().Float64Var(&orbitSpec.Radius, "radius", 0, "Orbit radius (default depends on the family)")
	orbitCmd.Flags().IntVar(&orbitSpec.Frames, "frames", 0, "Number of frames")
	orbitCmd.Flags().BoolVar(&orbitSpec.Redraw, "redraw", false, "Redraw frames whose workspace already exists")
	registerGIFFlags(orbitCmd, &orbitSpec.GIF, "orbit.gif")
	orbitCmd.MarkFlagRequired("template")
	orbitCmd.MarkFlagRequired("color")
	orbitCmd.MarkFlagRequired("frames")
}
