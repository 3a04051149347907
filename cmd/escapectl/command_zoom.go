package main

import (
	"github.com/SallySoul/escape/internal/model"
	"github.com/spf13/cobra"
)

var zoomSpec model.ZoomSpec

var zoomCmd = &cobra.Command{
	Use:   "zoom",
	Short: "Render an eased zoom animation",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := flagCampaign(model.KindZoom, "zoom")
		spec := zoomSpec
		c.Zoom = &spec
		return runCampaign(cmd.Context(), c, nil)
	},
}

func registerZoomCommand(root *cobra.Command) {
	root.AddCommand(zoomCmd)

	zoomCmd.Flags().StringVar(&zoomSpec.Template, "template", "", "Base sample config")
	zoomCmd.Flags().StringVar(&zoomSpec.Color, "color", "", "Color config for every frame")
	zoomCmd.Flags().Float64Var(&zoomSpec.Start, "start", 1, "Zoom reached at the last frame")
	zoomCmd.Flags().Float64Var(&zoomSpec.End, "end", 1, "Zoom at the first frame")
	zoomCmd.Flags().IntVar(&zoomSpec.Frames, "frames", 0, "Number of frames")
	zoomCmd.Flags().BoolVar(&zoomSpec.Redraw, "redraw", false, "Redraw frames whose workspace already exists")
	registerGIFFlags(zoomCmd, &zoomSpec.GIF, "zoom.gif")
	zoomCmd.MarkFlagRequired("template")
	zoomCmd.MarkFlagRequired("color")
	zoomCmd.MarkFlagRequired("frames")
}

func registerGIFFlags(cmd *cobra.Command, gif *model.GIFSpec, name string) {
	cmd.Flags().StringVar(&gif.Name, "gif", name, "Animation file name under the output root")
	cmd.Flags().IntVar(&gif.Delay, "delay", 4, "Delay between frames in hundredths of a second")
	cmd.Flags().IntVar(&gif.Loop, "loop", 0, "Loop count, 0 loops forever")
	cmd.Flags().BoolVar(&gif.Reverse, "reverse", false, "Play the frames back in reverse after the forward pass")
	cmd.Flags().Float64Var(&gif.Rotate, "rotate", 0, "Rotate the animation by this many degrees")
}
