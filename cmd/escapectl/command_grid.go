package main

import (
	"github.com/SallySoul/escape/internal/grid"
	"github.com/SallySoul/escape/internal/model"
	"github.com/spf13/cobra"
)

var gridSpec model.GridSpec

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Compare color powers per cutoff bucket for an existing histogram",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := flagCampaign(model.KindGrid, "grid")
		spec := gridSpec
		c.Grid = &spec
		return runCampaign(cmd.Context(), c, nil)
	},
}

func registerGridCommand(root *cobra.Command) {
	root.AddCommand(gridCmd)

	gridCmd.Flags().StringVar(&gridSpec.SampleConfig, "sample-config", "", "Sample config the histogram was produced with")
	gridCmd.Flags().StringVar(&gridSpec.Histogram, "histogram", "", "Histogram to redraw")
	gridCmd.Flags().Float64SliceVar(&gridSpec.Powers, "powers", nil, "Color powers to compare")
	gridCmd.Flags().StringVar(&gridSpec.PreviewSize, "preview-size", grid.DefaultPreviewSize, "Thumbnail geometry WxH")
	gridCmd.Flags().StringVar(&gridSpec.Report, "report", grid.DefaultReportName, "Report file name under the output root")
	gridCmd.MarkFlagRequired("sample-config")
	gridCmd.MarkFlagRequired("histogram")
	gridCmd.MarkFlagRequired("powers")
}
