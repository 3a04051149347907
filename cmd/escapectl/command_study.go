package main

import (
	"github.com/SallySoul/escape/internal/model"
	"github.com/spf13/cobra"
)

var studySpec model.StudySpec

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Sample every combination of sample count, cutoff, view and switch probability",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := flagCampaign(model.KindStudy, "study")
		spec := studySpec
		c.Study = &spec
		return runCampaign(cmd.Context(), c, nil)
	},
}

func registerStudyCommand(root *cobra.Command) {
	root.AddCommand(studyCmd)

	studyCmd.Flags().StringVar(&studySpec.Views, "views", "", "JSON file listing view presets")
	studyCmd.Flags().StringVar(&studySpec.Template, "template", "", "Base sample config (optional)")
	studyCmd.Flags().IntSliceVar(&studySpec.Samples, "samples", nil, "Sample counts")
	studyCmd.Flags().IntSliceVar(&studySpec.Cutoffs, "cutoffs", nil, "Cutoffs, one per job")
	studyCmd.Flags().Float64SliceVar(&studySpec.SwitchProbs, "switch-probs", nil, "Random sample probabilities (optional)")
	studyCmd.Flags().IntVar(&studySpec.Width, "width", 0, "Image width in pixels")
	studyCmd.Flags().IntVar(&studySpec.Height, "height", 0, "Image height in pixels")
	studyCmd.MarkFlagRequired("views")
	studyCmd.MarkFlagRequired("samples")
	studyCmd.MarkFlagRequired("cutoffs")
}
