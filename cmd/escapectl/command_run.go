package main

import "github.com/spf13/cobra"

var campaignFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a campaign file",
	Long:  "Execute every job of a YAML, JSON or TOML campaign file, skipping jobs whose workspace already exists, then assemble its artifact.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, l, err := loadCampaignFile(cmd, campaignFile)
		if err != nil {
			return err
		}
		return runCampaign(cmd.Context(), c, l)
	},
}

func registerRunCommand(root *cobra.Command) {
	root.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&campaignFile, "file", "f", "campaign.yaml", "Campaign file (yaml, json or toml)")
}
