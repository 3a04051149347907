package main

import (
	"fmt"

	"github.com/SallySoul/escape/internal/pipeline"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a campaign file and every input it references",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateFiles(cmd)
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&campaignFile, "file", "f", "campaign.yaml", "Campaign file (yaml, json or toml)")
}

func validateFiles(cmd *cobra.Command) error {
	c, l, err := loadCampaignFile(cmd, campaignFile)
	if err != nil {
		return err
	}
	fmt.Println("✓ Campaign file is valid")

	fmt.Println("□ Checking inputs...")
	if err := pipeline.Validate(c, deps(l)); err != nil {
		return err
	}
	fmt.Println("✓ All validation passed")
	return nil
}
