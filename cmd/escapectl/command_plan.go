package main

import (
	"fmt"

	"github.com/SallySoul/escape/internal/pipeline"
	"github.com/SallySoul/escape/internal/render"
	"github.com/SallySoul/escape/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	planFile string
	viewPlan bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Enumerate a campaign file without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generatePlan(cmd)
	},
}

func registerPlanCommand(root *cobra.Command) {
	root.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&campaignFile, "file", "f", "campaign.yaml", "Campaign file (yaml, json or toml)")
	planCmd.Flags().StringVarP(&planFile, "plan-file", "p", "", "Write the plan to this file (json or yaml)")
	planCmd.Flags().BoolVar(&viewPlan, "view", false, "Print the plan as a tree")
}

func generatePlan(cmd *cobra.Command) error {
	c, l, err := loadCampaignFile(cmd, campaignFile)
	if err != nil {
		return err
	}

	fmt.Println("□ Enumerating jobs...")
	plan, err := pipeline.Plan(c, deps(l))
	if err != nil {
		return err
	}
	fmt.Printf("✓ Plan generated with %d jobs\n", len(plan.Jobs))

	if planFile != "" {
		if err := render.NewRenderer(workspace.NewDirStore(c.Output)).WritePlan(plan, planFile); err != nil {
			return fmt.Errorf("failed to write plan: %w", err)
		}
		fmt.Printf("✓ Saved to: %s\n", planFile)
	}

	if viewPlan || planFile == "" {
		fmt.Println("\n" + render.NewPlanViewer(plan).View())
	}
	return nil
}
