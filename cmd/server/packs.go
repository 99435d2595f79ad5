package main

import (
	"fmt"

	"quiz-master-backend/internal/config"
	"quiz-master-backend/internal/packs"

	"github.com/spf13/cobra"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "Work with question packs",
}

var packsValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check every pack in a directory",
	Long: `Loads every .yaml and .yml pack in dir and reports the first problem found.
Without dir the QUESTION_PACKS_DIR setting is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		} else {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dir = cfg.QuestionPacksDir
		}
		if dir == "" {
			return fmt.Errorf("no packs directory given and QUESTION_PACKS_DIR is not set")
		}

		lib, err := packs.Load(dir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, s := range lib.Summaries() {
			fmt.Fprintf(out, "%-20s %3d questions  %s\n", s.Name, s.QuestionCount, s.Title)
		}
		fmt.Fprintf(out, "%d packs OK\n", lib.Len())
		return nil
	},
}

func init() {
	packsCmd.AddCommand(packsValidateCmd)
}
