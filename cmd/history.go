package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/saltyorg/git-semver/internal/ledger"
	"github.com/saltyorg/git-semver/internal/report"
	"github.com/saltyorg/git-semver/internal/repository"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show versions recorded in the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := repository.Open(repoPath, cfg.TagPrefix)
		if err != nil {
			return err
		}
		root := repo.Root()
		if root == "" {
			root, _ = filepath.Abs(repoPath)
		}

		store, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), root, historyLimit)
		if err != nil {
			return err
		}

		report.New(cmd.OutOrStdout()).History(entries)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
