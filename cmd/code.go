package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var codeFallback bool

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Print only the next version code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compute(cfg, codeFallback)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Code)
		return nil
	},
}

func init() {
	codeCmd.Flags().BoolVar(&codeFallback, "fallback-code", false, "print 0 instead of failing when the version cannot be encoded")
	rootCmd.AddCommand(codeCmd)
}
