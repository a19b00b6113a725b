package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func addConfigCommand(root *cobra.Command, _ *app) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the tinyjwt config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "tinyjwt.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := writeConfig(path, DefaultFileConfig(), force); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	configCmd.AddCommand(initCmd)
	root.AddCommand(configCmd)
}

func addLintCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report configuration problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.buildManager(cmd.Context())
			if err != nil {
				return err
			}
			ws := m.Lint()
			for _, w := range ws {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", w.Code, w.Message); err != nil {
					return err
				}
			}
			if len(ws) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			}
			return err
		},
	}
	root.AddCommand(cmd)
}
