package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the VestFlow client.
// It registers the stream and token command groups plus the init command.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "vestflow",
		Short: "VestFlow client commands",
	}
	root.AddCommand(NewInitCommand(baseURL))
	root.AddCommand(NewConfigCommand(baseURL))
	root.AddCommand(NewStreamCommand(baseURL))
	root.AddCommand(NewTokenCommand(baseURL))
	return root
}

// NewInitCommand constructs the one-time `init` command.
func NewInitCommand(baseURL BaseURLFunc) *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the engine with a token address and admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, _ := cmd.Flags().GetString("token")
			admin, _ := cmd.Flags().GetString("admin")
			body := map[string]string{"token": token, "admin": admin}
			if err := postJSON(cmd.Context(), baseURL()+"/v1/init", "", body, nil); err != nil {
				return err
			}
			printJSON(cmd, map[string]string{"status": "initialized"})
			return nil
		},
	}
	initCmd.Flags().String("token", "", "Token service address")
	initCmd.Flags().String("admin", "", "Administrator address")
	return initCmd
}

// NewConfigCommand constructs the `config` command.
func NewConfigCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the engine configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg map[string]any
			if err := getJSON(cmd.Context(), baseURL()+"/v1/config", &cfg); err != nil {
				return err
			}
			printJSON(cmd, cfg)
			return nil
		},
	}
}
