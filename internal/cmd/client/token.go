package client

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewTokenCommand constructs the `token` command group and subcommands.
func NewTokenCommand(baseURL BaseURLFunc) *cobra.Command {
	tokenCmd := &cobra.Command{Use: "token", Short: "Token bank operations"}
	tokenCmd.AddCommand(
		newTokenMintCommand(baseURL),
		newTokenBalanceCommand(baseURL),
	)
	return tokenCmd
}

// newTokenMintCommand constructs the `token mint` subcommand.
func newTokenMintCommand(baseURL BaseURLFunc) *cobra.Command {
	mintCmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint tokens to an account (admin only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			to, _ := cmd.Flags().GetString("to")
			amount, _ := cmd.Flags().GetInt64("amount")
			body := map[string]any{"to": to, "amount": amount}
			if err := postJSON(cmd.Context(), baseURL()+"/v1/token/mint", callerFrom(cmd), body, nil); err != nil {
				return err
			}
			printJSON(cmd, map[string]string{"status": "ok"})
			return nil
		},
	}
	mintCmd.Flags().String("to", "", "Account to credit")
	mintCmd.Flags().Int64("amount", 0, "Amount to mint")
	mintCmd.Flags().String("caller", "", "Acting address (default VESTFLOW_CALLER)")
	return mintCmd
}

// newTokenBalanceCommand constructs the `token balance` subcommand.
func newTokenBalanceCommand(baseURL BaseURLFunc) *cobra.Command {
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Show an account balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			account, _ := cmd.Flags().GetString("account")
			u := fmt.Sprintf("%s/v1/token/balance?account=%s", baseURL(), url.QueryEscape(account))
			var resp map[string]any
			if err := getJSON(cmd.Context(), u, &resp); err != nil {
				return err
			}
			printJSON(cmd, resp)
			return nil
		},
	}
	balanceCmd.Flags().String("account", "", "Account address")
	return balanceCmd
}
