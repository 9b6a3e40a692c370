package client

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewStreamCommand constructs the `stream` command group and subcommands.
func NewStreamCommand(baseURL BaseURLFunc) *cobra.Command {
	streamCmd := &cobra.Command{Use: "stream", Short: "Payment stream operations"}

	streamCmd.AddCommand(
		newStreamCreateCommand(baseURL),
		newStreamListCommand(baseURL),
		newStreamStateCommand(baseURL),
		newStreamWithdrawCommand(baseURL),
		newStreamPauseCommand(baseURL),
		newStreamResumeCommand(baseURL),
		newStreamCancelCommand(baseURL),
	)

	return streamCmd
}

// newStreamCreateCommand constructs the `stream create` subcommand.
func newStreamCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a payment stream and escrow the deposit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sender, _ := cmd.Flags().GetString("sender")
			recipient, _ := cmd.Flags().GetString("recipient")
			deposit, _ := cmd.Flags().GetInt64("deposit")
			rate, _ := cmd.Flags().GetInt64("rate")
			cliff, _ := cmd.Flags().GetUint64("cliff")
			end, _ := cmd.Flags().GetUint64("end")

			caller := callerFrom(cmd)
			if caller == "" {
				caller = sender
			}
			body := map[string]any{
				"sender":          sender,
				"recipient":       recipient,
				"deposit_amount":  deposit,
				"rate_per_second": rate,
				"cliff_time":      cliff,
				"end_time":        end,
			}
			var resp map[string]any
			if err := postJSON(cmd.Context(), baseURL()+"/v1/streams/create", caller, body, &resp); err != nil {
				return err
			}
			printJSON(cmd, resp)
			return nil
		},
	}
	createCmd.Flags().String("sender", "", "Sender address")
	createCmd.Flags().String("recipient", "", "Recipient address")
	createCmd.Flags().Int64("deposit", 0, "Deposit amount to escrow")
	createCmd.Flags().Int64("rate", 0, "Vesting rate per second")
	createCmd.Flags().Uint64("cliff", 0, "Cliff time (unix seconds)")
	createCmd.Flags().Uint64("end", 0, "End time (unix seconds)")
	createCmd.Flags().String("caller", "", "Acting address (default VESTFLOW_CALLER, then --sender)")
	return createCmd
}

// newStreamListCommand constructs the `stream list` subcommand.
func newStreamListCommand(baseURL BaseURLFunc) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List streams, optionally filtered by a CEL expression",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, _ := cmd.Flags().GetString("filter")
			u := baseURL() + "/v1/streams"
			if filter != "" {
				u += "?filter=" + url.QueryEscape(filter)
			}
			var resp map[string]any
			if err := getJSON(cmd.Context(), u, &resp); err != nil {
				return err
			}
			printJSON(cmd, resp)
			return nil
		},
	}
	listCmd.Flags().String("filter", "", `CEL filter, e.g. status == "active" && deposit >= 1000`)
	return listCmd
}

// newStreamStateCommand constructs the `stream state` subcommand.
func newStreamStateCommand(baseURL BaseURLFunc) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Show a stream with vested and withdrawable amounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetUint64("id")
			var resp map[string]any
			if err := getJSON(cmd.Context(), fmt.Sprintf("%s/v1/streams/state?id=%d", baseURL(), id), &resp); err != nil {
				return err
			}
			printJSON(cmd, resp)
			return nil
		},
	}
	stateCmd.Flags().Uint64("id", 0, "Stream id")
	return stateCmd
}

// newStreamWithdrawCommand constructs the `stream withdraw` subcommand.
func newStreamWithdrawCommand(baseURL BaseURLFunc) *cobra.Command {
	return newLifecycleCommand(baseURL, "withdraw", "Withdraw all vested funds to the recipient", true)
}

// newStreamPauseCommand constructs the `stream pause` subcommand.
func newStreamPauseCommand(baseURL BaseURLFunc) *cobra.Command {
	return newLifecycleCommand(baseURL, "pause", "Pause vesting on an active stream", false)
}

// newStreamResumeCommand constructs the `stream resume` subcommand.
func newStreamResumeCommand(baseURL BaseURLFunc) *cobra.Command {
	return newLifecycleCommand(baseURL, "resume", "Resume vesting on a paused stream", false)
}

// newStreamCancelCommand constructs the `stream cancel` subcommand.
func newStreamCancelCommand(baseURL BaseURLFunc) *cobra.Command {
	return newLifecycleCommand(baseURL, "cancel", "Cancel a stream and settle both parties", true)
}

// newLifecycleCommand builds one of the POST-by-id stream subcommands.
// Commands with a response body print it; the rest print an ok status.
func newLifecycleCommand(baseURL BaseURLFunc, verb, short string, hasBody bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   verb,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetUint64("id")
			body := map[string]uint64{"id": id}
			u := baseURL() + "/v1/streams/" + verb
			if hasBody {
				var resp map[string]any
				if err := postJSON(cmd.Context(), u, callerFrom(cmd), body, &resp); err != nil {
					return err
				}
				printJSON(cmd, resp)
				return nil
			}
			if err := postJSON(cmd.Context(), u, callerFrom(cmd), body, nil); err != nil {
				return err
			}
			printJSON(cmd, map[string]string{"status": "ok"})
			return nil
		},
	}
	cmd.Flags().Uint64("id", 0, "Stream id")
	cmd.Flags().String("caller", "", "Acting address (default VESTFLOW_CALLER)")
	return cmd
}
