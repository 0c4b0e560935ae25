package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/scribe/internal/contract"
	"github.com/roach88/scribe/internal/host"
	"github.com/roach88/scribe/internal/store"
)

// NewQueryCommand creates the query command group for read-only
// operations.
func NewQueryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a read-only operation",
	}

	cmd.AddCommand(newQueryConfigCommand(opts))
	cmd.AddCommand(newQueryMessageCommand(opts))
	cmd.AddCommand(newQueryMessagesCommand(opts))
	cmd.AddCommand(newQueryRunsCommand(opts))
	cmd.AddCommand(newQueryGasCommand(opts))

	return cmd
}

// runQuery opens the database, runs one query, and formats the answer
// with the given text renderer.
func runQuery(cmd *cobra.Command, opts *RootOptions, msg contract.QueryMsg, render func(any) string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	h := host.New(contract.New(st))
	answer, err := h.Query(cmd.Context(), msg)
	if err != nil {
		formatter.Error(contractErrorCode(err), err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	if opts.Format == "json" {
		return formatter.Success(answer)
	}
	return formatter.Success(render(answer))
}

func newQueryConfigCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the owner configuration and run counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, contract.QueryMsg{GetConfig: &contract.GetConfigMsg{}}, func(v any) string {
				cfg := v.(contract.ConfigResponse)
				lines := []string{
					fmt.Sprintf("owner:             %s", cfg.Owner),
					fmt.Sprintf("test_count:        %d", cfg.TestCount),
					fmt.Sprintf("finality_enabled:  %t", cfg.FinalityEnabled),
				}
				if cfg.LastTest != nil {
					lines = append(lines, fmt.Sprintf("last_test:         %d", *cfg.LastTest))
				}
				if cfg.FinalityProvider != "" {
					lines = append(lines, fmt.Sprintf("finality_provider: %s", cfg.FinalityProvider))
				}
				return strings.Join(lines, "\n")
			})
		},
	}
}

func newQueryMessageCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "message <id>",
		Short: "Show one message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := contract.QueryMsg{GetMessage: &contract.GetMessageMsg{ID: args[0]}}
			return runQuery(cmd, opts, msg, func(v any) string {
				return renderMessage(v.(contract.MessageResponse))
			})
		},
	}
}

func newQueryMessagesCommand(opts *RootOptions) *cobra.Command {
	var (
		startAfter string
		limit      uint32
	)

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List messages ascending by id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := contract.QueryMsg{ListMessages: &contract.ListMessagesMsg{
				StartAfter: startAfter,
				Limit:      limit,
			}}
			return runQuery(cmd, opts, msg, func(v any) string {
				list := v.(contract.ListMessagesResponse)
				if list.Count == 0 {
					return "no messages"
				}
				lines := make([]string, len(list.Messages))
				for i, m := range list.Messages {
					lines[i] = renderMessage(m)
				}
				return strings.Join(lines, "\n")
			})
		},
	}

	cmd.Flags().StringVar(&startAfter, "start-after", "", "exclusive id cursor")
	cmd.Flags().Uint32Var(&limit, "limit", 0, "page size (0 = default)")

	return cmd
}

func newQueryRunsCommand(opts *RootOptions) *cobra.Command {
	var (
		startAfter string
		limit      uint32
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List test runs descending by run id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := contract.QueryMsg{GetTestRuns: &contract.GetTestRunsMsg{
				StartAfter: startAfter,
				Limit:      limit,
			}}
			return runQuery(cmd, opts, msg, func(v any) string {
				runs := v.(contract.TestRunsResponse).Runs
				if len(runs) == 0 {
					return "no test runs"
				}
				lines := make([]string, len(runs))
				for i, r := range runs {
					lines[i] = fmt.Sprintf("%s  time=%d messages=%d gas=%d gas/byte=%d chain=%s txs=%d",
						r.RunID, r.Time, r.MessageCount, r.TotalGas, r.AvgGasPerByte, r.ChainID, r.TxCount)
				}
				return strings.Join(lines, "\n")
			})
		},
	}

	cmd.Flags().StringVar(&startAfter, "start-after", "", "exclusive id cursor")
	cmd.Flags().Uint32Var(&limit, "limit", 0, "page size (0 = default)")

	return cmd
}

func newQueryGasCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gas",
		Short: "Show the gas summary over all test runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := contract.QueryMsg{GetGasSummary: &contract.GetGasSummaryMsg{}}
			return runQuery(cmd, opts, msg, func(v any) string {
				s := v.(contract.GasSummaryResponse)
				return strings.Join([]string{
					fmt.Sprintf("messages:     %d", s.MsgCount),
					fmt.Sprintf("total_gas:    %d", s.TotalGas),
					fmt.Sprintf("avg_gas:      %d", s.AvgGas),
					fmt.Sprintf("total_bytes:  %d", s.TotalBytes),
					fmt.Sprintf("gas_per_byte: %d", s.GasPerByte),
				}, "\n")
			})
		},
	}
}

func renderMessage(m contract.MessageResponse) string {
	finality := "pending"
	if m.Finality.Finalized {
		finality = "finalized"
	}
	return fmt.Sprintf("%s  len=%d time=%d %s %q", m.ID, m.Length, m.Time, finality, m.Content)
}
