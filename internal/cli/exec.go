package cli

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/scribe/internal/canon"
	"github.com/roach88/scribe/internal/contract"
	"github.com/roach88/scribe/internal/host"
	"github.com/roach88/scribe/internal/store"
)

// NewExecCommand creates the exec command group for mutating operations.
func NewExecCommand(opts *RootOptions) *cobra.Command {
	var height uint64

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Run a mutating operation",
		Long: "Runs one mutating call against the database. Message ids derive\n" +
			"from the call height; pass --height for a specific id, otherwise\n" +
			"the current unix time is used.",
	}

	cmd.PersistentFlags().Uint64Var(&height, "height", 0, "logical height for id derivation (default: unix time)")

	cmd.AddCommand(newExecStoreCommand(opts, &height))
	cmd.AddCommand(newExecStoreFixedCommand(opts, &height))
	cmd.AddCommand(newExecDeleteCommand(opts, &height))
	cmd.AddCommand(newExecRecordRunCommand(opts, &height))
	cmd.AddCommand(newExecClearCommand(opts, &height))
	cmd.AddCommand(newExecUpdateFinalityCommand(opts, &height))

	return cmd
}

// runExec opens the database and runs one sequenced call at the chosen
// height, formatting the outcome.
func runExec(cmd *cobra.Command, opts *RootOptions, height uint64, msg contract.ExecuteMsg) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if height == 0 {
		height = uint64(time.Now().Unix())
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	h := host.New(contract.New(st), host.WithClock(host.NewHeightClockAt(height-1)))

	resp, err := h.Execute(cmd.Context(), opts.Sender, msg)
	if err != nil {
		formatter.Error(contractErrorCode(err), err.Error(), nil)
		return NewExitError(ExitFailure, err.Error())
	}

	formatter.VerboseLog("call committed at height %d", height)
	return formatter.Success(renderResponse(opts.Format, resp))
}

func newExecStoreCommand(opts *RootOptions, height *uint64) *cobra.Command {
	return &cobra.Command{
		Use:   "store <content>",
		Short: "Store a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, opts, *height, contract.ExecuteMsg{
				StoreMessage: &contract.StoreMessageMsg{Content: args[0]},
			})
		},
	}
}

func newExecStoreFixedCommand(opts *RootOptions, height *uint64) *cobra.Command {
	var length uint64

	cmd := &cobra.Command{
		Use:   "store-fixed <content>",
		Short: "Store a message normalized to a fixed character length",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, opts, *height, contract.ExecuteMsg{
				StoreFixedLength: &contract.StoreFixedLengthMsg{
					Content:      args[0],
					TargetLength: length,
				},
			})
		},
	}

	cmd.Flags().Uint64Var(&length, "length", 0, "target length in characters")
	cmd.MarkFlagRequired("length")

	return cmd
}

func newExecDeleteCommand(opts *RootOptions, height *uint64) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a message (owner only, idempotent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, opts, *height, contract.ExecuteMsg{
				DeleteMessage: &contract.DeleteMessageMsg{ID: args[0]},
			})
		},
	}
}

func newExecRecordRunCommand(opts *RootOptions, height *uint64) *cobra.Command {
	var msg contract.RecordTestRunMsg

	cmd := &cobra.Command{
		Use:   "record-run",
		Short: "Record test-run statistics (owner only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, opts, *height, contract.ExecuteMsg{
				RecordTestRun: &msg,
			})
		},
	}

	cmd.Flags().StringVar(&msg.RunID, "run-id", "", "run identifier")
	cmd.Flags().Uint64Var(&msg.MessageCount, "messages", 0, "number of messages in the run")
	cmd.Flags().Uint64Var(&msg.TotalGas, "gas", 0, "total gas consumed")
	cmd.Flags().Uint64Var(&msg.AvgGasPerByte, "gas-per-byte", 0, "average gas per byte")
	cmd.Flags().StringVar(&msg.ChainID, "chain-id", "", "chain identifier")
	cmd.Flags().StringVar(&msg.TxProof, "tx-proof", "", "comma-joined transaction references")
	cmd.MarkFlagRequired("run-id")
	cmd.MarkFlagRequired("chain-id")

	return cmd
}

func newExecClearCommand(opts *RootOptions, height *uint64) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all messages and test runs (owner only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, opts, *height, contract.ExecuteMsg{
				ClearData: &contract.ClearDataMsg{},
			})
		},
	}
}

func newExecUpdateFinalityCommand(opts *RootOptions, height *uint64) *cobra.Command {
	var dataHash string

	cmd := &cobra.Command{
		Use:   "update-finality <id>",
		Short: "Refresh a message's finality status",
		Long: "Refreshes a message's finality status via the certifying lookup.\n" +
			"When --data-hash is omitted, the hash is computed from the stored\n" +
			"message content.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := dataHash
			if hash == "" {
				var err error
				hash, err = storedContentHash(cmd.Context(), opts.DBPath, args[0])
				if err != nil {
					return err
				}
			}
			return runExec(cmd, opts, *height, contract.ExecuteMsg{
				UpdateFinalityStatus: &contract.UpdateFinalityStatusMsg{
					ID:       args[0],
					DataHash: hash,
				},
			})
		},
	}

	cmd.Flags().StringVar(&dataHash, "data-hash", "", "content hash to check (default: derived from stored content)")

	return cmd
}

// storedContentHash computes the canonical content hash of an already
// stored message.
func storedContentHash(ctx context.Context, dbPath, id string) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "opening database", err)
	}
	defer st.Close()

	m, err := st.Message(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", NewExitError(ExitFailure, "message not found: "+id)
		}
		return "", WrapExitError(ExitCommandError, "reading message", err)
	}

	hash, err := canon.MessageHash(m.Content)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "hashing content", err)
	}
	return hash, nil
}
