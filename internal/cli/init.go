package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/scribe/internal/contract"
	"github.com/roach88/scribe/internal/host"
	"github.com/roach88/scribe/internal/store"
)

// NewInitCommand creates the init command: one-time database setup.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new database",
		Long: "Creates the database and writes the owner configuration.\n" +
			"The owner comes from the config file, or from --sender when the\n" +
			"config does not name one. Initializing twice fails.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			msg, err := LoadInstantiateConfig(configPath)
			if err != nil {
				var cfgErr *ConfigError
				if errors.As(err, &cfgErr) {
					formatter.Error(cfgErr.Code, cfgErr.Message, nil)
					return NewExitError(ExitCommandError, cfgErr.Message)
				}
				return WrapExitError(ExitCommandError, "loading config", err)
			}

			if msg.Owner == "" && opts.Sender == "" {
				formatter.Error(ErrCodeConfigInvalid, "no owner: set owner in the config or pass --sender", nil)
				return NewExitError(ExitCommandError, "no owner configured")
			}

			st, err := store.Open(opts.DBPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening database", err)
			}
			defer st.Close()

			h := host.New(contract.New(st))
			resp, err := h.Instantiate(cmd.Context(), opts.Sender, msg)
			if err != nil {
				formatter.Error(contractErrorCode(err), err.Error(), nil)
				return NewExitError(ExitFailure, err.Error())
			}

			formatter.VerboseLog("database initialized at %s", opts.DBPath)
			return formatter.Success(renderResponse(opts.Format, resp))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "CUE config file for the instantiation")

	return cmd
}

// renderResponse shapes a contract response for output: the raw struct
// for JSON, a compact attribute line for text.
func renderResponse(format string, resp *contract.Response) any {
	if format == "json" {
		return resp
	}
	parts := make([]string, len(resp.Attributes))
	for i, a := range resp.Attributes {
		parts[i] = fmt.Sprintf("%s=%s", a.Key, a.Value)
	}
	return strings.Join(parts, " ")
}

// contractErrorCode extracts the contract error code for output, with a
// generic fallback for storage errors.
func contractErrorCode(err error) string {
	if code := contract.CodeOf(err); code != "" {
		return string(code)
	}
	return "INTERNAL"
}
