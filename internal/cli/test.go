package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/scribe/internal/harness"
)

// scenarioOutcome is the per-file result reported by the test command.
type scenarioOutcome struct {
	File   string   `json:"file"`
	Name   string   `json:"name,omitempty"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// testSummary is the aggregate result of a test command run.
type testSummary struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Outcomes []scenarioOutcome `json:"outcomes"`
}

// NewTestCommand creates the test command: run conformance scenarios.
func NewTestCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test <scenario.yaml>...",
		Short: "Run conformance scenarios",
		Long: "Runs each scenario file against a fresh in-memory database and\n" +
			"reports pass/fail per file. Exits nonzero when any scenario fails.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			summary := testSummary{Total: len(args)}
			for _, path := range args {
				outcome := runScenarioFile(path)
				if outcome.Pass {
					summary.Passed++
				} else {
					summary.Failed++
				}
				summary.Outcomes = append(summary.Outcomes, outcome)
				formatter.VerboseLog("%s: pass=%t", path, outcome.Pass)
			}

			if opts.Format == "json" {
				if err := formatter.Success(summary); err != nil {
					return err
				}
			} else {
				for _, o := range summary.Outcomes {
					status := "PASS"
					if !o.Pass {
						status = "FAIL"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", status, o.File)
					for _, e := range o.Errors {
						fmt.Fprintf(cmd.OutOrStdout(), "      %s\n", e)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d scenarios: %d passed, %d failed\n",
					summary.Total, summary.Passed, summary.Failed)
			}

			if summary.Failed > 0 {
				return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", summary.Failed, summary.Total))
			}
			return nil
		},
	}
}

// runScenarioFile loads and executes one scenario file. Load and run
// failures are folded into the outcome rather than aborting the batch.
func runScenarioFile(path string) scenarioOutcome {
	outcome := scenarioOutcome{File: path}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		outcome.Errors = append(outcome.Errors, err.Error())
		return outcome
	}
	outcome.Name = scenario.Name

	result, err := harness.Run(scenario)
	if err != nil {
		outcome.Errors = append(outcome.Errors, err.Error())
		return outcome
	}

	outcome.Pass = result.Pass
	outcome.Errors = append(outcome.Errors, result.Errors...)
	return outcome
}
