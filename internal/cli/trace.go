package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/motifsim/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Engine   EngineOptions
	Sequence string
	RunID    string // optional - pin the run ID instead of generating a UUIDv7
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Trace       *trace.Trace `json:"trace"`
	Fingerprint string       `json:"fingerprint"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Narrate a scan one base at a time",
		Long: `Record a step-by-step trace of an engine scanning a sequence.

Each step shows the symbol read, the configuration before and after it,
and a narration of what happened. The trace is named by a run ID
(UUIDv7 unless --run-id is given) and identified by a content
fingerprint that ignores the run ID.

Examples:
  motifsim trace --type DFA --pattern ATG --sequence CATGATG
  motifsim trace --type NFA --pattern "TAA|TAG|TGA" --sequence ATGTAA --format json
  motifsim trace --library ./motifs --motif ecori_site --sequence GAATTC`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	addEngineFlags(cmd, &opts.Engine)
	cmd.Flags().StringVarP(&opts.Sequence, "sequence", "s", "", "sequence to trace (required)")
	_ = cmd.MarkFlagRequired("sequence")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "run ID to record instead of a generated UUIDv7")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	a, err := buildEngine(&opts.Engine, f)
	if err != nil {
		return err
	}

	var runIDs trace.RunIDGenerator = trace.UUIDv7Generator{}
	if opts.RunID != "" {
		runIDs = trace.StaticRunID(opts.RunID)
	}
	rec := trace.NewRecorder(
		trace.WithRunIDs(runIDs),
		trace.WithLogger(slog.Default()),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tr, err := rec.Record(ctx, a, opts.Sequence)
	if err != nil {
		return WrapExitError(ExitFailure, "trace interrupted", err)
	}
	fp, err := trace.Fingerprint(tr)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to fingerprint trace", err)
	}

	result := TraceResult{Trace: tr, Fingerprint: fp}
	return f.Render(result, func(w io.Writer) error {
		return writeTraceText(w, result)
	})
}

func writeTraceText(w io.Writer, result TraceResult) error {
	tr := result.Trace
	fmt.Fprintf(w, "Run:      %s\n", tr.RunID)
	fmt.Fprintf(w, "Engine:   %s %s\n", tr.Kind, tr.Pattern)
	fmt.Fprintf(w, "Sequence: %s\n\n", tr.Sequence)

	for _, ev := range tr.Events {
		fmt.Fprintf(w, "[%d] %s\n", ev.Index, ev.Description)
	}

	parts := make([]string, len(tr.Matches))
	for i, m := range tr.Matches {
		parts[i] = m.String()
	}
	if len(parts) == 0 {
		parts = append(parts, "none")
	}
	fmt.Fprintf(w, "\nFinal:       %s\n", tr.Final)
	fmt.Fprintf(w, "Matches:     %s\n", strings.Join(parts, " "))
	fmt.Fprintf(w, "Fingerprint: %s\n", result.Fingerprint)
	return nil
}
