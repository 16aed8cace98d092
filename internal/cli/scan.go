package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/motifsim/internal/alphabet"
	"github.com/roach88/motifsim/internal/automaton"
	"github.com/roach88/motifsim/internal/fasta"
)

// ScanOptions holds flags for the scan command.
type ScanOptions struct {
	*RootOptions
	Engine   EngineOptions
	Sequence string // literal sequence
	FASTA    string // FASTA path, "-" for stdin
	Random   int    // length of a generated sequence
	Seed     uint64 // seed for --random
}

// MatchResult is one reported window.
type MatchResult struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// RecordResult holds the matches found in one input sequence.
type RecordResult struct {
	ID      string        `json:"id"`
	Length  int           `json:"length"`
	Matches []MatchResult `json:"matches"`
}

// ScanResult holds the scan output for all inputs.
type ScanResult struct {
	Kind         automaton.Kind `json:"kind"`
	Pattern      string         `json:"pattern"`
	Records      []RecordResult `json:"records"`
	TotalMatches int            `json:"total_matches"`
}

// NewScanCommand creates the scan command.
func NewScanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find every motif occurrence in a sequence",
		Long: `Scan one or more sequences and report every matching window.

Windows are 0-based and inclusive at both ends. Overlapping occurrences
are all reported, sorted by start then end.

Exactly one input is required: --sequence, --fasta or --random.

Examples:
  motifsim scan --type DFA --pattern ATG --sequence CATGATG
  motifsim scan --type gap --pattern "TATA{1,10}TATA" --fasta promoters.fa
  motifsim scan --type PDA --min-length 6 --random 10000 --seed 7
  motifsim scan --library ./motifs --motif tata_box --fasta - < reads.fa`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(opts, cmd)
		},
	}

	addEngineFlags(cmd, &opts.Engine)
	cmd.Flags().StringVarP(&opts.Sequence, "sequence", "s", "", "sequence to scan")
	cmd.Flags().StringVar(&opts.FASTA, "fasta", "", "FASTA file to scan (gzip ok, - for stdin)")
	cmd.Flags().IntVar(&opts.Random, "random", 0, "scan a random sequence of this length")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for --random (default: time-based)")

	return cmd
}

func runScan(opts *ScanOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.Random < 0 {
		return f.Fail(ExitCommandError, ErrCodeInvalidFlags, "--random must be positive", nil)
	}

	sources := 0
	for _, set := range []bool{cmd.Flags().Changed("sequence"), opts.FASTA != "", opts.Random > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return f.Fail(ExitCommandError, ErrCodeInvalidFlags, "exactly one of --sequence, --fasta or --random is required", nil)
	}

	a, err := buildEngine(&opts.Engine, f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := ScanResult{
		Kind:    a.Kind(),
		Pattern: a.Pattern(),
		Records: []RecordResult{},
	}
	scanOne := func(id, seq string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := scanRecord(a, id, seq)
		result.TotalMatches += len(rec.Matches)
		result.Records = append(result.Records, rec)
		slog.Debug("sequence scanned", "id", id, "length", len(seq), "matches", len(rec.Matches))
		return nil
	}

	switch {
	case opts.FASTA != "":
		err = fasta.ReadPath(ctx, opts.FASTA, func(r fasta.Record) error {
			return scanOne(r.ID, r.String())
		})
	case opts.Random > 0:
		seed := opts.Seed
		if !cmd.Flags().Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}
		f.VerboseLog("Random sequence: %d bp, seed %d", opts.Random, seed)
		seq := alphabet.RandomSequence(alphabet.NewSource(seed), opts.Random)
		err = scanOne(fmt.Sprintf("random(seed=%d)", seed), seq)
	default:
		err = scanOne("sequence", opts.Sequence)
	}
	if err != nil {
		if ctx.Err() != nil {
			return WrapExitError(ExitFailure, "scan interrupted", err)
		}
		return f.Fail(ExitCommandError, ErrCodeInputFailed, "failed to read sequence input", err)
	}

	return f.Render(result, func(w io.Writer) error {
		return writeScanText(w, result)
	})
}

// scanRecord runs one full scan and attaches the matched text.
func scanRecord(a automaton.Automaton, id, seq string) RecordResult {
	matches := a.FindAllMatches(seq)
	rec := RecordResult{
		ID:      id,
		Length:  len(seq),
		Matches: make([]MatchResult, len(matches)),
	}
	for i, m := range matches {
		rec.Matches[i] = MatchResult{Start: m.Start, End: m.End, Text: seq[m.Start : m.End+1]}
	}
	return rec
}

func writeScanText(w io.Writer, result ScanResult) error {
	fmt.Fprintf(w, "%s %s\n", result.Kind, result.Pattern)
	for _, rec := range result.Records {
		fmt.Fprintf(w, "\n%s (%d bp): %d match(es)\n", rec.ID, rec.Length, len(rec.Matches))
		for _, m := range rec.Matches {
			fmt.Fprintf(w, "  %d-%d  %s\n", m.Start, m.End, m.Text)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d match(es) in %d sequence(s)\n", result.TotalMatches, len(result.Records))
	return nil
}
