// Package fasta reads nucleotide sequences from FASTA files.
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// maxLine allows very long single-line sequences.
const maxLine = 64 * 1024 * 1024

// Record is one FASTA entry.
type Record struct {
	ID          string
	Description string
	Seq         []byte
}

// String returns the sequence as a string.
func (r Record) String() string {
	return string(r.Seq)
}

// Read scans FASTA from r and calls emit once per record, in file order.
// Sequence lines are concatenated with surrounding whitespace removed; blank
// lines and ';' comment lines are skipped. Bases are passed through
// unchanged, so case and foreign symbols reach the engines as written.
//
// Cancellation via ctx is checked between lines. emit may return an error
// to stop early; that error is returned as is.
func Read(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		cur    *Record
		lineNo int
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		rec := *cur
		cur = nil
		return emit(rec)
	}

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id, desc := parseHeader(line[1:])
			if id == "" {
				return fmt.Errorf("fasta: line %d: empty record ID", lineNo)
			}
			cur = &Record{ID: id, Description: desc}
			continue
		}
		if cur == nil {
			return fmt.Errorf("fasta: line %d: sequence data before first header", lineNo)
		}
		cur.Seq = append(cur.Seq, line...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// ReadPath opens path (see Open) and reads it with Read.
func ReadPath(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return Read(ctx, rc, emit)
}

// ReadAll collects every record in path.
func ReadAll(ctx context.Context, path string) ([]Record, error) {
	var out []Record
	err := ReadPath(ctx, path, func(r Record) error {
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// parseHeader splits a header line into the ID (first whitespace-delimited
// token) and the free-text description that follows it.
func parseHeader(h []byte) (id, desc string) {
	h = bytes.TrimSpace(h)
	if i := bytes.IndexAny(h, " \t"); i >= 0 {
		return string(h[:i]), string(bytes.TrimSpace(h[i+1:]))
	}
	return string(h), ""
}
