// Package library loads named motif definitions from CUE files.
//
// A library is a directory of .cue files belonging to one package. Each
// motif sits under the top-level "motif" struct:
//
//	package motifs
//
//	motif: tata_box: {
//		automaton:   "ENFA"
//		pattern:     "TATA{1,10}TATA"
//		description: "TATA box pair around a short spacer"
//		scenario:    "scenarios/tata_box.yaml"
//	}
//
//	motif: ecori: {
//		automaton:  "PDA"
//		min_length: 6
//	}
//
// Fields:
//
//   - automaton (required): a variant tag or alias accepted by
//     automaton.ParseKind.
//   - pattern: the construction pattern; required except for palindromes.
//   - min_length: palindrome minimum window length.
//   - description: free text shown by the CLI.
//   - scenario: harness scenario exercising the motif, relative to the
//     library directory.
//
// Loading checks every motif by constructing its engine once.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/motifsim/internal/automaton"
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Error codes shared with the CLI.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed

	ErrCodeMissingAutomaton = "E101" // automaton field absent
	ErrCodeUnsupportedKind  = "E102" // automaton tag not recognized
	ErrCodeMissingPattern   = "E103" // pattern absent for a literal-based variant
	ErrCodeInvalidType      = "E104" // field has the wrong CUE type
	ErrCodeInvalidPattern   = "E105" // engine rejected the pattern
	ErrCodeNoMotifs         = "E106" // library defines no motifs
)

// Motif is one named library entry.
type Motif struct {
	Name        string         `json:"name"`
	Kind        automaton.Kind `json:"automaton"`
	Pattern     string         `json:"pattern"`
	MinLength   int            `json:"min_length,omitempty"`
	Description string         `json:"description,omitempty"`
	Scenario    string         `json:"scenario,omitempty"`

	Pos token.Pos `json:"-"`
}

// Build constructs a fresh engine for the motif.
func (m Motif) Build() (automaton.Automaton, error) {
	var opts []automaton.Option
	if m.MinLength > 0 {
		opts = append(opts, automaton.WithMinLength(m.MinLength))
	}
	a, err := automaton.New(m.Kind, m.Pattern, opts...)
	if err != nil {
		return nil, fmt.Errorf("motif %s: %w", m.Name, err)
	}
	return a, nil
}

// Library is a loaded motif collection.
type Library struct {
	Dir       string
	Motifs    []Motif   // sorted by name
	FileCount int       // number of CUE files found
	Value     cue.Value // the raw CUE value
}

// Lookup returns the motif called name.
func (l *Library) Lookup(name string) (Motif, bool) {
	i, ok := slices.BinarySearchFunc(l.Motifs, name, func(m Motif, n string) int {
		return strings.Compare(m.Name, n)
	})
	if !ok {
		return Motif{}, false
	}
	return l.Motifs[i], true
}

// Names lists motif names in order.
func (l *Library) Names() []string {
	out := make([]string, len(l.Motifs))
	for i, m := range l.Motifs {
		out[i] = m.Name
	}
	return out
}

// LoadError is a loading failure with a stable code and, when CUE provides
// one, a source position.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads every CUE file in dir and compiles its motifs.
//
// A nil Library means nothing usable was loaded (missing directory, no
// files, CUE syntax errors). Otherwise the Library holds every motif that
// compiled and the returned errors describe the rest; with
// LoadModeFailFast at most one error is returned.
func Load(dir string, mode LoadMode) (*Library, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("library directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing library directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{wrapCUEError(ErrCodeBuildFailed, err)}
	}

	lib := &Library{
		Dir:       dir,
		Value:     value,
		FileCount: len(cueFiles),
	}

	var errs []error
	motifs := value.LookupPath(cue.ParsePath("motif"))
	if motifs.Exists() {
		iter, err := motifs.Fields()
		if err != nil {
			return lib, []error{wrapCUEError(ErrCodeInvalidType, err)}
		}
		for iter.Next() {
			m, err := CompileMotif(iter.Label(), iter.Value())
			if err != nil {
				errs = append(errs, err)
				if mode == LoadModeFailFast {
					return lib, errs
				}
				continue
			}
			lib.Motifs = append(lib.Motifs, *m)
		}
	}

	slices.SortFunc(lib.Motifs, func(a, b Motif) int {
		return strings.Compare(a.Name, b.Name)
	})

	if len(lib.Motifs) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoMotifs, Message: "no motifs found in library"})
	}
	return lib, errs
}

// FindCUEFiles walks dir and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
