// Package catalog loads the fixed set of polycube shapes a session starts
// with. Catalogs are small Lisp programs evaluated by zygomys in a fresh
// sandbox:
//
//	(def red "#e74c3c")
//	(piece "V" :color red :cells [[0 0 0] [1 0 0] [0 0 1]] :at [0 0 0])
//
// Ids are assigned in definition order starting at zero.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/graph"
	"github.com/chazu/polycube/pkg/grid"
	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"
)

//go:embed default.lisp
var defaultSource string

// DefaultSource returns the built-in catalog program.
func DefaultSource() string {
	return defaultSource
}

// Shape is one catalog entry.
type Shape struct {
	ID       block.ID    `json:"id"`
	Name     string      `json:"name"`
	Color    string      `json:"color"`
	Cells    []grid.Cell `json:"cells"`
	Position grid.Cell   `json:"position"`
}

// Catalog is an ordered list of shapes.
type Catalog struct {
	Shapes []Shape `json:"shapes"`
}

// Len returns the number of shapes.
func (c *Catalog) Len() int {
	return len(c.Shapes)
}

// Blocks instantiates one block per shape at its catalog position.
func (c *Catalog) Blocks() []*block.Block {
	out := make([]*block.Block, len(c.Shapes))
	for i, s := range c.Shapes {
		out[i] = block.New(s.ID, s.Name, s.Cells, s.Color, s.Position.Vec())
	}
	return out
}

// EvalError is a problem in user source: a parse error, a runtime error
// or a shape that failed validation.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Loader evaluates catalog sources. It is safe for concurrent use; each
// call to Evaluate creates a fresh sandboxed environment.
type Loader struct {
	log *zap.Logger

	mu         sync.Mutex
	generation uint64
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Evaluate runs source and returns the catalog it defines.
//
// Return semantics:
//   - On success: catalog + nil errors + nil error
//   - On parse, runtime or validation failure: nil + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): nil + nil + error
func (l *Loader) Evaluate(source string) (*Catalog, []EvalError, error) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := evaluate(source)
		ch <- evalResult{catalog: c, errors: evalErrs, err: err}
	}()

	c, evalErrs, err := waitWithTimeout(ch, gen, &l.mu, &l.generation)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: %w", err)
	}
	if len(evalErrs) > 0 {
		return nil, evalErrs, nil
	}

	res := graph.ValidateAll(c.Blocks())
	for _, w := range res.Warnings {
		l.log.Warn("catalog shape warning",
			zap.Int("id", int(w.BlockID)),
			zap.String("warning", w.Message))
	}
	if !res.OK() {
		for _, e := range res.Errors {
			evalErrs = append(evalErrs, EvalError{Message: e.Error()})
		}
		return nil, evalErrs, nil
	}

	l.log.Info("catalog loaded", zap.Int("shapes", c.Len()))
	return c, nil, nil
}

// LoadFile evaluates the catalog stored at path. Eval errors are joined
// into the returned error.
func (l *Loader) LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return l.load(string(data), path)
}

// Default evaluates the built-in catalog.
func (l *Loader) Default() (*Catalog, error) {
	return l.load(defaultSource, "default catalog")
}

func (l *Loader) load(source, origin string) (*Catalog, error) {
	c, evalErrs, err := l.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("catalog: %s: %s", origin, strings.Join(msgs, "; "))
	}
	return c, nil
}

// evaluate performs the zygomys evaluation in a fresh sandbox.
func evaluate(source string) (*Catalog, []EvalError, error) {
	c := &Catalog{}

	// Empty source is a valid program that defines no shapes.
	if strings.TrimSpace(source) == "" {
		return c, nil, nil
	}

	// Sandbox mode prevents user code from touching the filesystem or
	// making syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, c)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return c, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalErrors, extracting
// the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
