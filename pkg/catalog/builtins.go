package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/polycube/pkg/block"
	"github.com/chazu/polycube/pkg/grid"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms catalog source before passing it to zygomys:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal), so
//     keywords never collide with user variables.
//  2. Kebab-case to underscore: light-blue -> light_blue. zygomys reads a
//     hyphen inside an identifier as subtraction.
//  3. ; line comments become // comments.
//
// String literals are left untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Double-quoted strings, honouring escapes.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Backtick strings.
		if b[i] == '`' {
			end := i + 1
			for end < len(b) && b[end] != '`' {
				end++
			}
			if end < len(b) {
				end++
			}
			result = append(result, b[i:end]...)
			i = end
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve :=.
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// A hyphen between identifier characters is part of the name, not
		// a minus operator.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW returns the keyword name if s is a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toInt extracts an integer. Floats are accepted when they are whole.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected integer, got %v", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a list or array to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toCell reads an [x y z] triple.
func toCell(s zygo.Sexp) (grid.Cell, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return grid.Cell{}, err
	}
	if len(items) != 3 {
		return grid.Cell{}, fmt.Errorf("expected [x y z], got %d values", len(items))
	}
	var xyz [3]int
	for i, item := range items {
		if xyz[i], err = toInt(item); err != nil {
			return grid.Cell{}, err
		}
	}
	return grid.Cell{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the catalog builtins. Shapes are appended to c
// as they are defined.
func registerBuiltins(env *zygo.Zlisp, c *Catalog) {
	names := make(map[string]bool)

	// (piece "name" :color "#rrggbb" :cells [[x y z] ...] :at [x y z])
	env.AddFunction("piece", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("piece requires a name argument")
		}
		pieceName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("piece: name: %w", err)
		}
		if names[pieceName] {
			return zygo.SexpNull, fmt.Errorf("piece: %q is already defined", pieceName)
		}

		s := Shape{ID: block.ID(len(c.Shapes)), Name: pieceName}

		if v, ok := pa.kw["color"]; ok {
			if s.Color, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("piece %q: color: %w", pieceName, err)
			}
		}

		v, ok := pa.kw["cells"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("piece %q: :cells is required", pieceName)
		}
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("piece %q: cells: %w", pieceName, err)
		}
		for i, item := range items {
			cell, err := toCell(item)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("piece %q: cell %d: %w", pieceName, i, err)
			}
			s.Cells = append(s.Cells, cell)
		}

		if v, ok := pa.kw["at"]; ok {
			if s.Position, err = toCell(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("piece %q: at: %w", pieceName, err)
			}
		}

		names[pieceName] = true
		c.Shapes = append(c.Shapes, s)
		return &zygo.SexpInt{Val: int64(s.ID)}, nil
	})
}
