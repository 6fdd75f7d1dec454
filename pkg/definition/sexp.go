package definition

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/chewxy/sexp"
)

// DecodeSexp reads every (nomogram ...) form of r:
//
//	; comments run to the end of the line
//	(nomogram
//	  (id bmi)
//	  (name "Body Mass Index (BMI)")
//	  (equation "BMI = Mass * Height^-2")
//	  (input1 (unit Kg) (range 20 150))
//	  (input2 (unit m) (range 1 2)))
//
// The keys are those of the TOML form.
func DecodeSexp(r io.Reader) ([]nomogram.Definition, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}
	src, err := prepareSexp(string(raw))
	if err != nil {
		return nil, err
	}
	forms, err := sexp.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	var defs []nomogram.Definition
	for _, form := range forms {
		if form == nil || form.IsLeaf() {
			continue
		}
		items := children(form)
		if len(items) == 0 || atom(items[0]) != "nomogram" {
			return nil, fmt.Errorf("%w: expected (nomogram ...), got %v", ErrSyntax, form)
		}
		f, err := fileFromSexp(items[1:])
		if err != nil {
			return nil, err
		}
		def, err := f.Definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no nomogram form", ErrSyntax)
	}
	return defs, nil
}

// prepareSexp makes src safe for the s-expression parser, which splits atoms
// on blanks and parentheses and knows neither strings nor comments. Blanks
// and parentheses inside a quoted string are written as \x escapes so that
// the string stays one atom; strconv.Unquote restores them. Comments are
// dropped, and unbalanced or empty lists are rejected here because the
// parser cannot report them.
func prepareSexp(src string) (string, error) {
	var (
		b        strings.Builder
		line     = 1
		depth    int
		empty    bool // nothing since the last "("
		inString bool
		escaped  bool
		comment  bool
	)
	hidden := func(r rune) bool {
		return r == '(' || r == ')' || unicode.IsSpace(r)
	}

	for _, r := range src {
		if r == '\n' {
			line++
		}
		switch {
		case comment:
			if r == '\n' {
				comment = false
				b.WriteRune(r)
			}
			continue
		case inString:
			switch {
			case escaped:
				escaped = false
				if hidden(r) {
					// the backslash is already written
					fmt.Fprintf(&b, "x%02x", r)
					continue
				}
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			case hidden(r):
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
			continue
		}

		switch {
		case r == ';':
			comment = true
			continue
		case r == '"':
			inString, empty = true, false
		case r == '(':
			depth++
			empty = true
		case r == ')':
			if depth == 0 {
				return "", fmt.Errorf("%w: unexpected ) on line %d", ErrSyntax, line)
			}
			if empty {
				return "", fmt.Errorf("%w: empty list on line %d", ErrSyntax, line)
			}
			depth--
		case !unicode.IsSpace(r):
			empty = false
		}
		b.WriteRune(r)
	}

	switch {
	case inString:
		return "", fmt.Errorf("%w: unterminated string", ErrSyntax)
	case depth > 0:
		return "", fmt.Errorf("%w: missing )", ErrSyntax)
	}
	return strings.TrimSpace(b.String()), nil
}

// children returns the elements of a list node, nil for an atom
func children(s sexp.Sexp) []sexp.Sexp {
	if l, ok := s.(sexp.List); ok {
		return l
	}
	return nil
}

// atom returns the text of a leaf, without quotes
func atom(s sexp.Sexp) string {
	if s == nil || !s.IsLeaf() {
		return ""
	}
	text := fmt.Sprint(s)
	if unquoted, err := strconv.Unquote(text); err == nil {
		return unquoted
	}
	return strings.Trim(text, `"`)
}

// entry splits (key v1 v2 ...) into its key and values
func entry(s sexp.Sexp) (string, []sexp.Sexp, error) {
	items := children(s)
	if len(items) == 0 || !items[0].IsLeaf() {
		return "", nil, fmt.Errorf("%w: expected (key value), got %v", ErrSyntax, s)
	}
	return atom(items[0]), items[1:], nil
}

func stringValue(key string, values []sexp.Sexp) (string, error) {
	if len(values) != 1 || !values[0].IsLeaf() {
		return "", fmt.Errorf("%w: (%s) takes one value", ErrSyntax, key)
	}
	return atom(values[0]), nil
}

func floatValues(key string, values []sexp.Sexp) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(atom(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: (%s) expects numbers: %v", ErrSyntax, key, err)
		}
		out[i] = f
	}
	return out, nil
}

func floatValue(key string, values []sexp.Sexp) (*float64, error) {
	fs, err := floatValues(key, values)
	if err != nil {
		return nil, err
	}
	if len(fs) != 1 {
		return nil, fmt.Errorf("%w: (%s) takes one number", ErrSyntax, key)
	}
	return &fs[0], nil
}

func fileFromSexp(items []sexp.Sexp) (File, error) {
	var f File
	for _, item := range items {
		key, values, err := entry(item)
		if err != nil {
			return f, err
		}

		switch key {
		case "id", "name", "label", "equation", "operation":
			s, err := stringValue(key, values)
			if err != nil {
				return f, err
			}
			switch key {
			case "id":
				f.ID = s
			case "name":
				f.Name = s
			case "label":
				f.Label = s
			case "equation":
				f.Equation = s
			case "operation":
				f.Operation = s
			}
		case "constant":
			if f.Constant, err = floatValue(key, values); err != nil {
				return f, err
			}
		case "input1", "input2", "output":
			v, err := variableFromSexp(key, values)
			if err != nil {
				return f, err
			}
			switch key {
			case "input1":
				f.Input1 = v
			case "input2":
				f.Input2 = v
			case "output":
				f.Output = v
			}
		default:
			return f, fmt.Errorf("%w: unknown key %q", ErrSyntax, key)
		}
	}
	return f, nil
}

func variableFromSexp(role string, items []sexp.Sexp) (Variable, error) {
	var v Variable
	for _, item := range items {
		key, values, err := entry(item)
		if err != nil {
			return v, err
		}
		switch key {
		case "name":
			v.Name, err = stringValue(key, values)
		case "unit":
			v.Unit, err = stringValue(key, values)
		case "factor":
			v.Factor, err = floatValue(key, values)
		case "exponent":
			v.Exponent, err = floatValue(key, values)
		case "range":
			v.Range, err = floatValues(key, values)
		default:
			err = fmt.Errorf("%w: unknown key %q in %s", ErrSyntax, key, role)
		}
		if err != nil {
			return v, err
		}
	}
	return v, nil
}
