// Package definition reads nomogram definitions from equations, TOML files
// and s-expression files.
package definition

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
)

// Variable is the on-disk form of one variable
type Variable struct {
	Name     string    `toml:"name,omitempty"`
	Unit     string    `toml:"unit,omitempty"`
	Factor   *float64  `toml:"factor,omitempty"`
	Exponent *float64  `toml:"exponent,omitempty"`
	Range    []float64 `toml:"range,omitempty"`
}

// File is the on-disk form of a definition, shared by every file format.
//
// Either Equation or Operation is required. With an equation the variable
// tables only need ranges and units; names, factors and exponents come from
// the equation unless given again.
type File struct {
	ID        string   `toml:"id,omitempty"`
	Name      string   `toml:"name,omitempty"`
	Label     string   `toml:"label,omitempty"`
	Equation  string   `toml:"equation,omitempty"`
	Operation string   `toml:"operation,omitempty"`
	Constant  *float64 `toml:"constant,omitempty"`

	Input1 Variable `toml:"input1"`
	Input2 Variable `toml:"input2"`
	Output Variable `toml:"output"`
}

// Definition converts f and validates the result
func (f File) Definition() (nomogram.Definition, error) {
	var def nomogram.Definition

	if f.Equation != "" {
		var err error
		if def, err = ParseEquation(f.Equation); err != nil {
			return def, err
		}
		if f.Operation != "" {
			op, err := nomogram.ParseOperationType(f.Operation)
			if err != nil {
				return def, err
			}
			if op != def.Op {
				return def, fmt.Errorf("%w: operation %s does not match equation %q",
					nomogram.ErrInvalidDefinition, f.Operation, f.Equation)
			}
		}
	} else {
		if f.Operation == "" {
			return def, fmt.Errorf("%w: need an equation or an operation", nomogram.ErrInvalidDefinition)
		}
		op, err := nomogram.ParseOperationType(f.Operation)
		if err != nil {
			return def, err
		}
		def.Op = op
		def.Kind = nomogram.Custom
		for _, init := range []*nomogram.Initializer{&def.Input1, &def.Input2, &def.Output} {
			init.Factor, init.Exponent = 1, 1
		}
		if op == nomogram.Multiplication {
			def.Constant = 1
		}
	}

	for _, v := range []struct {
		role string
		init *nomogram.Initializer
		file Variable
	}{
		{"input1", &def.Input1, f.Input1},
		{"input2", &def.Input2, f.Input2},
		{"output", &def.Output, f.Output},
	} {
		if err := v.file.merge(v.init, v.role, f.Equation != ""); err != nil {
			return def, err
		}
	}

	if f.Constant != nil {
		def.Constant = *f.Constant
	}
	if f.Name != "" {
		def.Name = f.Name
	}
	def.Label = f.Label
	def.ID = f.ID
	if def.ID == "" {
		def.ID = slug(def.Name)
	}
	if def.Name == "" {
		def.Name = def.ID
	}

	if err := def.Validate(); err != nil {
		return def, fmt.Errorf("%s: %w", def.Name, err)
	}
	return def, nil
}

func (v Variable) merge(init *nomogram.Initializer, role string, fromEquation bool) error {
	if v.Name != "" {
		if fromEquation && init.Name != v.Name {
			return fmt.Errorf("%w: %s is %s in the equation, not %s",
				nomogram.ErrInvalidDefinition, role, init.Name, v.Name)
		}
		init.Name = v.Name
	}
	if init.Name == "" {
		return fmt.Errorf("%w: %s has no name", nomogram.ErrInvalidDefinition, role)
	}
	init.Unit = v.Unit
	if v.Factor != nil {
		init.Factor = *v.Factor
	}
	if v.Exponent != nil {
		init.Exponent = *v.Exponent
	}
	switch len(v.Range) {
	case 0:
	case 2:
		init.Range = &nomogram.Range{Start: v.Range[0], End: v.Range[1]}
	default:
		return fmt.Errorf("%w: %s range needs a start and an end, got %d values",
			nomogram.ErrInvalidDefinition, role, len(v.Range))
	}
	return nil
}

// FromDefinition returns the explicit on-disk form of d
func FromDefinition(d nomogram.Definition) File {
	variable := func(init nomogram.Initializer) Variable {
		factor, exponent := init.Factor, init.Exponent
		v := Variable{Name: init.Name, Unit: init.Unit, Factor: &factor, Exponent: &exponent}
		if init.Range != nil {
			v.Range = []float64{init.Range.Start, init.Range.End}
		}
		return v
	}
	k := d.Constant
	return File{
		ID:        d.ID,
		Name:      d.Name,
		Label:     d.Label,
		Operation: d.Op.String(),
		Constant:  &k,
		Input1:    variable(d.Input1),
		Input2:    variable(d.Input2),
		Output:    variable(d.Output),
	}
}

// slug turns a name into a lower case identifier
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
