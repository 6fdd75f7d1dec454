package definition

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
	"github.com/alecthomas/participle/v2"
)

// Errors returned while reading definitions
var (
	ErrSyntax      = errors.New("definition: syntax error")
	ErrUnsupported = errors.New("definition: equation has no nomogram")
	ErrNotFound    = errors.New("definition: no such nomogram")
)

var equationParser = participle.MustBuild[Equation](
	participle.Lexer(EquationLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseEquation reads an equation and returns the matching definition
// without ranges. Three shapes are recognised:
//
//	fC·C = fA·A + fB·B + k       addition, constants may sit on either side
//	fC·C^eC = k·A^eA·B^eB        multiplication, "/" gives negative exponents
//	X^2 + B·X + C = 0            second degree
//
// Variables are assigned to input1 and input2 in reading order.
func ParseEquation(src string) (nomogram.Definition, error) {
	eq, err := equationParser.ParseString("", src)
	if err != nil {
		return nomogram.Definition{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	left, err := eq.Left.monomials()
	if err != nil {
		return nomogram.Definition{}, err
	}
	right, err := eq.Right.monomials()
	if err != nil {
		return nomogram.Definition{}, err
	}

	def, err := classify(left, right)
	if err != nil {
		return nomogram.Definition{}, fmt.Errorf("%q: %w", src, err)
	}
	def.Kind = nomogram.Custom
	def.Name = strings.Join(strings.Fields(src), " ")
	return def, nil
}

// variable is one variable raised to a power inside a monomial
type variable struct {
	name string
	exp  float64
}

// monomial is coef·v1^e1·v2^e2…
type monomial struct {
	coef float64
	vars []variable
}

func (m monomial) isConstant() bool { return len(m.vars) == 0 }

func (m *monomial) mul(name string, exp float64) {
	for i := range m.vars {
		if m.vars[i].name == name {
			m.vars[i].exp += exp
			if m.vars[i].exp == 0 {
				m.vars = append(m.vars[:i], m.vars[i+1:]...)
			}
			return
		}
	}
	m.vars = append(m.vars, variable{name: name, exp: exp})
}

func (e *Expr) monomials() ([]monomial, error) {
	head, err := e.Head.monomial()
	if err != nil {
		return nil, err
	}
	if e.Neg {
		head.coef = -head.coef
	}
	out := []monomial{head}
	for _, s := range e.Tail {
		m, err := s.Term.monomial()
		if err != nil {
			return nil, err
		}
		if s.Op != "+" {
			m.coef = -m.coef
		}
		out = append(out, m)
	}
	return out, nil
}

func (t *Term) monomial() (monomial, error) {
	m := monomial{coef: 1}
	if err := t.Head.apply(&m, 1); err != nil {
		return m, err
	}
	for _, p := range t.Tail {
		sign := 1.0
		if p.Op == "/" {
			sign = -1
		}
		if err := p.Factor.apply(&m, sign); err != nil {
			return m, err
		}
	}
	return m, nil
}

// apply multiplies m by the factor, raised to sign·power
func (f *Factor) apply(m *monomial, sign float64) error {
	exp := 1.0
	if f.Power != nil {
		var err error
		if exp, err = f.Power.value(); err != nil {
			return fmt.Errorf("%s: %w", f.Pos, err)
		}
	}
	exp *= sign

	switch {
	case f.Number != nil:
		m.coef *= math.Pow(*f.Number, exp)
	case *f.Ident == "pi" || *f.Ident == "π":
		m.coef *= math.Pow(math.Pi, exp)
	default:
		m.mul(*f.Ident, exp)
	}
	return nil
}

var superscriptDigits = strings.NewReplacer(
	"⁻", "-", "⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
)

func (p *Power) value() (float64, error) {
	if p.Super != "" {
		v, err := strconv.ParseFloat(superscriptDigits.Replace(p.Super), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: exponent %q", ErrSyntax, p.Super)
		}
		return v, nil
	}
	if p.Neg {
		return -*p.Value, nil
	}
	return *p.Value, nil
}

// split separates the variable monomials from the summed constants
func split(ms []monomial) (vars []monomial, constant float64) {
	for _, m := range ms {
		if m.isConstant() {
			constant += m.coef
		} else {
			vars = append(vars, m)
		}
	}
	return vars, constant
}

// single reports whether m is coef·v^e for one variable
func single(m monomial) bool { return len(m.vars) == 1 }

func classify(left, right []monomial) (nomogram.Definition, error) {
	lv, lk := split(left)
	rv, rk := split(right)

	switch {
	case len(rv) == 0 && rk == 0:
		return quadratic(lv, lk)
	case len(lv) == 0 && lk == 0:
		return quadratic(rv, rk)
	}

	outVars, outK, inVars, inK := lv, lk, rv, rk
	if !(len(lv) == 1 && single(lv[0])) {
		outVars, outK, inVars, inK = rv, rk, lv, lk
	}
	if len(outVars) != 1 || !single(outVars[0]) {
		return nomogram.Definition{}, fmt.Errorf("%w: one side must hold the output variable alone", ErrUnsupported)
	}
	out := outVars[0]
	output := nomogram.Initializer{Name: out.vars[0].name, Factor: out.coef, Exponent: out.vars[0].exp}

	// k·A^eA·B^eB
	if len(inVars) == 1 && len(inVars[0].vars) == 2 && inK == 0 && outK == 0 {
		m := inVars[0]
		a, b := m.vars[0], m.vars[1]
		if a.name == output.Name || b.name == output.Name {
			return nomogram.Definition{}, fmt.Errorf("%w: %s appears on both sides", ErrUnsupported, output.Name)
		}
		return nomogram.Definition{
			Op:       nomogram.Multiplication,
			Input1:   nomogram.Initializer{Name: a.name, Factor: 1, Exponent: a.exp},
			Input2:   nomogram.Initializer{Name: b.name, Factor: 1, Exponent: b.exp},
			Output:   output,
			Constant: m.coef,
		}, nil
	}

	// fA·A + fB·B + k
	if len(inVars) == 2 && single(inVars[0]) && single(inVars[1]) {
		a, b := inVars[0], inVars[1]
		if a.vars[0].exp != 1 || b.vars[0].exp != 1 || output.Exponent != 1 {
			return nomogram.Definition{}, fmt.Errorf("%w: sums take variables to the first power", ErrUnsupported)
		}
		names := map[string]bool{output.Name: true}
		for _, v := range []string{a.vars[0].name, b.vars[0].name} {
			if names[v] {
				return nomogram.Definition{}, fmt.Errorf("%w: %s appears twice", ErrUnsupported, v)
			}
			names[v] = true
		}
		return nomogram.Definition{
			Op:       nomogram.Addition,
			Input1:   nomogram.Initializer{Name: a.vars[0].name, Factor: a.coef, Exponent: 1},
			Input2:   nomogram.Initializer{Name: b.vars[0].name, Factor: b.coef, Exponent: 1},
			Output:   output,
			Constant: inK - outK,
		}, nil
	}

	return nomogram.Definition{}, fmt.Errorf("%w: expected a sum or a product of two variables", ErrUnsupported)
}

// quadratic recognises X^2 + B·X + C with unit coefficients
func quadratic(ms []monomial, k float64) (nomogram.Definition, error) {
	fail := fmt.Errorf("%w: expected X^2 + B*X + C = 0", ErrUnsupported)
	if len(ms) != 3 || k != 0 {
		return nomogram.Definition{}, fail
	}
	var x, b, c string
	for _, m := range ms {
		if m.coef != 1 {
			return nomogram.Definition{}, fail
		}
		if single(m) && m.vars[0].exp == 2 {
			x = m.vars[0].name
		}
	}
	if x == "" {
		return nomogram.Definition{}, fail
	}
	for _, m := range ms {
		switch {
		case single(m) && m.vars[0].exp == 1:
			c = m.vars[0].name
		case len(m.vars) == 2 && m.vars[0].exp == 1 && m.vars[1].exp == 1:
			switch x {
			case m.vars[0].name:
				b = m.vars[1].name
			case m.vars[1].name:
				b = m.vars[0].name
			}
		}
	}
	if b == "" || c == "" || b == c || c == x {
		return nomogram.Definition{}, fail
	}
	return nomogram.Definition{
		Op:     nomogram.SecondDegree,
		Input1: nomogram.Initializer{Name: c, Factor: 1, Exponent: 1},
		Input2: nomogram.Initializer{Name: b, Factor: 1, Exponent: 1},
		Output: nomogram.Initializer{Name: x, Factor: 1, Exponent: 1},
	}, nil
}
