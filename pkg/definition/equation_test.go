package definition

import (
	"errors"
	"math"
	"testing"

	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
)

type variableWant struct {
	name             string
	factor, exponent float64
}

func checkInit(t *testing.T, role string, got nomogram.Initializer, want variableWant) {
	t.Helper()
	if got.Name != want.name || got.Factor != want.factor || got.Exponent != want.exponent {
		t.Errorf("%s = %v·%s^%v, want %v·%s^%v", role,
			got.Factor, got.Name, got.Exponent, want.factor, want.name, want.exponent)
	}
}

func TestParseEquation(t *testing.T) {
	tests := []struct {
		src      string
		op       nomogram.OperationType
		in1, in2 variableWant
		out      variableWant
		constant float64
	}{
		{"C = A + B", nomogram.Addition,
			variableWant{"A", 1, 1}, variableWant{"B", 1, 1}, variableWant{"C", 1, 1}, 0},
		{"C = 2A + 3B + 1", nomogram.Addition,
			variableWant{"A", 2, 1}, variableWant{"B", 3, 1}, variableWant{"C", 1, 1}, 1},
		{"2C - 4 = A - B", nomogram.Addition,
			variableWant{"A", 1, 1}, variableWant{"B", -1, 1}, variableWant{"C", 2, 1}, 4},
		{"A + 0.5*B + 1 = total", nomogram.Addition,
			variableWant{"A", 1, 1}, variableWant{"B", 0.5, 1}, variableWant{"total", 1, 1}, 1},
		{"BMI = Mass * Height^-2", nomogram.Multiplication,
			variableWant{"Mass", 1, 1}, variableWant{"Height", 1, -2}, variableWant{"BMI", 1, 1}, 1},
		{"BMI = Mass / Height²", nomogram.Multiplication,
			variableWant{"Mass", 1, 1}, variableWant{"Height", 1, -2}, variableWant{"BMI", 1, 1}, 1},
		{"3 P^2 = 6 U I", nomogram.Multiplication,
			variableWant{"U", 1, 1}, variableWant{"I", 1, 1}, variableWant{"P", 3, 2}, 6},
		{"X^2 + B*X + C = 0", nomogram.SecondDegree,
			variableWant{"C", 1, 1}, variableWant{"B", 1, 1}, variableWant{"X", 1, 1}, 0},
		{"0 = q + x² + p x", nomogram.SecondDegree,
			variableWant{"q", 1, 1}, variableWant{"p", 1, 1}, variableWant{"x", 1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			def, err := ParseEquation(tt.src)
			if err != nil {
				t.Fatalf("ParseEquation(%q) error: %v", tt.src, err)
			}
			if def.Op != tt.op {
				t.Errorf("Op = %v, want %v", def.Op, tt.op)
			}
			checkInit(t, "input1", def.Input1, tt.in1)
			checkInit(t, "input2", def.Input2, tt.in2)
			checkInit(t, "output", def.Output, tt.out)
			if def.Constant != tt.constant {
				t.Errorf("Constant = %v, want %v", def.Constant, tt.constant)
			}
			if def.Kind != nomogram.Custom {
				t.Errorf("Kind = %v, want custom", def.Kind)
			}
		})
	}
}

func TestParseEquationPi(t *testing.T) {
	def, err := ParseEquation("X = 2π⋅f⋅L")
	if err != nil {
		t.Fatalf("ParseEquation error: %v", err)
	}
	if math.Abs(def.Constant-2*math.Pi) > 1e-12 {
		t.Errorf("Constant = %v, want 2π", def.Constant)
	}
	if def.Input1.Name != "f" || def.Input2.Name != "L" {
		t.Errorf("inputs = %s, %s, want f, L", def.Input1.Name, def.Input2.Name)
	}

	def, err = ParseEquation("X = 2 * pi * f * L")
	if err != nil {
		t.Fatalf("ParseEquation error: %v", err)
	}
	if math.Abs(def.Constant-2*math.Pi) > 1e-12 {
		t.Errorf("Constant = %v, want 2π", def.Constant)
	}
}

func TestParseEquationErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"C = A +", ErrSyntax},
		{"C A B", ErrSyntax},
		{"= A + B", ErrSyntax},
		{"C = A", ErrUnsupported},
		{"C = A*B*D", ErrUnsupported},
		{"C = A^2 + B", ErrUnsupported},
		{"C = C + B", ErrUnsupported},
		{"C = A + A", ErrUnsupported},
		{"A + B = C + D", ErrUnsupported},
		{"X^2 + 2*B*X + C = 0", ErrUnsupported},
		{"X^2 + B*X = 0", ErrUnsupported},
	}
	for _, tt := range tests {
		_, err := ParseEquation(tt.src)
		if !errors.Is(err, tt.want) {
			t.Errorf("ParseEquation(%q) error = %v, want %v", tt.src, err, tt.want)
		}
	}
}
