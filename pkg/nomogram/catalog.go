package nomogram

import (
	"math"
	"strings"
)

func input(name, unit string, exponent, start, end float64) Initializer {
	return Initializer{Name: name, Unit: unit, Factor: 1, Exponent: exponent, Range: &Range{Start: start, End: end}}
}

func output(name, unit string) Initializer {
	return Initializer{Name: name, Unit: unit, Factor: 1, Exponent: 1}
}

// Catalog returns the bundled nomograms in menu order
func Catalog() []Definition {
	return []Definition{
		{
			ID:     "addition",
			Kind:   Premade,
			Name:   "Simple nomogram for addition",
			Op:     Addition,
			Input1: input("A", "", 1, 0, 5),
			Input2: input("B", "", 1, 0, 10),
			Output: output("C", ""),
		},
		{
			ID:       "multiplication",
			Kind:     Premade,
			Name:     "Simple nomogram for multiplication",
			Op:       Multiplication,
			Input1:   input("A", "", 1, 2, 10),
			Input2:   input("B", "", 1, 5, 15),
			Output:   output("C", ""),
			Constant: 1,
		},
		{
			ID:     "second-degree",
			Kind:   Premade,
			Name:   "Equation of the second degree",
			Op:     SecondDegree,
			Input1: input("C", "", 1, 0, -10),
			Input2: input("B", "", 1, 0, 10),
			Output: output("X", ""),
		},
		{
			ID:       "inductive-reactance",
			Kind:     Custom,
			Name:     "Inductive reactance",
			Label:    "X = 2π⋅f⋅L",
			Op:       Multiplication,
			Input1:   input("f", "Hz", 1, 2, 10),
			Input2:   input("L", "H", 1, 5, 15),
			Output:   output("X", "Ω"),
			Constant: 2 * math.Pi,
		},
		{
			ID:       "bmi",
			Kind:     Custom,
			Name:     "Body Mass Index (BMI)",
			Label:    "BMI = Mass/Height²",
			Op:       Multiplication,
			Input1:   input("Mass", "Kg", 1, 20, 150),
			Input2:   input("Height", "m", -2, 1, 2),
			Output:   output("BMI", ""),
			Constant: 1,
		},
	}
}

// Lookup finds a bundled nomogram by ID or by name, ignoring case
func Lookup(key string) (Definition, bool) {
	for _, d := range Catalog() {
		if strings.EqualFold(d.ID, key) || strings.EqualFold(d.Name, key) {
			return d, true
		}
	}
	return Definition{}, false
}
