package nomogram

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

var superscripts = strings.NewReplacer(
	"-", "⁻", "0", "⁰", "1", "¹", "2", "²", "3", "³", "4", "⁴",
	"5", "⁵", "6", "⁶", "7", "⁷", "8", "⁸", "9", "⁹",
)

// coefficient renders a factor in front of a variable; 1 is implied
func coefficient(f float64) string {
	if f == 1 {
		return ""
	}
	return humanize.Ftoa(f)
}

// power renders an exponent after a variable; 1 is implied
func power(e float64) string {
	switch {
	case e == 1:
		return ""
	case e == math.Trunc(e):
		return superscripts.Replace(humanize.Ftoa(e))
	default:
		return "^" + humanize.Ftoa(e)
	}
}

// EquationLabel returns the equation shown above a nomogram, for example
// "C = 2A + B - 3" or "C = 6⋅A⋅B"
func EquationLabel(d Definition) string {
	if d.Label != "" {
		return d.Label
	}
	a, b, c := d.Input1, d.Input2, d.Output

	switch d.Op {
	case Addition:
		var term string
		switch {
		case d.Constant > 0:
			term = " + " + humanize.Ftoa(d.Constant)
		case d.Constant < 0:
			term = " - " + humanize.Ftoa(-d.Constant)
		}
		return fmt.Sprintf("%s%s = %s%s + %s%s%s",
			coefficient(c.Factor), c.Name,
			coefficient(a.Factor), a.Name,
			coefficient(b.Factor), b.Name, term)

	case Multiplication:
		var k string
		if d.Constant != 1 {
			k = humanize.Ftoa(d.Constant) + "⋅"
		}
		return fmt.Sprintf("%s%s%s = %s%s%s%s⋅%s%s%s",
			coefficient(c.Factor), c.Name, power(c.Exponent),
			k,
			coefficient(a.Factor), a.Name, power(a.Exponent),
			coefficient(b.Factor), b.Name, power(b.Exponent))

	case SecondDegree:
		x := d.Output.Name
		return fmt.Sprintf("%s² + %s%s + %s = 0", x, b.Name, x, a.Name)
	}
	return d.Name
}
