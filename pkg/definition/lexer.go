package definition

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// EquationLexer tokenizes nomogram equations such as
// "BMI = Mass * Height^-2", "C = 2A + 3B + 1" or "X^2 + B*X + C = 0"
var EquationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},

	// Numbers are unsigned, signs belong to the grammar
	{Name: "Number", Pattern: `(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][-+]?[0-9]+)?`},

	// Unicode superscript exponents (Height², X⁻¹)
	{Name: "Super", Pattern: `⁻?[⁰¹²³⁴⁵⁶⁷⁸⁹]+`},

	// Variable names, π and pi are read as the constant
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{Nd}_]*`},

	{Name: "Equals", Pattern: `=`},
	{Name: "Plus", Pattern: `\+`},
	{Name: "Minus", Pattern: `[-−]`},
	{Name: "Times", Pattern: `[*⋅·×]`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Caret", Pattern: `\^`},
})
