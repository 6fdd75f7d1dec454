package definition

import "github.com/alecthomas/participle/v2/lexer"

// Equation is "expr = expr"
type Equation struct {
	Left  *Expr `@@ Equals`
	Right *Expr `@@`
}

// Expr is a sum of terms, optionally starting with a minus sign
type Expr struct {
	Neg  bool   `@Minus?`
	Head *Term  `@@`
	Tail []*Sum `@@*`
}

// Sum is one "+ term" or "- term"
type Sum struct {
	Op   string `@( Plus | Minus )`
	Term *Term  `@@`
}

// Term is a product of factors. The operator is optional so that "2A" and
// "B X" read as products.
type Term struct {
	Head *Factor   `@@`
	Tail []*Product `@@*`
}

// Product is one "* factor" or "/ factor"
type Product struct {
	Op     string  `@( Times | Slash )?`
	Factor *Factor `@@`
}

// Factor is a number or a variable, possibly raised to a power
type Factor struct {
	Pos lexer.Position

	Number *float64 `(  @Number`
	Ident  *string  ` | @Ident )`
	Power  *Power   `@@?`
}

// Power is "^2", "^-1" or a superscript such as "²"
type Power struct {
	Neg   bool     `(  Caret @Minus?`
	Value *float64 `   @Number`
	Super string   ` | @Super )`
}
