package definition

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
)

// DecodeTOML reads one definition:
//
//	name = "Body Mass Index"
//	equation = "BMI = Mass * Height^-2"
//
//	[input1]
//	unit = "Kg"
//	range = [20.0, 150.0]
//
//	[input2]
//	unit = "m"
//	range = [1.0, 2.0]
//
// Numbers must be written as floats.
func DecodeTOML(r io.Reader) (nomogram.Definition, error) {
	var f File
	md, err := toml.DecodeReader(r, &f)
	if err != nil {
		return nomogram.Definition{}, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nomogram.Definition{}, fmt.Errorf("%w: unknown keys %s", ErrSyntax, strings.Join(keys, ", "))
	}
	return f.Definition()
}

// EncodeTOML writes d in the explicit form read back by DecodeTOML
func EncodeTOML(w io.Writer, d nomogram.Definition) error {
	return toml.NewEncoder(w).Encode(FromDefinition(d))
}
