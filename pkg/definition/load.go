package definition

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/nomograph/pkg/nomogram"
)

// LoadFile reads the definitions of a .toml file or of an s-expression file
// (.sexp, .nomo, .scm)
func LoadFile(path string) ([]nomogram.Definition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		def, err := DecodeTOML(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []nomogram.Definition{def}, nil
	case ".sexp", ".nomo", ".scm":
		defs, err := DecodeSexp(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return defs, nil
	}
	return nil, fmt.Errorf("%s: unknown definition format %q", path, filepath.Ext(path))
}

// Resolve finds a definition by catalog ID or name, or loads it from a file.
// "file.sexp#id" selects one definition of a file holding several.
func Resolve(ref string) (nomogram.Definition, error) {
	if def, ok := nomogram.Lookup(ref); ok {
		return def, nil
	}

	path, id := ref, ""
	if i := strings.LastIndex(ref, "#"); i >= 0 {
		path, id = ref[:i], ref[i+1:]
	}
	if _, err := os.Stat(path); err != nil {
		return nomogram.Definition{}, fmt.Errorf("%w: %q is neither a catalog entry nor a file", ErrNotFound, ref)
	}
	defs, err := LoadFile(path)
	if err != nil {
		return nomogram.Definition{}, err
	}
	if id == "" {
		return defs[0], nil
	}
	for _, d := range defs {
		if strings.EqualFold(d.ID, id) || strings.EqualFold(d.Name, id) {
			return d, nil
		}
	}
	return nomogram.Definition{}, fmt.Errorf("%w: %s has no %q", ErrNotFound, path, id)
}
