package module

import (
	"github.com/go-git/go-billy/v5"

	"github.com/mr-bo-jangles/SqueezySceney/internal/core/scale"
	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
)

// loadKeys overlays the key file at path on the default table; empty path keeps the defaults
func loadKeys(fsys billy.Filesystem, path string) (scale.KeyTable, error) {
	table := scale.DefaultKeys()
	if path == "" {
		return table, nil
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, perr.WithOp(perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "open key table"), "KEYS_FILE"), "rescale.keys")
	}
	defer func() { _ = f.Close() }()

	over, err := scale.LoadKeyTable(f)
	if err != nil {
		return nil, err
	}
	return table.Merge(over), nil
}
