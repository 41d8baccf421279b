package pipeline

import (
	"github.com/BurntSushi/toml"

	"github.com/mab8192/tcgprint/pkg/errors"
)

// LoadConfig reads a TOML config file on top of base and returns the
// result. Keys absent from the file keep their value from base.
//
//	input = "cards"
//	output = "deck.pdf"
//	page_width = 8.27
//	page_height = 11.69
//	rows = 3
//	workers = 4
func LoadConfig(path string, base Options) (Options, error) {
	opts := base
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return opts, nil
}
