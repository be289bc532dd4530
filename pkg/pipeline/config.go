package pipeline

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/setupsched/pkg/errors"
)

// LoadConfig reads solve options from a TOML file. Fields absent from the
// file stay zero so command-line flags can still override them.
//
//	mode = "hybrid"
//	timeout = "30s"
//	bound = "assignment"
//	neighborhoods = ["swap", "two-opt"]
func LoadConfig(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Options{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()

	opts, err := DecodeConfig(f)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return opts, nil
}

// DecodeConfig decodes and validates TOML options. Unknown keys are errors.
func DecodeConfig(r io.Reader) (Options, error) {
	var opts Options
	md, err := toml.NewDecoder(r).Decode(&opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}

	check := opts
	check.SetDefaults()
	if err := check.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
