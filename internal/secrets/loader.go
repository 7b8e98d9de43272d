package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a credential may come from. Resolution order is
// File, then Env, then the inline Value; the first non-empty wins.
type Source struct {
	// Name appears in error messages so the operator knows which credential
	// is missing.
	Name string
	// Value is an inline value from configuration or flags.
	Value string
	// Env names an environment variable holding the value.
	Env string
	// File points to a file whose contents are the value.
	File string
}

// Load resolves the credential from the source. The result is trimmed of
// surrounding whitespace. A configured but empty file is an error; an unset
// env variable falls through to Value.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	return "", fmt.Errorf("%s is not configured", name)
}
