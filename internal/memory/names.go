package memory

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/mesh-intelligence/inka/pkg/types"
)

// normalizeName puts a tag or deck name into NFC so that the same visible
// name typed with composed or decomposed accents resolves to one entity.
// Case is preserved; names are compared case-sensitively.
func normalizeName(kind types.Kind, name string) (string, error) {
	n := norm.NFC.String(name)
	if strings.TrimSpace(n) == "" {
		return "", fmt.Errorf("%s name %q: %w", kind, name, types.ErrInvalidName)
	}
	return n, nil
}
