// Package ids generates prefixed entity identifiers such as "usr_3f2a…".
package ids

import (
	"strings"

	"github.com/google/uuid"
)

// New returns prefix followed by a 32-character hex UUID.
func New(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
