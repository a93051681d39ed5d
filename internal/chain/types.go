// Package chain resolves descriptive metadata for existing on-chain assets.
package chain

import "errors"

// ErrNotFound indicates the reference was recognized but no metadata exists
// for it anywhere. It is a normal negative result, not a transport failure;
// callers decide how to degrade.
var ErrNotFound = errors.New("chain: asset metadata not found")

// Metadata is the immutable result of an import lookup. Fields may be empty
// individually; a usable result has at least a name or a metadata URI.
type Metadata struct {
	Mint        string
	Name        string
	Symbol      string
	Description string
	ImageURL    string
	MetadataURI string
}

// usable reports whether the lookup produced enough to populate a wizard
// session without manual entry.
func (m Metadata) usable() bool {
	return m.Name != "" || m.MetadataURI != ""
}
