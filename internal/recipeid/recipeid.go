// Package recipeid encodes which source owns a recipe identifier.
//
// Exactly three forms exist: a raw local identifier, "catalog:<externalId>"
// and "generated:<seedId>[-suffix]". Decode never fails; unrecognized
// input is treated as a local identifier so lookups fall through to the
// cheapest path.
package recipeid

import (
	"strings"

	"github.com/forkful/backend/internal/models"
)

const (
	catalogPrefix   = "catalog:"
	generatedPrefix = "generated:"
)

// Decode splits an identifier into its owning provenance and the embedded
// source key. For local identifiers the key is the identifier itself.
func Decode(id string) (models.Provenance, string) {
	switch {
	case strings.HasPrefix(id, catalogPrefix):
		return models.ProvenanceCatalog, id[len(catalogPrefix):]
	case strings.HasPrefix(id, generatedPrefix):
		return models.ProvenanceGenerated, id[len(generatedPrefix):]
	default:
		return models.ProvenanceLocal, id
	}
}

// Encode builds the namespaced identifier for a provenance and source key.
func Encode(prov models.Provenance, key string) string {
	switch prov {
	case models.ProvenanceCatalog:
		return catalogPrefix + key
	case models.ProvenanceGenerated:
		return generatedPrefix + key
	default:
		return key
	}
}

// SeedID extracts the seed identifier from a generated key, dropping the
// optional uniqueness suffix ("52772-a1b2c3" -> "52772").
func SeedID(key string) string {
	if i := strings.IndexByte(key, '-'); i >= 0 {
		return key[:i]
	}
	return key
}
