package recipeid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forkful/backend/internal/models"
)

func TestDecode(t *testing.T) {
	t.Run("should decode catalog ids", func(t *testing.T) {
		prov, key := Decode("catalog:715538")
		assert.Equal(t, models.ProvenanceCatalog, prov)
		assert.Equal(t, "715538", key)
	})

	t.Run("should decode generated ids", func(t *testing.T) {
		prov, key := Decode("generated:52772")
		assert.Equal(t, models.ProvenanceGenerated, prov)
		assert.Equal(t, "52772", key)
	})

	t.Run("should keep suffix in generated key", func(t *testing.T) {
		prov, key := Decode("generated:52772-a1b2c3")
		assert.Equal(t, models.ProvenanceGenerated, prov)
		assert.Equal(t, "52772-a1b2c3", key)
	})

	t.Run("should fail open to local for anything else", func(t *testing.T) {
		for _, id := range []string{
			"3f2c9a7e-1b4d-4f7a-9c3e-8d2f5a6b7c8d",
			"",
			"catalog",
			"generated",
			"unknown:55",
		} {
			prov, key := Decode(id)
			assert.Equal(t, models.ProvenanceLocal, prov)
			assert.Equal(t, id, key)
		}
	})
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "catalog:715538", Encode(models.ProvenanceCatalog, "715538"))
	assert.Equal(t, "generated:52772", Encode(models.ProvenanceGenerated, "52772"))
	assert.Equal(t, "abc", Encode(models.ProvenanceLocal, "abc"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, prov := range []models.Provenance{
		models.ProvenanceLocal,
		models.ProvenanceCatalog,
		models.ProvenanceGenerated,
	} {
		id := Encode(prov, "52772")
		gotProv, gotKey := Decode(id)
		assert.Equal(t, prov, gotProv)
		assert.Equal(t, "52772", gotKey)
	}
}

func TestSeedID(t *testing.T) {
	assert.Equal(t, "52772", SeedID("52772"))
	assert.Equal(t, "52772", SeedID("52772-a1b2c3"))
	assert.Equal(t, "", SeedID(""))
}
