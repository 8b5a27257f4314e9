package iostore

import (
	"testing"

	"github.com/mganno/mganno/pkg/catalog"
	"github.com/stretchr/testify/assert"
)

func TestLevelColumnWhitelists(t *testing.T) {
	// Every catalog level must map to a column, and "order" must map to
	// the quoted-keyword column name.
	for _, level := range catalog.OrganismLevels {
		col, ok := taxaLevelColumns[level]
		assert.True(t, ok, level)
		assert.NotEmpty(t, col, level)
	}
	assert.Equal(t, "order_", taxaLevelColumns["order"])

	for _, level := range catalog.OntologyLevels {
		col, ok := ontologyLevelColumns[level]
		assert.True(t, ok, level)
		assert.NotEmpty(t, col, level)
	}

	// Nothing outside the catalog sneaks in.
	assert.Len(t, taxaLevelColumns, len(catalog.OrganismLevels))
	assert.Len(t, ontologyLevelColumns, len(catalog.OntologyLevels))
}
