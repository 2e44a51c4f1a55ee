package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLookupTablesSkipsInvalid(t *testing.T) {
	tables := parseLookupTables([]string{
		"3pqmFC8JcBNoZqojvaUqTi7ydxa3EdVvbFGb7PZMqMY", // 31 bytes decoded
		"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4",
		"not-base58",
	})
	assert.Len(t, tables, 1)
	assert.Equal(t, JupiterProgram, tables[0])
}

func TestVenueLabel(t *testing.T) {
	label, ok := VenueLabel("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
	assert.True(t, ok)
	assert.Equal(t, "Whirlpool (whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc)", label)

	_, ok = VenueLabel("11111111111111111111111111111111")
	assert.False(t, ok)
}
