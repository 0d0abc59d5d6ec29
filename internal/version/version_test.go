package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	Commit = "abc123"
	assert.Equal(t, "Shoppingify v1.2.3", Short())
	assert.Contains(t, Info(), "commit: abc123")
}
