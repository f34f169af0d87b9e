//go:build unit

package patch_test

import (
	"testing"

	"gotrip-checkout/internal/pkg/patch"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	name := "Lê Thị Hoa"
	empty := ""

	assert.Equal(t, name, patch.Coalesce(&name, "kept"))
	assert.Equal(t, "", patch.Coalesce(&empty, "kept"), "an explicit empty value clears the field")
	assert.Equal(t, "kept", patch.Coalesce[string](nil, "kept"))
}
