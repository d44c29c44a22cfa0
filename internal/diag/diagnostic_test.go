package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiagnosticErrorIncludesKindAndConstruct(t *testing.T) {
	d := New(ProgrammerError, "pointer", "*obj#1", "dereferenced an object literal")
	assert.Contains(t, d.Error(), "programmer error")
	assert.Contains(t, d.Error(), "*obj#1")
	assert.Contains(t, d.Error(), "pointer")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "malformed input", MalformedInput.String())
	assert.Equal(t, "programmer error", ProgrammerError.String())
}
