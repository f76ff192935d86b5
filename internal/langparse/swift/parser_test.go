package swift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsugix/tsugix/internal/langparse"
)

func TestCanParse_FailureLineIsHigh(t *testing.T) {
	p := NewParser()
	assert.Equal(t, langparse.High, p.CanParse("Fatal error: Index out of range: file Sources/main.swift, line 12"))
}

func TestCanParse_SwiftFileOnlyIsLow(t *testing.T) {
	p := NewParser()
	assert.Equal(t, langparse.Low, p.CanParse("somewhere in main.swift unrelated"))
}

func TestCanParse_UnrelatedIsNone(t *testing.T) {
	p := NewParser()
	assert.Equal(t, langparse.None, p.CanParse("segmentation fault"))
}

func TestParse_FatalError(t *testing.T) {
	p := NewParser()
	result := p.Parse("Fatal error: Index out of range: file Sources/main.swift, line 12\n")
	require.True(t, result.Success)
	require.NotNil(t, result.Exception)
	assert.Equal(t, "FatalError", result.Exception.Type)
	assert.Equal(t, "Index out of range", result.Exception.Message)
	require.Len(t, result.Frames, 1)
	assert.Equal(t, "Sources/main.swift", result.Frames[0].File)
	assert.Equal(t, 12, result.Frames[0].Line)
}

func TestParse_PreconditionFailure(t *testing.T) {
	p := NewParser()
	result := p.Parse("Precondition failed: value must be positive: file Sources/main.swift, line 4\n")
	require.True(t, result.Success)
	assert.Equal(t, "PreconditionFailure", result.Exception.Type)
}

func TestParse_NoMatchReturnsFailure(t *testing.T) {
	p := NewParser()
	result := p.Parse("nothing relevant")
	assert.False(t, result.Success)
}
