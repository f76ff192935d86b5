package golang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsugix/tsugix/internal/langparse"
)

const samplePanic = `panic: runtime error: index out of range [3] with length 3

goroutine 1 [running]:
main.process(...)
	/app/main.go:15 +0x1b
main.main()
	/app/main.go:8 +0x2c
`

func TestCanParse_PanicHeaderIsHigh(t *testing.T) {
	p := NewParser()
	assert.Equal(t, langparse.High, p.CanParse(samplePanic))
}

func TestCanParse_GoFileOnlyIsLow(t *testing.T) {
	p := NewParser()
	assert.Equal(t, langparse.Low, p.CanParse("somewhere in main.go:1 something broke"))
}

func TestCanParse_UnrelatedIsNone(t *testing.T) {
	p := NewParser()
	assert.Equal(t, langparse.None, p.CanParse("segmentation fault"))
}

func TestParse_ExtractsMessageAndFrames(t *testing.T) {
	p := NewParser()
	result := p.Parse(samplePanic)
	require.True(t, result.Success)
	require.NotNil(t, result.Exception)
	assert.Equal(t, "panic", result.Exception.Type)
	assert.Equal(t, "runtime error: index out of range [3] with length 3", result.Exception.Message)

	require.Len(t, result.Frames, 2)
	assert.Equal(t, "/app/main.go", result.Frames[0].File)
	assert.Equal(t, 15, result.Frames[0].Line)
	assert.Equal(t, "process", result.Frames[0].Function)
}

func TestParse_NoMatchReturnsFailure(t *testing.T) {
	p := NewParser()
	result := p.Parse("nothing relevant")
	assert.False(t, result.Success)
}
