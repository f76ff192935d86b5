package ruby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsugix/tsugix/internal/langparse"
)

const sampleTrace = "app.rb:10:in `divide': divided by 0 (ZeroDivisionError)\n\tfrom app.rb:5:in `main'\n"

func TestCanParse_HeaderFrameIsHigh(t *testing.T) {
	p := NewParser()
	assert.Equal(t, langparse.High, p.CanParse(sampleTrace))
}

func TestCanParse_PlainFrameIsMedium(t *testing.T) {
	p := NewParser()
	assert.Equal(t, langparse.Medium, p.CanParse("\tfrom app.rb:5:in `main'"))
}

func TestCanParse_UnrelatedIsNone(t *testing.T) {
	p := NewParser()
	assert.Equal(t, langparse.None, p.CanParse("segmentation fault"))
}

func TestParse_ExtractsExceptionAndFrames(t *testing.T) {
	p := NewParser()
	result := p.Parse(sampleTrace)
	require.True(t, result.Success)
	require.NotNil(t, result.Exception)
	assert.Equal(t, "ZeroDivisionError", result.Exception.Type)
	assert.Equal(t, "divided by 0", result.Exception.Message)

	require.Len(t, result.Frames, 2)
	assert.Equal(t, "app.rb", result.Frames[0].File)
	assert.Equal(t, 10, result.Frames[0].Line)
	assert.Equal(t, "divide", result.Frames[0].Function)
}

func TestParse_NoMatchReturnsFailure(t *testing.T) {
	p := NewParser()
	result := p.Parse("nothing relevant")
	assert.False(t, result.Success)
}
