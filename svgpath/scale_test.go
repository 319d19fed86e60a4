package svgpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	for _, tt := range []struct {
		d         string
		scale     float64
		precision int
		want      string
	}{
		// arc flags and rotation stay untouched
		{"M10 10 A 5 5 0 0 1 20 20", 2, 4, "M20 20 A 10 10 0 0 1 40 40"},
		{"M0 0 A1.5e1 2.5 0 1 0 10 -20", 3, 4, "M0 0 A45 7.5 0 1 0 30 -60"},
		// exotic but valid number spellings
		{"M-0.5e-2 1E2 L+.25 -3.5e1", 2, 6, "M-0.01 200 L0.5 -70"},
		// packed negative coordinates, no separators
		{"M10-20L.5-.25", 2, 4, "M20-40L1-0.5"},
		// separators preserved byte-for-byte
		{"M 10,20\n\tL 30,40 Z", 0.5, 4, "M 5,10\n\tL 15,20 Z"},
		{"", 2, 4, ""},
	} {
		got, err := Scale(tt.d, tt.scale, tt.precision)
		require.NoError(t, err, tt.d)
		assert.Equal(t, tt.want, got, tt.d)
	}
}

func TestScaleIdentity(t *testing.T) {
	// scale 1 must keep every coordinate, only normalizing its spelling
	got, err := Scale("m1.50 2.25c0 0 1 1 2 2z", 1, 4)
	require.NoError(t, err)
	assert.Equal(t, "m1.5 2.25c0 0 1 1 2 2z", got)
}

func TestScaleErrors(t *testing.T) {
	_, err := Scale("X10 20", 2, 4)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, InvalidCommand, pe.Reason)
	assert.Equal(t, 0, pe.Offset)

	_, err = Scale("M10e", 2, 4)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, InvalidNumber, pe.Reason)

	_, err = Scale("10 20", 2, 4)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, UnexpectedToken, pe.Reason)

	_, err = Scale("M10 -", 2, 4)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, UnexpectedEOF, pe.Reason)

	_, err = Scale("M10;20", 2, 4)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, InvalidSeparator, pe.Reason)
	assert.Equal(t, 3, pe.Offset)
}

func TestScaleLargePath(t *testing.T) {
	var b strings.Builder
	b.WriteString("M0 0")
	for i := 0; i < 2000; i++ {
		b.WriteString(" L1 2")
	}
	got, err := Scale(b.String(), 2, 4)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "M0 0 L2 4 L2 4"))
}

func TestParse(t *testing.T) {
	cmds, err := Parse("M10 10 l5,5 10,10z")
	require.NoError(t, err)
	require.Len(t, cmds, 3)
	assert.Equal(t, byte('M'), cmds[0].Letter)
	assert.Equal(t, []float64{10, 10}, cmds[0].Params)
	assert.Equal(t, byte('l'), cmds[1].Letter)
	assert.Equal(t, []float64{5, 5, 10, 10}, cmds[1].Params)
	assert.Equal(t, byte('z'), cmds[2].Letter)
	assert.Empty(t, cmds[2].Params)
}
