package main

import (
	"strings"
	"testing"

	"github.com/benoitkugler/svgscale/svgdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSize(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want float64
		ok   bool
	}{
		{`<svg width="512" height="512"/>`, 512, true},
		{`<svg width="16px"/>`, 16, true},
		// width attribute wins over the viewBox
		{`<svg width="32" viewBox="0 0 512 512"/>`, 32, true},
		{`<svg viewBox="0 0 48 48"/>`, 48, true},
		{`<svg width="100%" viewBox="0 0 24 24"/>`, 24, true},
		{`<svg/>`, 0, false},
	} {
		doc, err := svgdom.Parse(strings.NewReader(tt.src))
		require.NoError(t, err)
		got, ok := detectSize(doc)
		assert.Equal(t, tt.ok, ok, tt.src)
		if ok {
			assert.Equal(t, tt.want, got, tt.src)
		}
	}
}

func TestParseTargets(t *testing.T) {
	got, err := parseTargets("16, 32,48")
	require.NoError(t, err)
	assert.Equal(t, []float64{16, 32, 48}, got)

	_, err = parseTargets("16,two")
	require.Error(t, err)
}

func TestPNGName(t *testing.T) {
	assert.Equal(t, "dist/icon.png", pngName("dist/icon.svg"))
	assert.Equal(t, "icon-16.png", pngName("icon-16.svg"))
}
