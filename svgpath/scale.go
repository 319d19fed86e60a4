package svgpath

import (
	"strings"

	"github.com/benoitkugler/svgscale/svgnum"
)

// Arc parameters repeat as (rx, ry, x-axis-rotation, large-arc-flag,
// sweep-flag, x, y); only rx, ry, x and y are lengths.
func arcParamScaled(index int) bool {
	switch index % 7 {
	case 0, 1, 5, 6:
		return true
	}
	return false
}

// Scale rewrites d with every coordinate operand multiplied by scale.
// Command letters, separators, arc rotation angles and arc flags are
// reproduced byte-for-byte. A malformed input yields a *ParseError and
// no output.
func Scale(d string, scale float64, precision int) (string, error) {
	toks, err := Tokenize(d)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(d) + len(d)/4)
	var cmd byte
	paramIndex := 0
	for _, t := range toks {
		switch t.Kind {
		case SeparatorToken:
			b.WriteString(t.Raw)
		case CommandToken:
			cmd = t.Raw[0]
			paramIndex = 0
			b.WriteString(t.Raw)
		case NumberToken:
			scaled := true
			if cmd == 'A' || cmd == 'a' {
				scaled = arcParamScaled(paramIndex)
			}
			if scaled {
				b.WriteString(svgnum.Format(t.Value*scale, precision))
			} else {
				b.WriteString(t.Raw)
			}
			paramIndex++
		}
	}
	return b.String(), nil
}

// Command is one drawing instruction with all numeric operands that
// follow it (several repetitions may be grouped under one letter).
type Command struct {
	Letter byte
	Params []float64
}

// Parse decomposes d into commands for consumers that need the geometry
// rather than the text, such as the rasterizer.
func Parse(d string) ([]Command, error) {
	toks, err := Tokenize(d)
	if err != nil {
		return nil, err
	}
	var cmds []Command
	for _, t := range toks {
		switch t.Kind {
		case CommandToken:
			cmds = append(cmds, Command{Letter: t.Raw[0]})
		case NumberToken:
			last := &cmds[len(cmds)-1]
			last.Params = append(last.Params, t.Value)
		}
	}
	return cmds, nil
}
