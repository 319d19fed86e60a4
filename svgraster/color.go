package svgraster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor resolves a paint value. A nil color with no error means
// the paint is off ("none"); paint server references (url(...)) fall
// back to opaque black, since the renderer does not resolve them.
func ParseColor(s string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(v, "url") {
		return color.NRGBA{0, 0, 0, 255}, nil
	}
	switch v {
	case "none", "":
		return nil, nil
	case "currentcolor":
		return color.NRGBA{0, 0, 0, 255}, nil
	}
	if c, ok := colornames.Map[v]; ok {
		return c, nil
	}
	if strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")") {
		vals := strings.Split(v[4:len(v)-1], ",")
		if len(vals) != 3 {
			return nil, fmt.Errorf("invalid color: %s", s)
		}
		var out color.NRGBA
		for i, dst := range []*uint8{&out.R, &out.G, &out.B} {
			c, err := parseColorValue(vals[i])
			if err != nil {
				return nil, fmt.Errorf("invalid color: %s", s)
			}
			*dst = c
		}
		out.A = 0xFF
		return out, nil
	}
	if strings.HasPrefix(v, "#") {
		return parseHexColor(v[1:], s)
	}
	return nil, fmt.Errorf("invalid color: %s", s)
}

func parseHexColor(hex, orig string) (color.Color, error) {
	if len(hex) == 3 {
		// duplicate each digit, per the spec shorthand
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid color: %s", orig)
	}
	var out color.NRGBA
	for i, dst := range []*uint8{&out.R, &out.G, &out.B} {
		t, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid color: %s", orig)
		}
		*dst = uint8(t)
	}
	out.A = 0xFF
	return out, nil
}

func parseColorValue(v string) (uint8, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "%") {
		n, err := strconv.Atoi(strings.TrimSpace(v[:len(v)-1]))
		if err != nil {
			return 0, err
		}
		return uint8(n * 0xFF / 100), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	return uint8(n), nil
}
