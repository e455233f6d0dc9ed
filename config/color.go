package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor 解析 #rgb、#rgba、#rrggbb、#rrggbbaa 以及 CSS 颜色名（含 transparent）。
func ParseColor(value string) (color.NRGBA, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return color.NRGBA{}, fmt.Errorf("颜色值为空")
	}
	if !strings.HasPrefix(v, "#") {
		name := strings.ToLower(v)
		if name == "transparent" {
			return color.NRGBA{}, nil
		}
		if c, ok := colornames.Map[name]; ok {
			return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
		}
		return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}

	hex := v[1:]
	switch len(hex) {
	case 3, 4:
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return color.NRGBA{
		R: uint8(n >> 24),
		G: uint8(n >> 16),
		B: uint8(n >> 8),
		A: uint8(n),
	}, nil
}
