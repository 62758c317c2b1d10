// Package colorutil 提供十六进制颜色解析与透明度工具
//
// 本包只依赖标准库，配置层可以在无图形环境下引用。
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor 解析 "#rgb" 或 "#rrggbb" 格式的颜色字符串
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustParseHexColor 与 ParseHexColor 相同，但解析失败时 panic
// 仅用于包级常量颜色
func MustParseHexColor(s string) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBA 以 CSS rgba() 的方式构造颜色，alpha 取值 0.0 ~ 1.0
func RGBA(r, g, b uint8, alpha float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: uint8(ClampUnit(alpha)*255 + 0.5)}
}

// WithAlpha 返回替换透明度后的颜色
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(ClampUnit(alpha)*255 + 0.5)
	return c
}

// ClampUnit 将数值限制在 0.0 ~ 1.0 范围内
func ClampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
