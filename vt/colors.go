package vt

import (
	"fmt"
	"log/slog"
)

type ColorMode uint8

const (
	ColorDefault ColorMode = iota
	ColorBasic
	Color256
	ColorRGB
)

// Color is a cell foreground or background. The zero value is the
// terminal default. Basic colors carry a palette index 0-15 (8-15 are
// the bright set), Color256 an xterm palette index and ColorRGB a
// 24-bit triple. Comparable with ==.
type Color struct {
	Mode    ColorMode
	Idx     uint8
	R, G, B uint8
}

func newBasicColor(idx int) Color {
	return Color{Mode: ColorBasic, Idx: uint8(idx)}
}

func newAnsiColor(idx int) Color {
	return Color{Mode: Color256, Idx: uint8(idx)}
}

func newRGBColor(r, g, b int) Color {
	return Color{Mode: ColorRGB, R: uint8(r), G: uint8(g), B: uint8(b)}
}

func (c Color) String() string {
	switch c.Mode {
	case ColorDefault:
		return "default"
	case ColorBasic:
		return fmt.Sprintf("basic(%d)", c.Idx)
	case Color256:
		return fmt.Sprintf("256(%d)", c.Idx)
	case ColorRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	}
	return "invalid"
}

// colorFromSGR maps a basic SGR color parameter (30-37, 40-47, 90-97,
// 100-107) to a palette color. Bright variants land on indexes 8-15.
func colorFromSGR(item int) Color {
	switch {
	case item >= FG_BLACK && item <= FG_WHITE:
		return newBasicColor(item - FG_BLACK)
	case item >= BG_BLACK && item <= BG_WHITE:
		return newBasicColor(item - BG_BLACK)
	case item >= FG_BRIGHT_BLACK && item <= FG_BRIGHT_WHITE:
		return newBasicColor(item - FG_BRIGHT_BLACK + 8)
	case item >= BG_BRIGHT_BLACK && item <= BG_BRIGHT_WHITE:
		return newBasicColor(item - BG_BRIGHT_BLACK + 8)
	}
	slog.Debug("not a basic SGR color", "param", item)
	return Color{}
}

// colorFromParams interprets the parameters following SGR 38/48 as
// either a 256 color (5;n) or 24-bit true color (2;r;g;b) selection.
// Out of range components are clamped; a missing or unknown selector
// yields the default passed in.
func colorFromParams(params *parameters, def Color) Color {
	cm, ok := params.consumeItem()
	if !ok {
		slog.Debug("extended color with no selector")
		return def
	}

	switch cm {
	case 2: // 24-bit true color
		var rgb [3]int
		for i := range rgb {
			v, _ := params.consumeItem()
			rgb[i] = clampInt(v, 0, 255)
		}
		return newRGBColor(rgb[0], rgb[1], rgb[2])
	case 5: // 256 color selection
		v, _ := params.consumeItem()
		return newAnsiColor(clampInt(v, 0, 255))
	}

	slog.Debug("invalid color type selector, returning default", "selector", cm)
	return def
}

func clampInt(v, lo, hi int) int {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
