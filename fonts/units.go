package fonts

import (
	"strconv"
	"strings"
)

// Unit 记录字号在描述字符串中的原始单位。
type Unit int

const (
	UnitNone Unit = iota
	UnitPX
	UnitPT
)

// Conversion constants. 渲染画布以 1 单位 = 1 像素工作，canvas 字体面需要 pt，
// 因此也保留 mm↔pt 的换算（canvas 的长度单位是 mm）。
const (
	PtToPx = 4.0 / 3.0
	PxToPt = 1.0 / PtToPx
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	pxUnit = "px"
	ptUnit = "pt"
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return pxUnit
	case UnitPT:
		return ptUnit
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPX converts the length to pixels. Unit-less values are taken as pixels.
func (l Length) ToPX() float64 {
	if l.Unit == UnitPT {
		return l.Value * 4 / 3
	}
	return l.Value
}

// ParseLength parses "48px", "12pt" or a bare number. ok is false when the
// string is not a length at all.
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{pxUnit, UnitPX}, {ptUnit, UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSuffix(v, suf.s)
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}
