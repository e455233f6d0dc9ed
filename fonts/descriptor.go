package fonts

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultDescriptor 在配置未声明全局字体时使用。
const DefaultDescriptor = "48px sans-serif"

// Descriptor 是解析后的字体描述，Size 以像素为单位。
type Descriptor struct {
	Face
	Size float64
}

// ParseDescriptor 解析 CSS font 简写的子集：
//
//	[italic|oblique|normal] [small-caps] [bold|bolder|lighter|medium|normal|100..900] <size>(px|pt)[/<line-height>] <family>[, <family>...]
//
// 未知的字体族回退到 Go 字体，未知的样式关键字视为错误。
func ParseDescriptor(s string) (Descriptor, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Descriptor{}, fmt.Errorf("字体描述为空")
	}

	sizeAt := -1
	var size Length
	for i, f := range fields {
		head, _, _ := strings.Cut(f, "/") // 行高对单行贴纸文本没有意义，直接忽略
		if l, ok := ParseLength(head); ok && l.Unit != UnitNone {
			sizeAt, size = i, l
			break
		}
	}
	if sizeAt < 0 {
		return Descriptor{}, fmt.Errorf("字体描述 %q 缺少字号（例如 48px）", s)
	}
	if size.Value <= 0 {
		return Descriptor{}, fmt.Errorf("字体描述 %q 的字号必须为正数", s)
	}

	d := Descriptor{Size: size.ToPX()}
	smallcaps := false
	for _, kw := range fields[:sizeAt] {
		switch k := strings.ToLower(kw); k {
		case "normal":
		case "italic", "oblique":
			d.Italic = true
		case "small-caps":
			smallcaps = true
		case "bold", "bolder":
			d.Weight = WeightBold
		case "lighter":
			d.Weight = WeightRegular
		case "medium":
			d.Weight = WeightMedium
		default:
			n, err := strconv.Atoi(k)
			if err != nil || n < 1 || n > 1000 {
				return Descriptor{}, fmt.Errorf("字体描述 %q 包含未知关键字 %q", s, kw)
			}
			d.Weight = weightFromNumber(n)
		}
	}

	d.Family = resolveFamily(strings.Join(fields[sizeAt+1:], " "))
	if smallcaps {
		d.Family = FamilySmallcaps
	}
	return d, nil
}

// MustParseDescriptor is ParseDescriptor for constants; it panics on error.
func MustParseDescriptor(s string) Descriptor {
	d, err := ParseDescriptor(s)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the canonical descriptor form, parseable by ParseDescriptor.
func (d Descriptor) String() string {
	parts := make([]string, 0, 4)
	if d.Italic {
		parts = append(parts, "italic")
	}
	if d.Weight != WeightRegular {
		parts = append(parts, d.Weight.String())
	}
	parts = append(parts, strconv.FormatFloat(d.Size, 'f', -1, 64)+pxUnit)
	switch d.Family {
	case FamilyMono:
		parts = append(parts, "monospace")
	case FamilySmallcaps:
		parts = append(parts, "smallcaps")
	default:
		parts = append(parts, "sans-serif")
	}
	return strings.Join(parts, " ")
}

func weightFromNumber(n int) Weight {
	switch {
	case n >= 600:
		return WeightBold
	case n >= 500:
		return WeightMedium
	default:
		return WeightRegular
	}
}

// resolveFamily 取列表中第一个可识别的字体族。
func resolveFamily(list string) Family {
	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.Trim(strings.TrimSpace(name), `"'`))
		switch name {
		case "monospace", "mono", "go mono", "gomono":
			return FamilyMono
		case "smallcaps", "go smallcaps", "gosmallcaps":
			return FamilySmallcaps
		case "sans-serif", "sans", "serif", "go", "system-ui":
			return FamilyGo
		}
	}
	return FamilyGo
}
