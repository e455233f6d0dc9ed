package config

import (
	"fmt"
	"image/color"

	"github.com/ByLCY/stickers/fonts"
)

// StyleDefinition 是加载后的完整样式树，加载完成后不再修改。
// Styles 与各层子样式均保持配置文件中的声明顺序。
type StyleDefinition struct {
	Font   fonts.Descriptor
	Styles []Style
}

// Style 是一组可选择的子样式。
type Style struct {
	Name      string
	SubStyles []SubStyle
}

// SubStyle 是一个具体的贴纸模板：组件、布局约束与所需的输入数量。
type SubStyle struct {
	Name       string
	Preview    string
	Inputs     int
	Components []NamedComponent
	Layout     string
}

// NamedComponent 按声明顺序保存组件；声明顺序即绘制顺序。
type NamedComponent struct {
	Name   string
	Config ComponentConfig
}

// Kind 是组件的类型判别字段。
type Kind string

const (
	KindText    Kind = "text"
	KindRefText Kind = "reftext"
	KindFill    Kind = "fill"
)

// ComponentConfig 是封闭的组件配置联合类型，只有本包内的三种变体。
type ComponentConfig interface {
	Kind() Kind
	sealed()
}

// TextStyle 是 text 与 reftext 共用的文本样式。Font 为 nil 时使用全局默认字体；
// Linethrough/Underline 为 nil 表示不绘制，否则为线宽（像素）。
type TextStyle struct {
	Color       color.NRGBA
	Font        *fonts.Descriptor
	Linethrough *float64
	Underline   *float64
}

// TextConfig 渲染固定文本。
type TextConfig struct {
	Value string
	TextStyle
}

// RefTextConfig 渲染 inputs[Ref]。
type RefTextConfig struct {
	Ref int
	TextStyle
}

// FillConfig 以纯色填满分配到的区域。
type FillConfig struct {
	Color color.NRGBA
}

func (TextConfig) Kind() Kind    { return KindText }
func (RefTextConfig) Kind() Kind { return KindRefText }
func (FillConfig) Kind() Kind    { return KindFill }

func (TextConfig) sealed()    {}
func (RefTextConfig) sealed() {}
func (FillConfig) sealed()    {}

// Lookup 按名称查找子样式。
func (d *StyleDefinition) Lookup(style, sub string) (*SubStyle, bool) {
	if d == nil {
		return nil, false
	}
	for i := range d.Styles {
		if d.Styles[i].Name != style {
			continue
		}
		for j := range d.Styles[i].SubStyles {
			if d.Styles[i].SubStyles[j].Name == sub {
				return &d.Styles[i].SubStyles[j], true
			}
		}
	}
	return nil, false
}

// Validate 校验一个子样式；从代码直接构造的 SubStyle 也会在编译模板前经过这里。
func (s *SubStyle) Validate() error {
	if s.Inputs < 0 {
		return errorf("inputs", "输入数量不能为负数: %d", s.Inputs)
	}
	if len(s.Components) == 0 {
		return errorf("components", "至少需要一个组件")
	}
	seen := make(map[string]struct{}, len(s.Components))
	for _, c := range s.Components {
		path := joinPath("components", c.Name)
		if c.Name == "" {
			return errorf("components", "组件名称不能为空")
		}
		if _, dup := seen[c.Name]; dup {
			return errorf(path, "组件名称重复")
		}
		seen[c.Name] = struct{}{}
		if err := validateComponent(c.Config); err != nil {
			return &Error{Path: path, Err: err}
		}
	}
	return nil
}

func validateComponent(cfg ComponentConfig) error {
	switch c := cfg.(type) {
	case TextConfig:
		return validateTextStyle(c.TextStyle)
	case RefTextConfig:
		return validateTextStyle(c.TextStyle)
	case FillConfig:
		return nil
	case nil:
		return fmt.Errorf("%w: 缺少组件定义", ErrUnknownComponentType)
	default:
		return fmt.Errorf("%w: %s (%T)", ErrUnknownComponentType, cfg.Kind(), cfg)
	}
}

func validateTextStyle(s TextStyle) error {
	if s.Linethrough != nil && *s.Linethrough < 0 {
		return fmt.Errorf("linethrough 线宽不能为负数")
	}
	if s.Underline != nil && *s.Underline < 0 {
		return fmt.Errorf("underline 线宽不能为负数")
	}
	if s.Font != nil && s.Font.Size <= 0 {
		return fmt.Errorf("字号必须为正数")
	}
	return nil
}
