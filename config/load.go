package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/stickers/fonts"
)

type rawSubStyle struct {
	Preview    string    `yaml:"preview"`
	Inputs     *int      `yaml:"inputs"`
	Components yaml.Node `yaml:"components"`
	Layout     *string   `yaml:"layout"`
}

type rawComponent struct {
	Type        string   `yaml:"type"`
	Value       *string  `yaml:"value"`
	Ref         *int     `yaml:"ref"`
	Color       *string  `yaml:"color"`
	Font        *string  `yaml:"font"`
	Linethrough *float64 `yaml:"linethrough"`
	Underline   *float64 `yaml:"underline"`
}

// LoadFile 读取并校验 YAML 样式配置文件。
func LoadFile(path string) (*StyleDefinition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开配置文件 %s: %w", path, err)
	}
	defer file.Close()
	return Load(file)
}

// Load 解析 YAML 样式树。映射顺序取自 yaml.Node，因此组件的声明顺序会被保留。
func Load(r io.Reader) (*StyleDefinition, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Err: fmt.Errorf("配置内容为空")}
		}
		return nil, &Error{Err: fmt.Errorf("解析 YAML 失败: %w", err)}
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	def := &StyleDefinition{Font: fonts.MustParseDescriptor(fonts.DefaultDescriptor)}
	sawStyles := false
	err := eachPair(doc, "", func(key string, val *yaml.Node) error {
		switch key {
		case "font":
			var s string
			if err := val.Decode(&s); err != nil {
				return nodeError("font", val, err)
			}
			d, err := fonts.ParseDescriptor(s)
			if err != nil {
				return nodeError("font", val, err)
			}
			def.Font = d
		case "styles":
			sawStyles = true
			styles, err := parseStyles(val)
			if err != nil {
				return err
			}
			def.Styles = styles
		default:
			return nodeError(key, val, fmt.Errorf("未知字段"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !sawStyles {
		return nil, errorf("styles", "缺少 styles 定义")
	}
	return def, nil
}

func parseStyles(node *yaml.Node) ([]Style, error) {
	var styles []Style
	err := eachPair(node, "styles", func(name string, val *yaml.Node) error {
		style := Style{Name: name}
		path := joinPath("styles", name)
		err := eachPair(val, path, func(subName string, subVal *yaml.Node) error {
			sub, err := parseSubStyle(subName, subVal, joinPath(path, subName))
			if err != nil {
				return err
			}
			style.SubStyles = append(style.SubStyles, sub)
			return nil
		})
		if err != nil {
			return err
		}
		if len(style.SubStyles) == 0 {
			return nodeError(path, val, fmt.Errorf("样式至少需要一个子样式"))
		}
		styles = append(styles, style)
		return nil
	})
	return styles, err
}

func parseSubStyle(name string, node *yaml.Node, path string) (SubStyle, error) {
	var raw rawSubStyle
	if err := node.Decode(&raw); err != nil {
		return SubStyle{}, nodeError(path, node, err)
	}
	if raw.Inputs == nil {
		return SubStyle{}, nodeError(joinPath(path, "inputs"), node, fmt.Errorf("缺少 inputs"))
	}
	if raw.Layout == nil {
		return SubStyle{}, nodeError(joinPath(path, "layout"), node, fmt.Errorf("缺少 layout"))
	}
	sub := SubStyle{
		Name:    name,
		Preview: raw.Preview,
		Inputs:  *raw.Inputs,
		Layout:  *raw.Layout,
	}

	compPath := joinPath(path, "components")
	if raw.Components.Kind == 0 {
		return SubStyle{}, nodeError(compPath, node, fmt.Errorf("缺少 components"))
	}
	err := eachPair(&raw.Components, compPath, func(key string, val *yaml.Node) error {
		cfg, err := parseComponent(val, joinPath(compPath, key))
		if err != nil {
			return err
		}
		sub.Components = append(sub.Components, NamedComponent{Name: key, Config: cfg})
		return nil
	})
	if err != nil {
		return SubStyle{}, err
	}

	if err := sub.Validate(); err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			cerr.Path = joinPath(path, cerr.Path)
			if cerr.Line == 0 {
				cerr.Line = node.Line
			}
			return SubStyle{}, cerr
		}
		return SubStyle{}, nodeError(path, node, err)
	}
	return sub, nil
}

func parseComponent(node *yaml.Node, path string) (ComponentConfig, error) {
	var raw rawComponent
	if err := node.Decode(&raw); err != nil {
		return nil, nodeError(path, node, err)
	}
	switch Kind(raw.Type) {
	case KindText:
		if raw.Value == nil {
			return nil, nodeError(joinPath(path, "value"), node, fmt.Errorf("text 组件缺少 value"))
		}
		style, err := parseTextStyle(raw, node, path)
		if err != nil {
			return nil, err
		}
		return TextConfig{Value: *raw.Value, TextStyle: style}, nil
	case KindRefText:
		if raw.Ref == nil {
			return nil, nodeError(joinPath(path, "ref"), node, fmt.Errorf("reftext 组件缺少 ref"))
		}
		style, err := parseTextStyle(raw, node, path)
		if err != nil {
			return nil, err
		}
		return RefTextConfig{Ref: *raw.Ref, TextStyle: style}, nil
	case KindFill:
		c, err := parseRequiredColor(raw.Color, node, path)
		if err != nil {
			return nil, err
		}
		return FillConfig{Color: c}, nil
	case "":
		return nil, nodeError(joinPath(path, "type"), node, fmt.Errorf("%w: 缺少 type", ErrUnknownComponentType))
	default:
		return nil, nodeError(joinPath(path, "type"), node, fmt.Errorf("%w: %q", ErrUnknownComponentType, raw.Type))
	}
}

func parseTextStyle(raw rawComponent, node *yaml.Node, path string) (TextStyle, error) {
	c, err := parseRequiredColor(raw.Color, node, path)
	if err != nil {
		return TextStyle{}, err
	}
	style := TextStyle{Color: c, Linethrough: raw.Linethrough, Underline: raw.Underline}
	if raw.Font != nil {
		d, err := fonts.ParseDescriptor(*raw.Font)
		if err != nil {
			return TextStyle{}, nodeError(joinPath(path, "font"), node, err)
		}
		style.Font = &d
	}
	return style, nil
}

func parseRequiredColor(value *string, node *yaml.Node, path string) (color.NRGBA, error) {
	if value == nil {
		return color.NRGBA{}, nodeError(joinPath(path, "color"), node, fmt.Errorf("缺少 color"))
	}
	c, err := ParseColor(*value)
	if err != nil {
		return color.NRGBA{}, nodeError(joinPath(path, "color"), node, err)
	}
	return c, nil
}

// eachPair 按声明顺序遍历映射节点，重复的键视为错误。
func eachPair(node *yaml.Node, path string, fn func(key string, val *yaml.Node) error) error {
	if node == nil || node.Kind != yaml.MappingNode {
		return nodeError(path, node, fmt.Errorf("期望映射类型"))
	}
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode || keyNode.Value == "" {
			return nodeError(path, keyNode, fmt.Errorf("键必须是非空字符串"))
		}
		if _, dup := seen[keyNode.Value]; dup {
			return nodeError(joinPath(path, keyNode.Value), keyNode, fmt.Errorf("键重复"))
		}
		seen[keyNode.Value] = struct{}{}
		if err := fn(keyNode.Value, valNode); err != nil {
			return err
		}
	}
	return nil
}

func nodeError(path string, node *yaml.Node, err error) *Error {
	e := &Error{Path: path, Err: err}
	if node != nil {
		e.Line = node.Line
	}
	return e
}
