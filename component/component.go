package component

import (
	"fmt"

	"github.com/ByLCY/stickers/config"
	"github.com/ByLCY/stickers/fonts"
	"github.com/ByLCY/stickers/layout"
	canvasrenderer "github.com/ByLCY/stickers/renderer/canvas"
)

// Component 是编译后的组件，不可变，可在多次渲染间共享。
type Component interface {
	Name() string
	// Instantiate 为一次渲染生成实例；reftext 在这里检查输入下标。
	Instantiate(inputs []string) (*Instance, error)
}

// Instance 属于单次渲染。Size 为 nil 表示没有固有尺寸。
type Instance struct {
	Size  *layout.Size
	Paint func(s *canvasrenderer.Surface, box layout.Box) error
}

// Options 提供编译组件时的全局默认值。
type Options struct {
	DefaultFont fonts.Descriptor
}

func (o Options) font(override *fonts.Descriptor) fonts.Descriptor {
	if override != nil {
		return *override
	}
	if o.DefaultFont.Size > 0 {
		return o.DefaultFont
	}
	return fonts.MustParseDescriptor(fonts.DefaultDescriptor)
}

// Compile 把配置变体转换为组件。ComponentConfig 是封闭类型，未知变体返回 *config.Error。
func Compile(name string, cfg config.ComponentConfig, opts Options) (Component, error) {
	switch c := cfg.(type) {
	case config.TextConfig:
		return &textComponent{
			name:  name,
			value: func([]string) (string, error) { return c.Value, nil },
			style: newTextStyle(c.TextStyle, opts),
		}, nil
	case config.RefTextConfig:
		ref := c.Ref
		return &textComponent{
			name: name,
			value: func(inputs []string) (string, error) {
				if ref < 0 || ref >= len(inputs) {
					return "", &IndexError{Component: name, Ref: ref, Inputs: len(inputs)}
				}
				return inputs[ref], nil
			},
			style: newTextStyle(c.TextStyle, opts),
		}, nil
	case config.FillConfig:
		return &fillComponent{name: name, color: c.Color}, nil
	default:
		return nil, &config.Error{
			Path: "components." + name,
			Err:  fmt.Errorf("%w: %T", config.ErrUnknownComponentType, cfg),
		}
	}
}
