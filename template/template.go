package template

import (
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ByLCY/stickers/component"
	"github.com/ByLCY/stickers/config"
	"github.com/ByLCY/stickers/layout"
	"github.com/ByLCY/stickers/renderer"
	canvasrenderer "github.com/ByLCY/stickers/renderer/canvas"
)

// ErrInputCount 表示渲染时提供的输入数量与子样式声明的 inputs 不一致。
var ErrInputCount = errors.New("输入数量不匹配")

// Template 是编译后的子样式。构造完成后不可变，可被多个 goroutine 同时渲染。
type Template struct {
	name       string
	preview    string
	inputs     int
	names      []string
	components []component.Component
	system     *layout.System
	logger     *zap.Logger
}

var _ renderer.Renderer = (*Template)(nil)

// New 编译子样式：校验配置、构造组件并编译布局约束。未知组件类型与未定义的组件引用都在这里失败。
func New(sub config.SubStyle, opts ...Option) (*Template, error) {
	o := newOptions(opts)
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	t := &Template{
		name:       sub.Name,
		preview:    sub.Preview,
		inputs:     sub.Inputs,
		names:      make([]string, len(sub.Components)),
		components: make([]component.Component, len(sub.Components)),
		logger:     o.logger.With(zap.String("template", sub.Name)),
	}
	copts := component.Options{DefaultFont: o.defaultFont}
	for i, nc := range sub.Components {
		c, err := component.Compile(nc.Name, nc.Config, copts)
		if err != nil {
			return nil, err
		}
		t.names[i] = nc.Name
		t.components[i] = c
	}

	sys, err := layout.Compile(sub.Layout, t.names, layout.Options{Spacing: o.spacing, Logger: t.logger})
	if err != nil {
		return nil, err
	}
	t.system = sys
	return t, nil
}

func (t *Template) Name() string    { return t.name }
func (t *Template) Preview() string { return t.preview }
func (t *Template) Inputs() int     { return t.inputs }

// Components 返回组件名称，顺序即绘制顺序。
func (t *Template) Components() []string { return append([]string(nil), t.names...) }

// Solve 只求解布局，不绘制。
func (t *Template) Solve(inputs []string) (*layout.Geometry, error) {
	_, g, err := t.prepare(inputs)
	return g, err
}

// Render 按声明顺序实例化组件、检查输入数量、求解布局并合成图像。
func (t *Template) Render(inputs []string) (*image.RGBA, error) {
	instances, g, err := t.prepare(inputs)
	if err != nil {
		return nil, err
	}
	layers := make([]canvasrenderer.Layer, len(instances))
	for i := range instances {
		inst, box := instances[i], g.Boxes[i]
		layers[i] = func(s *canvasrenderer.Surface) error { return inst.Paint(s, box) }
	}
	w, h := g.Bounds()
	img, err := canvasrenderer.Composite(w, h, layers)
	if err != nil {
		return nil, fmt.Errorf("合成模板 %s 失败: %w", t.name, err)
	}
	t.logger.Debug("template rendered",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

func (t *Template) prepare(inputs []string) ([]*component.Instance, *layout.Geometry, error) {
	instances := make([]*component.Instance, len(t.components))
	intrinsics := make([]*layout.Size, len(t.components))
	for i, c := range t.components {
		inst, err := c.Instantiate(inputs)
		if err != nil {
			return nil, nil, err
		}
		instances[i] = inst
		intrinsics[i] = inst.Size
	}
	if len(inputs) != t.inputs {
		return nil, nil, fmt.Errorf("%w: 模板 %s 需要 %d 个，实际 %d 个", ErrInputCount, t.name, t.inputs, len(inputs))
	}
	g, err := t.system.Solve(intrinsics)
	if err != nil {
		return nil, nil, err
	}
	return instances, g, nil
}
