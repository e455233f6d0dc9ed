package template

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ByLCY/stickers/config"
)

// Registry 持有配置中全部已编译的模板，并保持配置的声明顺序。
type Registry struct {
	styles    []string
	subStyles map[string][]string
	templates map[string]*Template
}

func registryKey(style, sub string) string { return style + "/" + sub }

// NewRegistry 编译配置中的每个子样式，遇到第一个错误立即返回，错误信息带 style/sub 路径。
// 配置里的全局字体作为默认字体，opts 中的 WithDefaultFont 可以覆盖它。
func NewRegistry(def *config.StyleDefinition, opts ...Option) (*Registry, error) {
	if def == nil {
		return nil, fmt.Errorf("样式配置为空")
	}
	opts = append([]Option{WithDefaultFont(def.Font)}, opts...)
	logger := newOptions(opts).logger

	r := &Registry{
		subStyles: make(map[string][]string, len(def.Styles)),
		templates: map[string]*Template{},
	}
	for _, style := range def.Styles {
		r.styles = append(r.styles, style.Name)
		for _, sub := range style.SubStyles {
			key := registryKey(style.Name, sub.Name)
			t, err := New(sub, opts...)
			if err != nil {
				return nil, fmt.Errorf("编译模板 %s 失败: %w", key, err)
			}
			r.subStyles[style.Name] = append(r.subStyles[style.Name], sub.Name)
			r.templates[key] = t
			logger.Info("template compiled",
				zap.String("style", style.Name),
				zap.String("sub", sub.Name),
				zap.Int("inputs", t.Inputs()))
		}
	}
	return r, nil
}

// Lookup 按 style 与 sub 名称查找模板。
func (r *Registry) Lookup(style, sub string) (*Template, bool) {
	t, ok := r.templates[registryKey(style, sub)]
	return t, ok
}

// Styles 返回样式名称，顺序与配置一致。
func (r *Registry) Styles() []string { return append([]string(nil), r.styles...) }

// SubStyles 返回某个样式下的子样式名称。
func (r *Registry) SubStyles(style string) []string {
	return append([]string(nil), r.subStyles[style]...)
}
