package template

import (
	"go.uber.org/zap"

	"github.com/ByLCY/stickers/fonts"
)

// Option 配置模板编译。
type Option func(*options)

type options struct {
	defaultFont fonts.Descriptor
	spacing     float64
	logger      *zap.Logger
}

func newOptions(opts []Option) options {
	o := options{
		defaultFont: fonts.MustParseDescriptor(fonts.DefaultDescriptor),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDefaultFont 设置组件未声明 font 时使用的字体。
func WithDefaultFont(d fonts.Descriptor) Option {
	return func(o *options) {
		if d.Size > 0 {
			o.defaultFont = d
		}
	}
}

// WithSpacing 设置约束中 "-" 的默认间距。
func WithSpacing(v float64) Option {
	return func(o *options) { o.spacing = v }
}

// WithLogger 设置日志输出。
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
