package layout

import "go.uber.org/zap"

// DefaultSpacing 是 "-" 连接符不带数值时的间距。
const DefaultSpacing = 8.0

// Options 配置约束编译。
type Options struct {
	Spacing float64 // "-" 的默认间距，0 表示 DefaultSpacing
	Logger  *zap.Logger
}

func (o Options) spacing() float64 {
	if o.Spacing > 0 {
		return o.Spacing
	}
	return DefaultSpacing
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
