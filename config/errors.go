package config

import (
	"errors"
	"fmt"
)

// ErrUnknownComponentType 表示组件的 type 判别字段不是 text/reftext/fill 之一。
var ErrUnknownComponentType = errors.New("未知的组件类型")

// Error 是加载或校验样式配置时的错误，Path 为出错节点的点分路径。
type Error struct {
	Path string
	Line int
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path == "":
		return fmt.Sprintf("配置错误: %v", e.Err)
	case e.Line > 0:
		return fmt.Sprintf("配置错误 %s (第 %d 行): %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("配置错误 %s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(path string, format string, args ...any) *Error {
	return &Error{Path: path, Err: fmt.Errorf(format, args...)}
}

func joinPath(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += "."
		}
		out += p
	}
	return out
}
