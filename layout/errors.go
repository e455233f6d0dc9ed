package layout

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// ErrSyntax 表示约束文本无法解析。
	ErrSyntax = errors.New("语法错误")
	// ErrUnknownKey 表示约束引用了不存在的组件。
	ErrUnknownKey = errors.New("未知的组件")
	// ErrUnreferenced 表示组件没有出现在任何约束中。
	ErrUnreferenced = errors.New("组件未被约束引用")
	// ErrInfeasible 表示必需约束互相矛盾。
	ErrInfeasible = errors.New("约束无解")
)

// Error 是布局编译或求解失败时返回的错误，Pos 在能定位时记录源码位置。
type Error struct {
	Pos lexer.Position
	Msg string
	Err error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Pos.Line > 0 {
		return fmt.Sprintf("布局约束第 %d 行第 %d 列: %s", e.Pos.Line, e.Pos.Column, msg)
	}
	return "布局约束: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

func errorAt(pos lexer.Position, err error, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...), Err: err}
}
