package component

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange 表示 reftext 引用的输入下标不存在。
var ErrIndexOutOfRange = errors.New("输入下标越界")

// IndexError 记录越界的组件与下标，errors.Is(err, ErrIndexOutOfRange) 成立。
type IndexError struct {
	Component string
	Ref       int
	Inputs    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("组件 %s 引用了第 %d 个输入，但只提供了 %d 个: %v", e.Component, e.Ref, e.Inputs, ErrIndexOutOfRange)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }
