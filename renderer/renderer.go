package renderer

import "image"

// Renderer 把用户输入渲染为贴纸图像。集成方（会话、命令行）只依赖这个接口。
// Render 对同一输入总是返回像素一致的图像。
type Renderer interface {
	Render(inputs []string) (*image.RGBA, error)
	Inputs() int
}
