package layout

import "math"

// 该文件定义求解结果，供模板合成与调试 JSON 共用。坐标单位均为像素，原点在左上角。

// Size 是组件的固有尺寸。
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box 是某个组件求解后的矩形。
type Box struct {
	Name   string  `json:"name"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b Box) Right() float64  { return b.Left + b.Width }
func (b Box) Bottom() float64 { return b.Top + b.Height }

// Geometry 记录一次求解的容器尺寸与全部组件矩形，Boxes 与组件声明顺序一致。
type Geometry struct {
	Container Size  `json:"container"`
	Boxes     []Box `json:"boxes"`
}

// Box returns the box of the named component.
func (g *Geometry) Box(name string) (Box, bool) {
	for _, b := range g.Boxes {
		if b.Name == name {
			return b, true
		}
	}
	return Box{}, false
}

// Bounds 返回容器与所有矩形的最大外沿。
func (g *Geometry) Bounds() (width, height float64) {
	width, height = g.Container.Width, g.Container.Height
	for _, b := range g.Boxes {
		width = math.Max(width, b.Right())
		height = math.Max(height, b.Bottom())
	}
	return width, height
}
