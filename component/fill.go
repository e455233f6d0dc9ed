package component

import (
	"image/color"

	"github.com/ByLCY/stickers/layout"
	canvasrenderer "github.com/ByLCY/stickers/renderer/canvas"
)

// fillComponent 没有固有尺寸，铺满布局分配的矩形。
type fillComponent struct {
	name  string
	color color.NRGBA
}

func (c *fillComponent) Name() string { return c.name }

func (c *fillComponent) Instantiate([]string) (*Instance, error) {
	col := c.color
	return &Instance{
		Paint: func(s *canvasrenderer.Surface, box layout.Box) error {
			s.FillRect(box.Left, box.Top, box.Width, box.Height, col)
			return nil
		},
	}, nil
}
