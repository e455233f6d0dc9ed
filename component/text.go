package component

import (
	"image/color"

	"github.com/ByLCY/stickers/config"
	"github.com/ByLCY/stickers/fonts"
	"github.com/ByLCY/stickers/layout"
	canvasrenderer "github.com/ByLCY/stickers/renderer/canvas"
)

type textStyle struct {
	color       color.NRGBA
	font        fonts.Descriptor
	linethrough float64
	underline   float64
}

func newTextStyle(s config.TextStyle, opts Options) textStyle {
	ts := textStyle{color: s.Color, font: opts.font(s.Font)}
	if s.Linethrough != nil {
		ts.linethrough = *s.Linethrough
	}
	if s.Underline != nil {
		ts.underline = *s.Underline
	}
	return ts
}

// textComponent 覆盖 text 与 reftext，两者只在取值方式上不同。
type textComponent struct {
	name  string
	value func(inputs []string) (string, error)
	style textStyle
}

func (c *textComponent) Name() string { return c.name }

func (c *textComponent) Instantiate(inputs []string) (*Instance, error) {
	value, err := c.value(inputs)
	if err != nil {
		return nil, err
	}
	m := fonts.Measure(value, c.style.font)
	style := c.style
	return &Instance{
		Size: &layout.Size{Width: m.Width, Height: m.Height()},
		Paint: func(s *canvasrenderer.Surface, box layout.Box) error {
			return paintText(s, box, value, m, style)
		},
	}, nil
}

// paintText 基线位于 top+ascent；删除线中心在 top+ascent/2，下划线的下沿落在基线上。
func paintText(s *canvasrenderer.Surface, box layout.Box, value string, m fonts.Metrics, style textStyle) error {
	if value == "" {
		return nil
	}
	baseline := box.Top + m.Ascent
	if err := s.Text(box.Left, baseline, value, style.font, style.color); err != nil {
		return err
	}
	if t := style.linethrough; t > 0 {
		s.HLine(box.Left, box.Top+m.Ascent/2, m.Width, t, style.color)
	}
	if t := style.underline; t > 0 {
		s.HLine(box.Left, baseline-t/2, m.Width, t, style.color)
	}
	return nil
}
