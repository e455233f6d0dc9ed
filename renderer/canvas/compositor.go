package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/stickers/fonts"
)

var transparent = color.RGBA{}

// Layer 在 Surface 上绘制一个组件。图层按切片顺序绘制，后绘制的覆盖先绘制的。
type Layer func(s *Surface) error

// Composite 创建 ceil(width)×ceil(height) 像素（至少 1×1）的透明画布，依次绘制图层并栅格化。
// 画布坐标以左上角为原点，1 单位 = 1 像素；超出画布的绘制会被裁剪。
func Composite(width, height float64, layers []Layer) (*image.RGBA, error) {
	w, h := PixelSize(width), PixelSize(height)
	c := canvas.New(float64(w), float64(h))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	s := newSurface(ctx)
	for i, layer := range layers {
		ctx.Push()
		err := layer(s)
		ctx.Pop()
		if err != nil {
			return nil, fmt.Errorf("绘制第 %d 个图层失败: %w", i, err)
		}
	}
	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), nil
}

// PixelSize 把布局尺寸向上取整为像素数，容忍求解器留下的微小误差。
func PixelSize(v float64) int {
	n := int(math.Ceil(v - 1e-6))
	if n < 1 {
		return 1
	}
	return n
}

// Surface 是单次合成的绘制目标。它持有本次请求的字体族缓存，不能跨请求共享。
type Surface struct {
	ctx      *canvas.Context
	families map[fonts.Family]*canvas.FontFamily
	loaded   map[string]bool
}

func newSurface(ctx *canvas.Context) *Surface {
	return &Surface{
		ctx:      ctx,
		families: map[fonts.Family]*canvas.FontFamily{},
		loaded:   map[string]bool{},
	}
}

// FillRect 用纯色填充矩形。
func (s *Surface) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	s.ctx.SetFillColor(col)
	s.ctx.SetStrokeColor(transparent)
	s.ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

// Text 以 (x, baseline) 为基线起点绘制单行文本。
func (s *Surface) Text(x, baseline float64, text string, font fonts.Descriptor, col color.Color) error {
	if text == "" {
		return nil
	}
	face, err := s.fontFace(font, col)
	if err != nil {
		return err
	}
	s.ctx.DrawText(x, baseline, canvas.NewTextLine(face, text, canvas.Left))
	return nil
}

// HLine 绘制一条水平线，y 是线条中心。
func (s *Surface) HLine(x, y, length, thickness float64, col color.Color) {
	if length <= 0 || thickness <= 0 {
		return
	}
	s.ctx.SetFillColor(transparent)
	s.ctx.SetStrokeColor(col)
	s.ctx.SetStrokeWidth(thickness)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(length, 0)
	s.ctx.DrawPath(x, y, p)
}

func (s *Surface) fontFace(font fonts.Descriptor, col color.Color) (*canvas.FontFace, error) {
	family, ok := s.families[font.Family]
	if !ok {
		family = canvas.NewFontFamily(font.Family.String())
		s.families[font.Family] = family
	}
	style := fontStyle(font.Face)
	if key := font.Face.Key(); !s.loaded[key] {
		if err := family.LoadFont(fonts.Load(font.Face), 0, style); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", key, err)
		}
		s.loaded[key] = true
	}
	// canvas 的字号单位是 pt，画布单位按 mm 计，因此像素字号需要 mm→pt。
	return family.Face(font.Size*fonts.MmToPt, col, style, canvas.FontNormal), nil
}

func fontStyle(face fonts.Face) canvas.FontStyle {
	result := canvas.FontRegular
	switch face.Weight {
	case fonts.WeightBold:
		result = canvas.FontBold
	case fonts.WeightMedium:
		result = canvas.FontMedium
	}
	if face.Italic {
		result |= canvas.FontItalic
	}
	return result
}
