package fonts

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Metrics 是一段文本在给定字体下的渲染范围（像素）。
// Ascent/Descent 取字形的实际墨迹范围，而不是字体的设计上升/下降部。
type Metrics struct {
	Width   float64 `json:"width"`
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

// Height is the ink height of the measured text.
func (m Metrics) Height() float64 { return m.Ascent + m.Descent }

// Measure 测量 text 在 d 下的尺寸。它只依赖两个参数：
// 每次调用都创建私有的 opentype.Face，共享的只有解析后只读的字体数据。
func Measure(text string, d Descriptor) Metrics {
	if text == "" {
		return Metrics{}
	}
	f, err := openType(d.Face)
	if err != nil {
		return Metrics{}
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    d.Size,
		DPI:     72, // 72 DPI 下 1pt == 1px
		Hinting: font.HintingNone,
	})
	if err != nil {
		return Metrics{}
	}
	defer face.Close()

	bounds, advance := font.BoundString(face, text)
	return Metrics{
		Width:   toFloat(advance),
		Ascent:  max(0, -toFloat(bounds.Min.Y)),
		Descent: max(0, toFloat(bounds.Max.Y)),
	}
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
