package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
	"golang.org/x/image/font/opentype"
)

// Family 表示内置字体族。贴纸模板只接受字体描述字符串，不管理外部字体文件。
type Family int

const (
	FamilyGo Family = iota
	FamilyMono
	FamilySmallcaps
)

func (f Family) String() string {
	switch f {
	case FamilyMono:
		return "go mono"
	case FamilySmallcaps:
		return "go smallcaps"
	default:
		return "go"
	}
}

// Weight 字重，内置字体只有常规、中等与粗体三档。
type Weight int

const (
	WeightRegular Weight = iota
	WeightMedium
	WeightBold
)

func (w Weight) String() string {
	switch w {
	case WeightMedium:
		return "medium"
	case WeightBold:
		return "bold"
	default:
		return "normal"
	}
}

// Face 唯一确定一份内置 TTF 数据。
type Face struct {
	Family Family
	Weight Weight
	Italic bool
}

// Key 用于渲染阶段的字体族缓存。
func (f Face) Key() string {
	if f.Italic {
		return fmt.Sprintf("%s|%s|italic", f.Family, f.Weight)
	}
	return fmt.Sprintf("%s|%s", f.Family, f.Weight)
}

// Load 返回内置字体的 TTF 字节。缺失的组合（如 mono medium、smallcaps bold）回退到同族最接近的字体。
func Load(face Face) []byte {
	switch face.Family {
	case FamilyMono:
		switch {
		case face.Weight == WeightBold && face.Italic:
			return gomonobolditalic.TTF
		case face.Weight == WeightBold:
			return gomonobold.TTF
		case face.Italic:
			return gomonoitalic.TTF
		default:
			return gomono.TTF
		}
	case FamilySmallcaps:
		if face.Italic {
			return gosmallcapsitalic.TTF
		}
		return gosmallcaps.TTF
	default:
		switch {
		case face.Weight == WeightBold && face.Italic:
			return gobolditalic.TTF
		case face.Weight == WeightBold:
			return gobold.TTF
		case face.Weight == WeightMedium && face.Italic:
			return gomediumitalic.TTF
		case face.Weight == WeightMedium:
			return gomedium.TTF
		case face.Italic:
			return goitalic.TTF
		default:
			return goregular.TTF
		}
	}
}

type parsedFont struct {
	once sync.Once
	font *opentype.Font
	err  error
}

var (
	parsedMu sync.Mutex
	parsed   = map[string]*parsedFont{}
)

// openType 返回解析后的字体。解析结果只写一次，之后只读，可被并发的测量调用共享。
func openType(face Face) (*opentype.Font, error) {
	key := face.Key()
	parsedMu.Lock()
	entry, ok := parsed[key]
	if !ok {
		entry = &parsedFont{}
		parsed[key] = entry
	}
	parsedMu.Unlock()

	entry.once.Do(func() {
		entry.font, entry.err = opentype.Parse(Load(face))
		if entry.err != nil {
			entry.err = fmt.Errorf("解析内置字体 %s 失败: %w", key, entry.err)
		}
	})
	return entry.font, entry.err
}
