package session

import "github.com/ByLCY/stickers/template"

// ResetButton 出现在每个菜单的最后一行，选择后回到初始状态。
const ResetButton = "reset"

const subStylesPerRow = 3

// Keyboard 是按行排列的按钮文本。
type Keyboard [][]string

// Menus 在启动时根据模板注册表构建一次，之后只读。
type Menus struct {
	Root   Keyboard
	Styles map[string]Keyboard
}

// NewMenus 构建样式菜单（每行一个样式）与各子样式菜单（每行三个），末尾都附带 reset。
func NewMenus(reg *template.Registry) Menus {
	m := Menus{Styles: map[string]Keyboard{}}
	for _, style := range reg.Styles() {
		m.Root = append(m.Root, []string{style})

		var kb Keyboard
		var row []string
		for _, sub := range reg.SubStyles(style) {
			row = append(row, sub)
			if len(row) == subStylesPerRow {
				kb = append(kb, row)
				row = nil
			}
		}
		if len(row) > 0 {
			kb = append(kb, row)
		}
		m.Styles[style] = append(kb, []string{ResetButton})
	}
	m.Root = append(m.Root, []string{ResetButton})
	return m
}
