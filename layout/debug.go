package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将求解结果输出为 JSON，便于调试约束。
func WriteDebugJSON(g *Geometry, path string) error {
	if g == nil {
		return nil
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
