package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ByLCY/stickers/config"
	"github.com/ByLCY/stickers/layout"
	"github.com/ByLCY/stickers/logging"
	"github.com/ByLCY/stickers/template"
)

func main() {
	// .env 可选，缺失时只使用真实环境变量。
	_ = godotenv.Load()

	configPath := flag.String("config", envOr("STICKERS_CONFIG", "config.yaml"), "样式配置文件路径")
	style := flag.String("style", "", "样式名称")
	sub := flag.String("sub", "", "子样式名称")
	output := flag.String("out", "output/sticker.png", "PNG 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	list := flag.Bool("list", false, "列出所有样式与子样式")
	interactive := flag.Bool("i", false, "以对话方式选择样式并输入参数")
	logFile := flag.String("log-file", os.Getenv("STICKERS_LOG_FILE"), "日志文件路径（JSON，按大小轮转）")
	dev := flag.Bool("dev", envBool("STICKERS_DEV"), "开发模式日志")
	flag.Parse()

	logger := logging.New(logging.Options{
		Development: *dev,
		Level:       os.Getenv("STICKERS_LOG_LEVEL"),
		File:        *logFile,
	})
	defer logger.Sync()

	def, err := config.LoadFile(*configPath)
	if err != nil {
		logger.Fatal("加载样式配置失败", zap.String("path", *configPath), zap.Error(err))
	}
	reg, err := template.NewRegistry(def, template.WithLogger(logger))
	if err != nil {
		logger.Fatal("编译模板失败", zap.Error(err))
	}

	switch {
	case *list:
		printStyles(os.Stdout, reg)
		return
	case *interactive:
		err = runInteractive(reg, *output, logger)
		if errors.Is(err, errReset) {
			fmt.Println(err)
			return
		}
	default:
		err = run(reg, *style, *sub, flag.Args(), *output, *debug)
	}
	if err != nil {
		logger.Fatal("生成贴纸失败", zap.Error(err))
	}
	fmt.Printf("已生成贴纸：%s\n", *output)
}

// run 查找模板、渲染并写出 PNG。
func run(reg *template.Registry, style, sub string, args []string, outputPath, debugPath string) error {
	t, ok := reg.Lookup(style, sub)
	if !ok {
		return fmt.Errorf("未找到模板 %s/%s", style, sub)
	}

	if debugPath != "" {
		g, err := t.Solve(args)
		if err != nil {
			return fmt.Errorf("布局求解失败: %w", err)
		}
		if err := writeDebug(g, debugPath); err != nil {
			return err
		}
	}

	img, err := t.Render(args)
	if err != nil {
		return fmt.Errorf("渲染贴纸失败: %w", err)
	}
	return writePNG(img, outputPath)
}

func writePNG(img image.Image, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建 PNG 文件失败: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return f.Close()
}

func writeDebug(g *layout.Geometry, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(g, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func printStyles(w io.Writer, reg *template.Registry) {
	header := color.New(color.FgCyan, color.Bold)
	name := color.New(color.FgGreen)
	hint := color.New(color.FgHiBlack)
	for _, style := range reg.Styles() {
		header.Fprintln(w, style)
		for _, sub := range reg.SubStyles(style) {
			t, _ := reg.Lookup(style, sub)
			fmt.Fprint(w, "  ")
			name.Fprint(w, sub)
			hint.Fprintf(w, " (%d 个参数)\n", t.Inputs())
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
