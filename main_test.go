package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/stickers/config"
	"github.com/ByLCY/stickers/session"
	"github.com/ByLCY/stickers/template"
)

const cliConfig = `
styles:
  basic:
    hello:
      inputs: 1
      components:
        bg: { type: fill, color: black }
        label: { type: reftext, ref: 0, color: white, font: "24px sans-serif" }
      layout: |
        HV:|[bg]|
        HV:|~(>=8)~[label]~|
`

func newRegistry(t *testing.T) *template.Registry {
	t.Helper()
	def, err := config.Load(strings.NewReader(cliConfig))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	reg, err := template.NewRegistry(def)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func TestRunWritesPNGAndDebug(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "sticker.png")
	debug := filepath.Join(dir, "debug", "geometry.json")
	if err := run(newRegistry(t), "basic", "hello", []string{"HI"}, out, debug); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() < 16 || b.Dy() < 16 {
		t.Fatalf("unexpectedly small sticker %v", b)
	}

	data, err := os.ReadFile(debug)
	if err != nil {
		t.Fatalf("read debug: %v", err)
	}
	var geo struct {
		Boxes []struct {
			Name string `json:"name"`
		} `json:"boxes"`
	}
	if err := json.Unmarshal(data, &geo); err != nil {
		t.Fatalf("decode debug json: %v", err)
	}
	if len(geo.Boxes) != 2 || geo.Boxes[0].Name != "bg" || geo.Boxes[1].Name != "label" {
		t.Fatalf("unexpected debug boxes %+v", geo.Boxes)
	}
}

func TestRunErrors(t *testing.T) {
	reg := newRegistry(t)
	out := filepath.Join(t.TempDir(), "sticker.png")
	if err := run(reg, "basic", "missing", nil, out, ""); err == nil {
		t.Fatalf("expected unknown template error")
	}
	if err := run(reg, "basic", "hello", []string{"a", "b"}, out, ""); !errors.Is(err, template.ErrInputCount) {
		t.Fatalf("expected ErrInputCount, got %v", err)
	}
}

func TestPrintStyles(t *testing.T) {
	var buf bytes.Buffer
	printStyles(&buf, newRegistry(t))
	out := buf.String()
	if !strings.Contains(out, "basic") || !strings.Contains(out, "hello") || !strings.Contains(out, "1 个参数") {
		t.Fatalf("unexpected listing: %q", out)
	}
}

// scriptedPrompter 按顺序回答问题。
type scriptedPrompter struct {
	answers []string
}

func (p *scriptedPrompter) Ask(string, session.Keyboard) (string, error) {
	if len(p.answers) == 0 {
		return "", errors.New("no more answers")
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func TestConverse(t *testing.T) {
	reg := newRegistry(t)
	out := filepath.Join(t.TempDir(), "sticker.png")

	s := session.New(reg, session.NewMenus(reg), nil)
	if err := converse(s, &scriptedPrompter{answers: []string{"basic", "hello", "HEY"}}, out); err != nil {
		t.Fatalf("converse failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected png output: %v", err)
	}

	s = session.New(reg, session.NewMenus(reg), nil)
	if err := converse(s, &scriptedPrompter{answers: []string{session.ResetButton}}, out); !errors.Is(err, errReset) {
		t.Fatalf("expected errReset, got %v", err)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("STICKERS_TEST_VALUE", "custom")
	t.Setenv("STICKERS_TEST_BOOL", "true")
	if got := envOr("STICKERS_TEST_VALUE", "default"); got != "custom" {
		t.Fatalf("envOr = %q", got)
	}
	if got := envOr("STICKERS_TEST_UNSET", "default"); got != "default" {
		t.Fatalf("envOr fallback = %q", got)
	}
	if !envBool("STICKERS_TEST_BOOL") || envBool("STICKERS_TEST_UNSET") {
		t.Fatalf("envBool mismatch")
	}
}
