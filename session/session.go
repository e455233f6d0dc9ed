package session

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ByLCY/stickers/renderer"
	"github.com/ByLCY/stickers/template"
)

// Step 是会话所处的阶段。
type Step int

const (
	StepInit Step = iota
	StepStart
	StepSelectedType
	StepSelectedSubType
)

func (s Step) String() string {
	switch s {
	case StepStart:
		return "start"
	case StepSelectedType:
		return "selected_type"
	case StepSelectedSubType:
		return "selected_subtype"
	default:
		return "init"
	}
}

const (
	CommandStart  = "/start"
	CommandCreate = "/start create"
)

// Reply 是会话对一条消息的回应，与具体的聊天平台无关。
type Reply struct {
	Text           string
	Keyboard       Keyboard
	RemoveKeyboard bool
	// Preview 是子样式配置的预览标识，由集成方决定如何展示。
	Preview string
	Image   *image.RGBA
	// Delete 表示应当删除用户发来的消息（会话未开始时）。
	Delete bool
}

// Session 是单个用户的对话状态机，不能被多个 goroutine 同时使用。
type Session struct {
	registry *template.Registry
	menus    Menus
	logger   *zap.Logger

	step     Step
	style    string
	sub      string
	renderer renderer.Renderer
	args     []string
}

// New 创建处于初始状态的会话。
func New(reg *template.Registry, menus Menus, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{registry: reg, menus: menus, logger: logger}
}

// Step returns the current step.
func (s *Session) Step() Step { return s.step }

// Start 等价于收到 /start create。
func (s *Session) Start() Reply { return s.Handle(CommandCreate) }

// Handle 处理一条文本消息并推进状态。渲染失败只会产生一条提示，不会返回错误。
func (s *Session) Handle(text string) Reply {
	switch text {
	case CommandCreate:
		s.reset(StepStart)
		return Reply{Text: "Starting create sticker, please select style", Keyboard: s.menus.Root}
	case CommandStart:
		if s.step == StepStart {
			return Reply{}
		}
		s.reset(StepStart)
		return Reply{Text: "Force reset state", Keyboard: Keyboard{{CommandCreate}}}
	}

	switch s.step {
	case StepStart:
		return s.selectStyle(text)
	case StepSelectedType:
		return s.selectSubStyle(text)
	case StepSelectedSubType:
		return s.collect(text)
	default:
		return Reply{Delete: true}
	}
}

func (s *Session) reset(step Step) {
	s.logger.Debug("session step", zap.Stringer("from", s.step), zap.Stringer("to", step))
	s.step = step
	s.style, s.sub = "", ""
	s.renderer = nil
	s.args = nil
}

func (s *Session) resetReply() Reply {
	s.reset(StepInit)
	return Reply{Text: "Reset state", RemoveKeyboard: true}
}

func (s *Session) selectStyle(text string) Reply {
	if text == ResetButton {
		return s.resetReply()
	}
	kb, ok := s.menus.Styles[text]
	if !ok {
		return Reply{Text: "Unknown style, please select again."}
	}
	s.step = StepSelectedType
	s.style = text
	return Reply{Text: "Please select sub style", Keyboard: kb}
}

func (s *Session) selectSubStyle(text string) Reply {
	if text == ResetButton {
		return s.resetReply()
	}
	t, ok := s.registry.Lookup(s.style, text)
	if !ok {
		return Reply{Text: "Unknown style, please select again."}
	}
	s.step = StepSelectedSubType
	s.sub = text
	s.renderer = t
	s.args = make([]string, 0, t.Inputs())
	if t.Inputs() == 0 {
		reply := s.render()
		reply.Preview = t.Preview()
		return reply
	}
	return Reply{
		Text:           fmt.Sprintf("You need provide %d arguments", t.Inputs()),
		Preview:        t.Preview(),
		RemoveKeyboard: true,
	}
}

func (s *Session) collect(text string) Reply {
	s.args = append(s.args, text)
	if remain := s.renderer.Inputs() - len(s.args); remain > 0 {
		return Reply{Text: fmt.Sprintf("Remain %d", remain), RemoveKeyboard: true}
	}
	return s.render()
}

func (s *Session) render() Reply {
	style, sub, args := s.style, s.sub, s.args
	img, err := s.renderer.Render(args)
	s.reset(StepInit)
	if err != nil {
		s.logger.Error("render sticker failed",
			zap.String("style", style),
			zap.String("sub", sub),
			zap.Error(err))
		return Reply{Text: "Failed to render this sticker", RemoveKeyboard: true}
	}
	s.logger.Info("sticker rendered",
		zap.String("style", style),
		zap.String("sub", sub),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return Reply{Image: img, RemoveKeyboard: true}
}
