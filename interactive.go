package main

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"go.uber.org/zap"

	"github.com/ByLCY/stickers/session"
	"github.com/ByLCY/stickers/template"
)

// errReset 表示用户在对话中选择了 reset。
var errReset = errors.New("已重置")

// prompter 向用户提问；keyboard 非空时只能从按钮中选择。
type prompter interface {
	Ask(message string, keyboard session.Keyboard) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Ask(message string, keyboard session.Keyboard) (string, error) {
	var out string
	if len(keyboard) > 0 {
		var options []string
		for _, row := range keyboard {
			options = append(options, row...)
		}
		prompt := &survey.Select{Message: message, Options: options}
		if err := survey.AskOne(prompt, &out); err != nil {
			return "", err
		}
		return out, nil
	}
	prompt := &survey.Input{Message: message}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return out, nil
}

func runInteractive(reg *template.Registry, outputPath string, logger *zap.Logger) error {
	return converse(session.New(reg, session.NewMenus(reg), logger), surveyPrompter{}, outputPath)
}

// converse 驱动会话直到生成图像、重置或出错。
func converse(s *session.Session, p prompter, outputPath string) error {
	reply := s.Start()
	answer := ""
	for {
		if reply.Image != nil {
			return writePNG(reply.Image, outputPath)
		}
		if s.Step() == session.StepInit {
			if answer == session.ResetButton {
				return errReset
			}
			return errors.New(reply.Text)
		}
		if reply.Preview != "" {
			fmt.Printf("预览: %s\n", reply.Preview)
		}
		message := reply.Text
		if message == "" {
			message = ">"
		}
		var err error
		if answer, err = p.Ask(message, reply.Keyboard); err != nil {
			return err
		}
		reply = s.Handle(answer)
	}
}
