package terminal

import (
	"errors"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
)

// PromptFunc asks a yes/no question.
type PromptFunc func(question string) (bool, error)

// Confirmer gates destructive actions behind a yes/no prompt.
type Confirmer struct {
	prompt PromptFunc
	logger *zap.Logger
}

// NewConfirmer creates a Confirmer. With assumeYes every question is accepted
// without prompting.
func NewConfirmer(assumeYes bool, logger *zap.Logger) *Confirmer {
	prompt := HuhPrompt
	if assumeYes {
		prompt = func(string) (bool, error) { return true, nil }
	}
	return &Confirmer{prompt: prompt, logger: logger}
}

// NewConfirmerWithPrompt creates a Confirmer backed by prompt.
func NewConfirmerWithPrompt(prompt PromptFunc, logger *zap.Logger) *Confirmer {
	return &Confirmer{prompt: prompt, logger: logger}
}

// Confirm calls onConfirm when the user accepts message. An aborted prompt
// counts as a refusal.
func (c *Confirmer) Confirm(message string, onConfirm func()) {
	ok, err := c.prompt(message)
	if err != nil {
		if !errors.Is(err, huh.ErrUserAborted) {
			c.logger.Warn("confirmation prompt failed", zap.Error(err))
		}
		return
	}
	if ok {
		onConfirm()
	}
}

// HuhPrompt shows an interactive confirmation.
func HuhPrompt(question string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Sim").
				Negative("Não").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	return ok, err
}
