// Package prompt asks the user which DTO roots to generate.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var (
	// ErrAborted is returned when the user interrupts a prompt.
	ErrAborted = errors.New("prompt: aborted")
	// ErrNothingSelected is returned when the user confirms an empty selection.
	ErrNothingSelected = errors.New("prompt: nothing selected")
)

// SelectConfig configures a multi-select prompt.
type SelectConfig struct {
	Message  string
	Options  []string
	Defaults []int
	Help     string
	PageSize int
}

// Driver abstracts the terminal so selection logic is testable.
type Driver interface {
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
}

// Survey returns the terminal driver.
func Survey() Driver {
	return surveyDriver{}
}

type surveyDriver struct{}

func (surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	prompt := &survey.MultiSelect{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if len(cfg.Defaults) > 0 {
		prompt.Default = defaultsFromIndices(cfg.Options, cfg.Defaults)
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, ErrAborted
		}
		return nil, err
	}
	return indicesOf(cfg.Options, out), nil
}

// SelectRoots lets the user pick from roots. Options show the simple name
// followed by the package; every root is preselected.
func SelectRoots(ctx context.Context, driver Driver, roots []string) ([]string, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is nil")
	}
	if len(roots) == 0 {
		return nil, ErrNothingSelected
	}
	options := make([]string, len(roots))
	defaults := make([]int, len(roots))
	for i, root := range roots {
		options[i] = label(root)
		defaults[i] = i
	}
	picked, err := driver.MultiSelect(ctx, SelectConfig{
		Message:  fmt.Sprintf("Generate DTOs for (%d annotated types):", len(roots)),
		Options:  options,
		Defaults: defaults,
		Help:     "space toggles, enter confirms",
		PageSize: 15,
	})
	if err != nil {
		return nil, err
	}
	var out []string
	for _, idx := range picked {
		if idx >= 0 && idx < len(roots) {
			out = append(out, roots[idx])
		}
	}
	if len(out) == 0 {
		return nil, ErrNothingSelected
	}
	return out, nil
}

func label(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name[idx+1:], name[:idx])
}

func indicesOf(options, values []string) []int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := seen[option]; ok {
			out = append(out, i)
		}
	}
	return out
}

func defaultsFromIndices(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
