package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/derailed/tcell/v2"
	"gopkg.in/yaml.v3"
)

// Color is a theme color that converts to a tcell color on demand
type Color string

// Color converts the name or hex value to a tcell.Color
func (c Color) Color() tcell.Color {
	if c == "" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c))
}

// ColorsConfig defines the client's theme palette
type ColorsConfig struct {
	Body struct {
		FgColor Color `yaml:"fgColor"`
		BgColor Color `yaml:"bgColor"`
	} `yaml:"body"`
	Frame struct {
		TitleColor  Color `yaml:"titleColor"`
		BorderColor Color `yaml:"borderColor"`
		FocusColor  Color `yaml:"focusColor"`
	} `yaml:"frame"`
	Status struct {
		InfoColor    Color `yaml:"infoColor"`
		WarningColor Color `yaml:"warningColor"`
		ErrorColor   Color `yaml:"errorColor"`
		SuccessColor Color `yaml:"successColor"`
	} `yaml:"status"`
	Email struct {
		UnprocessedColor Color `yaml:"unprocessedColor"`
		ProcessedColor   Color `yaml:"processedColor"`
		CategoryColor    Color `yaml:"categoryColor"`
	} `yaml:"email"`
}

// DefaultColors returns the built-in dark palette
func DefaultColors() *ColorsConfig {
	cc := &ColorsConfig{}
	cc.Body.FgColor = "white"
	cc.Body.BgColor = "black"
	cc.Frame.TitleColor = "aqua"
	cc.Frame.BorderColor = "gray"
	cc.Frame.FocusColor = "aqua"
	cc.Status.InfoColor = "skyblue"
	cc.Status.WarningColor = "orange"
	cc.Status.ErrorColor = "red"
	cc.Status.SuccessColor = "green"
	cc.Email.UnprocessedColor = "orange"
	cc.Email.ProcessedColor = "white"
	cc.Email.CategoryColor = "aqua"
	return cc
}

// ThemeLoader loads YAML theme files from a directory
type ThemeLoader struct {
	themesDir string
}

// NewThemeLoader creates a theme loader rooted at themesDir
func NewThemeLoader(themesDir string) *ThemeLoader {
	return &ThemeLoader{themesDir: themesDir}
}

// LoadThemeFromFile loads a theme by file name, trying the themes
// directory first and then an absolute path
func (tl *ThemeLoader) LoadThemeFromFile(filename string) (*ColorsConfig, error) {
	path := filepath.Join(tl.themesDir, filename)
	if !fileExists(path) {
		path = filename
		if !fileExists(path) {
			return nil, fmt.Errorf("theme file not found: %s", filename)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	theme := DefaultColors()
	if err := yaml.Unmarshal(data, theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}
	return theme, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
