package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of --ui: whether directory runs show the progress TUI.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	if mode == "" {
		return uiModeAuto, nil
	}
	if mode != uiModeAuto && mode != uiModeOn && mode != uiModeOff {
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return mode, nil
}

// wantsTUI resolves auto against whether stdout is a terminal.
func (m uiMode) wantsTUI() bool {
	if m == uiModeAuto {
		return isTerminal(os.Stdout)
	}
	return m == uiModeOn
}
