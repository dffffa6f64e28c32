package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// progressUI decides whether a run renders the Bubble Tea view on w.
// Only directory runs qualify, and --quiet always wins.
func (s *session) progressUI(w io.Writer, dirRun bool) bool {
	if !dirRun || s.quiet {
		return false
	}
	switch s.uiMode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
