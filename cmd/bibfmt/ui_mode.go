package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

// minUIFiles: меньше файлов прогресс не нужен, хватит строки на файл.
const minUIFiles = 8

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI decides on the progress view. Auto mode wants a terminal
// that can redraw, enough files to be worth a screen and no CI runner.
func shouldUseTUI(mode uiMode, files int) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return files >= minUIFiles && interactiveEnv(os.Getenv) && isTerminal(os.Stdout)
}

// interactiveEnv rejects dumb terminals and the CI variable most runners set.
func interactiveEnv(getenv func(string) string) bool {
	if getenv("TERM") == "dumb" {
		return false
	}
	ci := strings.ToLower(getenv("CI"))
	return ci == "" || ci == "false" || ci == "0"
}
