package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"poolman/internal/ipc"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 14
	statusIndent     = "  "
)

func renderStatus(out io.Writer, resp *ipc.StatusResponse, colorize bool) {
	for _, line := range renderSectionHeader("Poolman Status", colorize) {
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out, renderStatusLine("Daemon", statusOK, fmt.Sprintf("Running (pid %d)", resp.PID), colorize))

	installedKind := statusWarn
	installedMsg := "Not installed; run `poolman install`"
	if resp.Installed {
		installedKind = statusOK
		installedMsg = "Installed"
	}
	fmt.Fprintln(out, renderStatusLine("Binary", installedKind, installedMsg, colorize))

	if resp.PoolRunning {
		fmt.Fprintln(out, renderStatusLine("Mining", statusOK, "Running", colorize))
		fmt.Fprintln(out, renderStatusLine("Hashrate", statusInfo, formatHashrate(resp.Hashrate), colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Mining", statusInfo, "Stopped", colorize))
	}
	fmt.Fprintln(out, renderStatusLine("Session", statusInfo, resp.SessionID, colorize))
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
