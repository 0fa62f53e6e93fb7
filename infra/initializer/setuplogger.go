package initializer

import (
	"io"
	"log/slog"

	"github.com/amirasaad/marketsim/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var formatters = map[string]log.Formatter{
	"json":   log.JSONFormatter,
	"text":   log.TextFormatter,
	"logfmt": log.LogfmtFormatter,
}

// SetupLogger builds the process logger on top of charmbracelet/log, installs
// it as the slog default and returns it.
func SetupLogger(cfg *config.Log, w io.Writer) *slog.Logger {
	styles := log.DefaultStyles()
	infoTxtColor := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warnTxtColor := lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	errorTxtColor := lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	debugTxtColor := lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}

	level := func(symbol string, color lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().
			SetString(symbol).
			Bold(true).
			Padding(0, 1).
			Foreground(color)
	}
	styles.Levels[log.ErrorLevel] = level("ERR", errorTxtColor)
	styles.Levels[log.WarnLevel] = level("WRN", warnTxtColor)
	styles.Levels[log.InfoLevel] = level("INF", infoTxtColor)
	styles.Levels[log.DebugLevel] = level("DBG", debugTxtColor)

	styles.Keys["error"] = lipgloss.NewStyle().Foreground(errorTxtColor)
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["actor"] = lipgloss.NewStyle().Foreground(infoTxtColor)
	styles.Values["actor"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["name"] = lipgloss.NewStyle().Foreground(infoTxtColor)
	styles.Values["name"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["cycle"] = lipgloss.NewStyle().Foreground(warnTxtColor)
	styles.Values["cycle"] = lipgloss.NewStyle().Bold(true)

	formatter := log.TextFormatter
	if f, ok := formatters[cfg.Format]; ok {
		formatter = f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	logger.SetStyles(styles)

	slogger := slog.New(logger)
	slog.SetDefault(slogger)
	return slogger
}
