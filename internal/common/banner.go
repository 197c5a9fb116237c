package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner to stderr.
func PrintBanner(config *Config, logger *Logger) {
	version := GetVersion()
	build := GetBuild()
	commit := GetGitCommit()

	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 70
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` Y88b   d88P 8888888888 8888888b.  8888888b.  8888888 .d8888b. 88888888888`,
		`  Y88b d88P  888        888   Y88b 888  "Y88b   888  d88P  Y88b    888`,
		`   Y88o88P   888        888    888 888    888   888  888    888    888`,
		`    Y888P    8888888    888   d88P 888    888   888  888           888`,
		`     888     888        8888888P"  888    888   888  888           888`,
		`     888     888        888 T88b   888    888   888  888    888    888`,
		`     888     888        888  T88b  888  .d88P   888  Y88b  d88P    888`,
		`     888     8888888888 888   T88b 8888888P"  8888888 "Y8888P"     888`,
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s  AI Trading Analysis & Decision Reports%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	kvPad := 16
	kvLines := [][2]string{
		{"Version", version},
		{"Build", build},
		{"Commit", commit},
		{"Environment", config.Environment},
		{"Engine Model", config.Clients.Engine.Model},
		{"Output", config.Output.Path},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "%s\n", hr)
	fmt.Fprintf(os.Stderr, "\n")

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("commit", commit).
		Str("environment", config.Environment).
		Str("engine_model", config.Clients.Engine.Model).
		Str("output", config.Output.Path).
		Msg("Application started")
}
