package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/awase/internal/config"
	"github.com/javiermolinar/awase/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  awase config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.OutOrStdout(), bufio.NewReader(cmd.InOrStdin()))
		},
	}
}

func runConfigInteractive(w io.Writer, reader *bufio.Reader) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(w, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Fprintln(w, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(w, "Created %s\n\n", configPath)
	}

	printConfig(w, cfg)

	if !promptYesNo(w, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Event.DefaultStart = promptValue(w, reader, "Default start", cfg.Event.DefaultStart)
	cfg.Event.DefaultEnd = promptValue(w, reader, "Default end", cfg.Event.DefaultEnd)
	cfg.Event.Weekdays = promptSlice(w, reader, "Weekdays for --from/--to (comma-separated)", cfg.Event.Weekdays)
	cfg.Event.ExpiryDays = promptInt(w, reader, "Expiry (days)", cfg.Event.ExpiryDays)
	cfg.Event.BaseURL = promptValue(w, reader, "Share link base URL", cfg.Event.BaseURL)
	cfg.LLM.Provider = promptValue(w, reader, "LLM provider (ollama, lmstudio, openai)", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(w, reader, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(w, reader, "LLM base URL", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = promptValue(w, reader, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(w, reader, cfg.UI.Theme)
	cfg.UI.Input = promptValue(w, reader, "Input mode (pointer, touch)", cfg.UI.Input)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[event]")
	fmt.Fprintf(w, "  default_start  = %s\n", cfg.Event.DefaultStart)
	fmt.Fprintf(w, "  default_end    = %s\n", cfg.Event.DefaultEnd)
	fmt.Fprintf(w, "  weekdays       = %s\n", strings.Join(cfg.Event.Weekdays, ", "))
	fmt.Fprintf(w, "  expiry_days    = %d\n", cfg.Event.ExpiryDays)
	fmt.Fprintf(w, "  base_url       = %s\n", cfg.Event.BaseURL)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider       = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model          = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url       = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path        = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme          = %s\n", cfg.UI.Theme)
	fmt.Fprintf(w, "  input          = %s\n", cfg.UI.Input)
	fmt.Fprintf(w, "  cell_width_px  = %d\n", cfg.UI.CellWidthPx)
	fmt.Fprintf(w, "  cell_height_px = %d\n", cfg.UI.CellHeightPx)
}

func promptYesNo(w io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(w io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptSlice(w io.Writer, reader *bufio.Reader, label string, current []string) []string {
	fmt.Fprintf(w, "  %s [%s]: ", label, strings.Join(current, ", "))
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// promptInt re-asks until the answer is a positive number.
func promptInt(w io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(w, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
		fmt.Fprintf(w, "  Invalid number %q.\n", value)
	}
}

func promptTheme(w io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(w, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
