package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freetogether/internal/config"
	"github.com/javiermolinar/freetogether/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  freetogether config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
	cmd.AddCommand(a.configResetHoursCmd())
	return cmd
}

func (a *App) configResetHoursCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-hours",
		Short: "Restore the default business and evening hours",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.DefaultConfigPath()
			cfg, err := config.LoadFrom(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg.Hours = config.DefaultHours()
			if err := cfg.SaveTo(path); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			a.config.Hours = cfg.Hours
			fmt.Fprintf(cmd.OutOrStdout(), "Hours reset to business %s-%s, evening %s-%s\n",
				cfg.Hours.BusinessStart, cfg.Hours.BusinessEnd, cfg.Hours.EveningStart, cfg.Hours.EveningEnd)
			return nil
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(os.Stdout, cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.User.Email = promptValue(reader, "Your email", cfg.User.Email)
	cfg.User.Name = promptValue(reader, "Your name (shown to others)", cfg.User.Name)
	cfg.Hours.BusinessStart = promptValue(reader, "Business hours start", cfg.Hours.BusinessStart)
	cfg.Hours.BusinessEnd = promptValue(reader, "Business hours end", cfg.Hours.BusinessEnd)
	cfg.Hours.EveningStart = promptValue(reader, "Evening start", cfg.Hours.EveningStart)
	cfg.Hours.EveningEnd = promptValue(reader, "Evening end", cfg.Hours.EveningEnd)
	cfg.LLM.Provider = promptValue(reader, "LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Storage.Timeout = promptValue(reader, "Database timeout", cfg.Storage.Timeout)
	cfg.UI.Theme = promptTheme(reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[user]")
	fmt.Fprintf(w, "  email          = %s\n", cfg.User.Email)
	fmt.Fprintf(w, "  name           = %s\n", cfg.User.Name)
	fmt.Fprintln(w, "\n[hours]")
	fmt.Fprintf(w, "  business_start = %s\n", cfg.Hours.BusinessStart)
	fmt.Fprintf(w, "  business_end   = %s\n", cfg.Hours.BusinessEnd)
	fmt.Fprintf(w, "  evening_start  = %s\n", cfg.Hours.EveningStart)
	fmt.Fprintf(w, "  evening_end    = %s\n", cfg.Hours.EveningEnd)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider       = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model          = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url       = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path        = %s\n", cfg.Storage.DBPath)
	fmt.Fprintf(w, "  timeout        = %s\n", cfg.Storage.Timeout)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme          = %s\n", cfg.UI.Theme)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptTheme(reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Printf("  Invalid theme %q. Available: %s\n", value, options)
	}
}
