package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/credence/internal/model"
)

const hierarchy = `Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (CREDENCE_*, then GOOGLE_API_KEY, GOOGLE_CSE_ID, NEWS_API_KEY,
     OPENAI_API_KEY, ANTHROPIC_API_KEY, OLLAMA_BASE_URL)
  3. Config file (~/.credence/config.yaml)
  4. Built-in defaults`

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Credence configuration",
	Long:  "Inspect and create the Credence configuration file.\n\n" + hierarchy,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Print the configuration after merging defaults, config file, environment and flags. Credentials are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", used)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		data, err := yaml.Marshal(redact(cfg))
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, string(data))
		fmt.Fprintln(out, hierarchy)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long:  `Create ~/.credence/config.yaml holding every option at its default value. An existing file is never overwritten.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		path := filepath.Join(home, ".credence", "config.yaml")
		if err := writeDefaultConfig(path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "  View it with: credence config show\n")
		return nil
	},
}

// writeDefaultConfig writes the commented default configuration to path with mode 0600
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Credence configuration\n#\n")
	for _, line := range strings.Split(hierarchy, "\n") {
		b.WriteString("# " + line + "\n")
	}
	b.WriteString("\n")
	b.Write(data)
	b.WriteString(`
# Credentials are better kept in the environment:
#   GOOGLE_API_KEY, GOOGLE_CSE_ID   site, fact-check and web probes
#   NEWS_API_KEY                    news probe and news sources
#   OPENAI_API_KEY | ANTHROPIC_API_KEY | OLLAMA_BASE_URL   narratives (llm.provider)
`)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// redact masks credentials before display
func redact(cfg *model.Config) *model.Config {
	masked := *cfg
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "****"
	}
	masked.Probes.GoogleAPIKey = mask(cfg.Probes.GoogleAPIKey)
	masked.Probes.GoogleCSEID = mask(cfg.Probes.GoogleCSEID)
	masked.Probes.NewsAPIKey = mask(cfg.Probes.NewsAPIKey)
	return &masked
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
