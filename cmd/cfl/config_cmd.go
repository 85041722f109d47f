package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/igusev/cfl/internal/config"
	"github.com/igusev/cfl/internal/dataset"
	"github.com/igusev/cfl/internal/logger"
	"github.com/igusev/cfl/internal/model"
)

var (
	configExample bool // Flag to write an example config and exit
	configShow    bool // Flag to print the effective config and exit
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure the company list source",
	Long: `Interactive configuration wizard to set up the company list location.
Creates or updates the configuration file at ~/.config/cfl/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configExample, "example", false, "write ~/.config/cfl/config.yaml.example and exit")
	configCmd.Flags().BoolVar(&configShow, "show", false, "print the effective configuration as YAML and exit")
	rootCmd.AddCommand(configCmd)
}

// probeFunc loads the company list from a candidate source
type probeFunc func(ctx context.Context, src config.SourceConfig) (model.CompanyList, error)

func probeSource(ctx context.Context, src config.SourceConfig) (model.CompanyList, error) {
	return dataset.Load(ctx, dataset.NewSource(src))
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if configExample {
		if err := config.CreateExampleConfig(); err != nil {
			return fmt.Errorf("failed to create example config: %w", err)
		}
		printSuccess(out, "Example configuration written to "+config.ExampleConfigPath())
		return nil
	}

	// Load existing config if available
	existing, err := loadConfig(sourceOverride)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			logger.Warn("Ignoring existing configuration: %v", err)
		}
		existing = config.Default("")
	}

	if configShow {
		return showConfig(out, existing)
	}

	printLogo(out, version)
	cfg, err := runConfigWizard(cmd.Context(), cmd.InOrStdin(), out, existing, probeSource)
	if err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	printSuccess(out, "Configuration saved to "+config.FilePath())
	printMuted(out, "You can now run 'cfl' to look up companies.")
	return nil
}

// runConfigWizard asks for the source settings, checks that the list loads
// and returns the updated configuration. Empty answers keep existing values.
func runConfigWizard(ctx context.Context, in io.Reader, out io.Writer, existing *config.Config, probe probeFunc) (*config.Config, error) {
	reader := bufio.NewReader(in)
	cfg := *existing

	location, err := askString(reader, out, "Company list URL or file path", existing.Source.Location)
	if err != nil {
		return nil, err
	}
	if location == "" {
		return nil, errors.New("company list location is required")
	}
	cfg.Source.Location = location

	if cfg.Source.Timeout, err = askInt(reader, out, "Fetch timeout in seconds", existing.Source.Timeout, 1); err != nil {
		return nil, err
	}
	if cfg.Source.Retries, err = askInt(reader, out, "Transport retries per fetch", existing.Source.Retries, 0); err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "\nLoading %s...\n", cfg.Source.Location)
	list, err := probe(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to load company list: %w", err)
	}
	printSuccess(out, fmt.Sprintf("Loaded %d companies (updated %s)", list.Len(), list.UpdateTime))

	return &cfg, nil
}

// readAnswer reads one line; EOF after a partial or empty line is not an error
func readAnswer(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func askString(reader *bufio.Reader, out io.Writer, label, current string) (string, error) {
	prompt := label
	if current != "" {
		prompt += fmt.Sprintf(" [%s]", current)
	}
	printPrompt(out, prompt+": ")

	answer, err := readAnswer(reader)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

// askInt reads an integer of at least minValue; invalid answers keep current
func askInt(reader *bufio.Reader, out io.Writer, label string, current, minValue int) (int, error) {
	printPrompt(out, fmt.Sprintf("%s [%d]: ", label, current))

	answer, err := readAnswer(reader)
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return current, nil
	}

	var value int
	if _, err := fmt.Sscanf(answer, "%d", &value); err != nil || value < minValue {
		printWarning(out, fmt.Sprintf("invalid value '%s', using %d", answer, current))
		return current, nil
	}
	return value, nil
}

// showConfig prints cfg as YAML
func showConfig(w io.Writer, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
