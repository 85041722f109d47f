package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/igusev/cfl/internal/config"
	"github.com/igusev/cfl/internal/dataset"
	"github.com/igusev/cfl/internal/logger"
	"github.com/igusev/cfl/internal/match"
	"github.com/igusev/cfl/internal/model"
	"github.com/igusev/cfl/internal/session"
	"github.com/igusev/cfl/internal/terms"
	"github.com/igusev/cfl/internal/tui"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"     // Version from git tag or "dev"
	commit    = "unknown" // Git commit hash (used in version output)
	buildTime = "unknown" // Build timestamp (used in version output)
)

var (
	verbose        bool   // Flag to enable verbose logging
	exactMode      bool   // Flag to use exact matching instead of fuzzy
	jsonOutput     bool   // Flag to print results as JSON
	fromStdin      bool   // Flag to read additional terms from stdin
	sourceOverride string // Flag to override source.location
)

var rootCmd = &cobra.Command{
	Use:   "cfl [flags] [term...]",
	Short: "Company Fuzzy Lookup - search a company list by code, name or furigana",
	Long: `cfl looks up companies in a published company list (JSONC) by securities
code, name or furigana. Every argument is a search term, and a term may itself
contain commas. A company matches when it matches any term.

Getting Started:
  1. Run: cfl config (to set the company list URL or file)
  2. Run: cfl (interactive mode) or cfl <term...> (direct search)

Examples:
  cfl                          # Interactive lookup
  cfl トヨタ                    # Fuzzy search for one term
  cfl 7203 6758                # Two terms, OR-combined
  cfl "ソニー,任天堂"            # Commas split terms too
  cfl -e トヨタ自動車           # Exact match (株式会社 is ignored)
  cfl --json 7203              # JSON output
  cat codes.txt | cfl --stdin  # One term per line from stdin

Configuration:
  Set the company list location in ~/.config/cfl/config.yaml or via environment:
    CFL_SOURCE_LOCATION=https://example.com/list.jsonc`,
	RunE: runSearch,
	// Accept any number of arguments as search terms
	Args: cobra.ArbitraryArgs,
	// Don't suggest commands when args don't match subcommands
	SuggestionsMinimumDistance: 2,
}

// runSearch handles the default search behavior
func runSearch(cmd *cobra.Command, args []string) error {
	input, err := collectInput(args, fromStdin, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(sourceOverride)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	sess := newSession(cfg)

	// No terms on a terminal: interactive mode loads the list itself
	if terms.IsBlank(input) && !fromStdin && !jsonOutput && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return runInteractive(sess, cfg)
	}

	ctx := cmd.Context()
	if _, err := sess.Load(ctx); err != nil {
		return fmt.Errorf("failed to load company list from %s: %w", cfg.Source.Location, err)
	}

	return runDirect(ctx, sess, input, !exactMode, jsonOutput, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// collectInput joins the arguments and, when requested, stdin into one search input.
// Each argument and each stdin line becomes its own term.
func collectInput(args []string, readStdin bool, stdin io.Reader) (string, error) {
	parts := append([]string(nil), args...)

	if readStdin {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		parts = append(parts, string(data))
	}

	return strings.Join(parts, "\n"), nil
}

// loadConfig loads the configuration and applies the --source override.
// An override alone is enough to run without a config file.
func loadConfig(override string) (*config.Config, error) {
	override = strings.TrimSpace(override)

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			if override != "" {
				return config.Default(override), nil
			}
			return nil, fmt.Errorf("%w: run 'cfl config' or pass --source", err)
		}
		return nil, err
	}

	if override != "" {
		cfg.Source.Location = override
	}
	return cfg, nil
}

// newSession creates a search session for the configured source
func newSession(cfg *config.Config) *session.Session {
	logger.Debug("Company list source: %s", cfg.Source.Location)
	return session.New(dataset.NewSource(cfg.Source), session.Options{
		IndexThreshold:  cfg.Search.IndexThreshold,
		MaxCacheEntries: cfg.Cache.MaxEntries,
		MaxRetries:      cfg.Session.MaxRetries,
	})
}

// searchOutput is the JSON shape of a direct search
type searchOutput struct {
	UpdateTime string          `json:"updateTime"`
	Terms      int             `json:"terms"`
	Hits       int             `json:"hits"`
	Mode       string          `json:"mode"`
	Companies  []model.Company `json:"companies"`
}

// runDirect searches once and prints the hits as text or JSON
func runDirect(ctx context.Context, sess *session.Session, input string, fuzzy, asJSON bool, stdout, stderr io.Writer) error {
	result, err := sess.Search(ctx, input, fuzzy)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	companies := result.Companies
	if companies == nil {
		companies = []model.Company{}
	}

	if asJSON {
		return outputJSON(stdout, searchOutput{
			UpdateTime: sess.UpdateTime(),
			Terms:      result.TermCount,
			Hits:       len(companies),
			Mode:       match.ModeFor(fuzzy).String(),
			Companies:  companies,
		})
	}

	for _, c := range companies {
		fmt.Fprintln(stdout, c.DisplayString())
	}
	fmt.Fprintf(stderr, "%d terms, %d hits\n", result.TermCount, len(companies))
	return nil
}

// outputJSON writes v as indented JSON
func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// runInteractive launches the interactive TUI
func runInteractive(sess *session.Session, cfg *config.Config) error {
	m := tui.New(sess, tui.Options{
		Exact:       exactMode,
		Version:     version,
		Source:      cfg.Source.Location,
		Debounce:    tui.DefaultDebounce,
		LoadOnStart: true,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	// Print the selected company for copying or script usage
	if final, ok := finalModel.(tui.Model); ok {
		if selected, ok := final.Selected(); ok {
			fmt.Println(selected.DisplayString())
		}
	}

	return nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	// Set version info
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)

	// Add flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&sourceOverride, "source", "s", "", "company list URL or file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&exactMode, "exact", "e", false, "exact match instead of fuzzy")
	rootCmd.PersistentFlags().BoolVar(&fromStdin, "stdin", false, "read terms from stdin (one per line)")

	// Set up verbose mode before command execution
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
		logger.Debug("Verbose mode enabled")
	}
}

func main() {
	// Enable interspersed flags (flags can appear anywhere in the command line)
	rootCmd.Flags().SetInterspersed(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("%v", err)
		stop()
		os.Exit(1)
	}
}
