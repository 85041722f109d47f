package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/igusev/cfl/internal/config"
	"github.com/igusev/cfl/internal/index"
	"github.com/igusev/cfl/internal/model"
	"github.com/igusev/cfl/internal/search"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show company list and search index statistics",
	Long: `Load the company list once and report its size, fiscal month
distribution and the size of the substring index built from it.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// monthCount is the number of companies closing their fiscal year in Month
type monthCount struct {
	Month int    `json:"month"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// statsOutput is the report printed by 'cfl stats'
type statsOutput struct {
	Source         string       `json:"source"`
	UpdateTime     string       `json:"updateTime"`
	TotalCompanies int          `json:"totalCompanies"`
	UniqueCodes    int          `json:"uniqueCodes"`
	FiscalMonths   []monthCount `json:"fiscalMonths"`
	IndexThreshold int          `json:"indexThreshold"`
	UsesIndex      bool         `json:"usesIndex"`
	Index          index.Stats  `json:"index"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(sourceOverride)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	sess := newSession(cfg)
	list, err := sess.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load company list from %s: %w", cfg.Source.Location, err)
	}

	stats := collectStats(cfg, list)
	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), stats)
	}
	renderStats(cmd.OutOrStdout(), stats)
	return nil
}

// collectStats summarizes a loaded list
func collectStats(cfg *config.Config, list model.CompanyList) statsOutput {
	engine := search.NewEngine(cfg.Search.IndexThreshold)
	indexStats := index.Build(list.Companies).Stats()

	var byMonth [13]int
	for _, c := range list.Companies {
		if c.FiscalMonthLabel() != "" {
			byMonth[c.DecisionMonth]++
		}
	}

	months := make([]monthCount, 0, 12)
	for month := 1; month <= 12; month++ {
		if byMonth[month] == 0 {
			continue
		}
		c := model.Company{DecisionMonth: month}
		months = append(months, monthCount{Month: month, Label: c.FiscalMonthLabel(), Count: byMonth[month]})
	}

	return statsOutput{
		Source:         cfg.Source.Location,
		UpdateTime:     list.UpdateTime,
		TotalCompanies: list.Len(),
		UniqueCodes:    indexStats.CodeKeys,
		FiscalMonths:   months,
		IndexThreshold: engine.Stats().IndexThreshold,
		UsesIndex:      engine.UsesIndex(list.Len()),
		Index:          indexStats,
	}
}

// renderStats prints the report in human-readable form
func renderStats(w io.Writer, s statsOutput) {
	printLogo(w, version)

	printSection(w, "Company list")
	printField(w, "Source", s.Source)
	printField(w, "Updated", s.UpdateTime)
	printField(w, "Companies", s.TotalCompanies)
	printField(w, "Unique codes", s.UniqueCodes)
	fmt.Fprintln(w)

	if len(s.FiscalMonths) > 0 {
		printSection(w, "Fiscal year end")
		for _, m := range s.FiscalMonths {
			printField(w, m.Label, m.Count)
		}
		fmt.Fprintln(w)
	}

	printSection(w, "Search index")
	mode := "scan"
	if s.UsesIndex {
		mode = "index"
	}
	printField(w, "Search path", fmt.Sprintf("%s (threshold %d)", mode, s.IndexThreshold))
	printField(w, "Code substrings", s.Index.CodeSubstringKeys)
	printField(w, "Name substrings", s.Index.NameKeys)
	printField(w, "Furigana keys", s.Index.FuriganaKeys)
}
