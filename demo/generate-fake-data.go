package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/igusev/cfl/internal/dataset"
	"github.com/igusev/cfl/internal/model"
)

// document mirrors the published list layout
type document struct {
	UpdateTime string          `json:"updateTime"`
	Data       []model.Company `json:"data"`
}

// fakeWord is a name fragment with its reading
type fakeWord struct {
	name     string
	furigana string
}

func main() {
	// Create demo data directory in demo/data
	demoDir := "demo/data"
	if err := os.MkdirAll(demoDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create demo dir: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating fake data in: %s\n", demoDir)

	// Hand-written companies covering both marker positions and mixed-case codes
	companies := []model.Company{
		{Code: "138A", Name: "株式会社サンプルテック", Furigana: "サンプルテック", DecisionMonth: 3, RegistrationDate: "2024/04/01"},
		{Code: "1380", Name: "みどり牧園株式会社", Furigana: "ミドリボクエン", DecisionMonth: 3, RegistrationDate: "2021/07/15"},
		{Code: "2Q1B", Name: "株式会社あおぞらデータ", Furigana: "アオゾラデータ", DecisionMonth: 12, RegistrationDate: "2025/01/10"},
		{Code: "4010", Name: "さくら精工株式会社", Furigana: "サクラセイコウ", DecisionMonth: 9, RegistrationDate: "2019/11/01"},
		{Code: "5721", Name: "株式会社ひかり電機", Furigana: "ヒカリデンキ", DecisionMonth: 6, RegistrationDate: "2018/03/20"},
		{Code: "6190", Name: "フェニックス物産株式会社", Furigana: "フェニックスブッサン", DecisionMonth: 3, RegistrationDate: "2020/08/05"},
		{Code: "7788", Name: "株式会社ミライ製作所", Furigana: "ミライセイサクショ", DecisionMonth: 2, RegistrationDate: "2022/02/14"},
		{Code: "9010", Name: "かぜ運輸株式会社", Furigana: "カゼウンユ", DecisionMonth: 3, RegistrationDate: "2017/05/30"},
	}

	// Generated companies push the list past the index threshold
	prefixes := []fakeWord{
		{"あさひ", "アサヒ"}, {"やまと", "ヤマト"}, {"ふじ", "フジ"}, {"みなと", "ミナト"},
		{"ひので", "ヒノデ"}, {"いずみ", "イズミ"}, {"こだま", "コダマ"}, {"つばさ", "ツバサ"},
		{"ほくと", "ホクト"}, {"わかば", "ワカバ"}, {"はやて", "ハヤテ"}, {"すばる", "スバル"},
	}
	suffixes := []fakeWord{
		{"商事", "ショウジ"}, {"工業", "コウギョウ"}, {"化学", "カガク"}, {"食品", "ショクヒン"},
		{"システムズ", "システムズ"}, {"ホールディングス", "ホールディングス"}, {"建設", "ケンセツ"},
		{"薬品", "ヤクヒン"}, {"電子", "デンシ"}, {"不動産", "フドウサン"},
	}

	code := 3000
	for i, prefix := range prefixes {
		for j, suffix := range suffixes {
			name := prefix.name + suffix.name
			// Alternate between leading and trailing marker
			if (i+j)%2 == 0 {
				name = "株式会社" + name
			} else {
				name += "株式会社"
			}

			companies = append(companies, model.Company{
				Code:             fmt.Sprintf("%d", code),
				Name:             name,
				Furigana:         prefix.furigana + suffix.furigana,
				DecisionMonth:    (i+j)%12 + 1,
				RegistrationDate: fmt.Sprintf("20%02d/%02d/01", 10+(i+j)%15, j%12+1),
			})
			code += 7
		}
	}

	fmt.Printf("✓ Generated %d companies\n", len(companies))

	doc := document{
		UpdateTime: time.Now().Format("2006/01/02 15:04"),
		Data:       companies,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode company list: %v\n", err)
		os.Exit(1)
	}

	// Published lists carry comments, so the demo does too
	var buf strings.Builder
	buf.WriteString("// Demo company list generated by demo/generate-fake-data.go\n")
	buf.WriteString("// All companies are fictional.\n")
	buf.Write(data)
	buf.WriteString("\n")

	listPath := filepath.Join(demoDir, "list.jsonc")
	if err := os.WriteFile(listPath, []byte(buf.String()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write company list: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Wrote %s\n", listPath)

	// Read the file back through the real parser
	parsed, invalid, err := dataset.Parse(buf.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generated list does not parse: %v\n", err)
		os.Exit(1)
	}
	if len(invalid) > 0 {
		fmt.Fprintf(os.Stderr, "Generated list has %d invalid records\n", len(invalid))
		os.Exit(1)
	}
	fmt.Printf("✓ Verified %d companies (updated %s)\n", parsed.Len(), parsed.UpdateTime)

	fmt.Printf("\n✅ Demo data generated successfully!\n\n")
	fmt.Printf("To use with CFL:\n")
	fmt.Printf("  cfl --source %s\n\n", listPath)
	fmt.Printf("Demo directory: %s\n", demoDir)
}
