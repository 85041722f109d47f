package match

import (
	"testing"

	"github.com/igusev/cfl/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "138A", Fold("138a"))
	assert.Equal(t, "SONY", Fold("sony"))
	assert.Equal(t, "ソラコム", Fold("ソラコム"))
	assert.Equal(t, "STRASSE", Fold("straße"))
}

func TestFoldAll_DropsEmpty(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, FoldAll([]string{" a ", "", "  ", "b"}))
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, ModeFuzzy, ModeFor(true))
	assert.Equal(t, ModeExact, ModeFor(false))
	assert.Equal(t, "fuzzy", ModeFuzzy.String())
	assert.Equal(t, "exact", ModeExact.String())
}

func TestFuzzy(t *testing.T) {
	f := FieldsOf(model.Company{Code: "138A", Name: "株式会社ソラコム", Furigana: "ソラコム"})

	tests := []struct {
		term     string
		expected bool
	}{
		{"138", true},
		{"38A", true},
		{Fold("138a"), true},
		{"ソラ", true},
		{"株式", true},
		{"コム株", false},
		{"トヨタ", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Fuzzy(tt.term, f), "term %q", tt.term)
	}
}

func TestExact_CodeIsNotSubstring(t *testing.T) {
	f := FieldsOf(model.Company{Code: "138A", Name: "株式会社ソラコム", Furigana: "ソラコム"})

	assert.False(t, Exact("138", f))
	assert.True(t, Exact("138A", f))
}

func TestExact_CorporateMarkerVariants(t *testing.T) {
	names := []string{"株式会社ソラコム", "株式会社 ソラコム", "ソラコム株式会社"}

	for _, name := range names {
		f := FieldsOf(model.Company{Code: "0001", Name: name, Furigana: "そらこむ"})
		assert.True(t, Exact("ソラコム", f), "bare term should match %q", name)
	}
}

func TestExact_MarkerInTermDoesNotMatchBareName(t *testing.T) {
	f := FieldsOf(model.Company{Code: "0001", Name: "ソラコム", Furigana: "そらこむ"})

	assert.False(t, Exact("ソラコム株式会社", f))
	assert.False(t, Exact("株式会社ソラコム", f))
	assert.False(t, Exact("株式会社 ソラコム", f))
}

func TestExact_FullNameAndFurigana(t *testing.T) {
	f := FieldsOf(model.Company{Code: "7203", Name: "トヨタ自動車株式会社", Furigana: "トヨタジドウシャ"})

	assert.True(t, Exact("トヨタ自動車株式会社", f))
	assert.True(t, Exact("トヨタジドウシャ", f))
	assert.True(t, Exact("トヨタ自動車", f))
	assert.False(t, Exact("トヨタ", f))
}

func TestExact_FullWidthSpaceAfterPrefix(t *testing.T) {
	f := FieldsOf(model.Company{Code: "0002", Name: "株式会社　サンプル"})
	assert.True(t, Exact("サンプル", f))
}

func TestStripMarker(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"ソラコム株式会社", "ソラコム"},
		{"株式会社ソラコム", "ソラコム"},
		{"株式会社  ソラコム", "ソラコム"},
		{"株式会社ソラコム株式会社", "ソラコム"},
		{"ソラコム", "ソラコム"},
		{"日本株式会社研究所", "日本株式会社研究所"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StripMarker(tt.name), "name %q", tt.name)
	}
}

func TestVariations(t *testing.T) {
	assert.Equal(t, []string{"ABC株式会社", "株式会社 ABC", "株式会社ABC"}, Variations("ABC"))
}

func TestScan(t *testing.T) {
	companies := []model.Company{
		{Code: "138A", Name: "株式会社ソラコム", Furigana: "ソラコム"},
		{Code: "7203", Name: "トヨタ自動車株式会社", Furigana: "トヨタジドウシャ"},
		{Code: "6758", Name: "ソニーグループ株式会社", Furigana: "ソニーグループ"},
	}

	t.Run("fuzzy OR-combines terms in data order", func(t *testing.T) {
		got := Scan(ModeFuzzy, companies, []string{"ソニー", "138"})
		assert.Equal(t, []model.Company{companies[0], companies[2]}, got)
	})

	t.Run("exact", func(t *testing.T) {
		got := Scan(ModeExact, companies, []string{"ソラコム", "138"})
		assert.Equal(t, []model.Company{companies[0]}, got)
	})

	t.Run("no terms", func(t *testing.T) {
		assert.Empty(t, Scan(ModeFuzzy, companies, nil))
		assert.Empty(t, Scan(ModeFuzzy, companies, []string{"  "}))
	})

	t.Run("duplicate codes reported once", func(t *testing.T) {
		dup := append([]model.Company{}, companies...)
		dup = append(dup, model.Company{Code: "138a", Name: "別名ソラコム"})
		got := Scan(ModeFuzzy, dup, []string{"ソラコム"})
		assert.Equal(t, []model.Company{companies[0]}, got)
	})

	t.Run("strategy dispatch", func(t *testing.T) {
		assert.Equal(t, Scan(ModeExact, companies, []string{"7203"}), StrategyFor(ModeExact)(companies, []string{"7203"}))
	})
}
