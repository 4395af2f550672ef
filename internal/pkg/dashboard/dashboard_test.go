package dashboard

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	economic := `[
		{"country":"Germany","countryCode":"DE","indicator":"GDP growth","indicatorCode":"GDP","year":2023,"value":"-0.3","unit":"%"},
		{"country":"Germany","countryCode":"DE","indicator":"Unemployment","indicatorCode":"UNE","year":2023,"value":"3.0","unit":"%"},
		{"country":"France","countryCode":"FR","indicator":"GDP growth","indicatorCode":"GDP","year":2023,"value":"0.9","unit":"%"}
	]`
	analysis := `[
		{"analysisType":"overview","title":"EU27 Overview","content":"Growth slowed across the bloc."},
		{"analysisType":"country","targetCode":"DE","title":"Germany","content":"Mild contraction."},
		{"analysisType":"indicator","targetCode":"GDP","title":"GDP","content":"Divergent paths."}
	]`

	if err := os.WriteFile(filepath.Join(dir, "economic-data.json"), []byte(economic), 0o644); err != nil {
		t.Fatalf("write economic data: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ai-analysis.json"), []byte(analysis), 0o644); err != nil {
		t.Fatalf("write analysis data: %v", err)
	}
	return dir
}

func TestLoadAndFilter(t *testing.T) {
	s, err := Load(writeTestData(t))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if got := len(s.AllEconomicData()); got != 3 {
		t.Fatalf("expected 3 economic records, got %d", got)
	}

	de := s.EconomicDataByCountry("de")
	if len(de) != 2 {
		t.Fatalf("expected 2 records for DE, got %d", len(de))
	}
	for _, r := range de {
		if r.CountryCode != "DE" {
			t.Fatalf("unexpected country code %q", r.CountryCode)
		}
	}

	gdp := s.EconomicDataByIndicator("GDP")
	if len(gdp) != 2 {
		t.Fatalf("expected 2 GDP records, got %d", len(gdp))
	}
}

func TestAnalysisResults(t *testing.T) {
	s, err := Load(writeTestData(t))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if got := len(s.AnalysisResults("", "")); got != 3 {
		t.Fatalf("expected all 3 analyses, got %d", got)
	}
	country := s.AnalysisResults("country", "de")
	if len(country) != 1 || country[0].Title != "Germany" {
		t.Fatalf("unexpected country analysis: %+v", country)
	}
	if got := len(s.AnalysisResults("indicator", "UNE")); got != 0 {
		t.Fatalf("expected no UNE analysis, got %d", got)
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing data directory")
	}
}
