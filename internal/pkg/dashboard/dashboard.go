package dashboard

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// EconomicRecord is one pre-generated indicator observation. The documents
// are produced by an offline analysis job and consumed strictly read-only.
type EconomicRecord struct {
	Country       string `json:"country"`
	CountryCode   string `json:"countryCode"`
	Indicator     string `json:"indicator"`
	IndicatorCode string `json:"indicatorCode"`
	Year          int    `json:"year"`
	Value         string `json:"value"`
	Unit          string `json:"unit,omitempty"`
}

// AnalysisResult is one pre-generated AI commentary entry, keyed by analysis
// type (overview, country, indicator) and an optional target code.
type AnalysisResult struct {
	AnalysisType string `json:"analysisType"`
	TargetCode   string `json:"targetCode,omitempty"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	GeneratedAt  string `json:"generatedAt,omitempty"`
}

// Store holds the loaded dashboard documents. It is immutable after Load.
type Store struct {
	economic []EconomicRecord
	analyses []AnalysisResult
}

var store = &Store{}

// Load reads economic-data.json and ai-analysis.json from dir.
func Load(dir string) (*Store, error) {
	s := &Store{}

	if err := readJSONFile(filepath.Join(dir, "economic-data.json"), &s.economic); err != nil {
		return nil, fmt.Errorf("load economic data: %w", err)
	}
	if err := readJSONFile(filepath.Join(dir, "ai-analysis.json"), &s.analyses); err != nil {
		return nil, fmt.Errorf("load analysis data: %w", err)
	}
	return s, nil
}

// Setup loads the dashboard documents into the process-wide store. A missing
// data directory is tolerated so the payment surface keeps working.
func Setup(dir string) {
	s, err := Load(dir)
	if err != nil {
		log.Printf("Warning: dashboard data not loaded from %s: %v", dir, err)
		store = &Store{}
		return
	}
	store = s
	log.Printf("Dashboard data loaded: %d economic records, %d analysis entries", len(s.economic), len(s.analyses))
}

// GetStore returns the process-wide dashboard store.
func GetStore() *Store {
	return store
}

func readJSONFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// AllEconomicData returns every loaded indicator record.
func (s *Store) AllEconomicData() []EconomicRecord {
	out := make([]EconomicRecord, len(s.economic))
	copy(out, s.economic)
	return out
}

// EconomicDataByCountry filters records by ISO country code.
func (s *Store) EconomicDataByCountry(countryCode string) []EconomicRecord {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	var out []EconomicRecord
	for _, r := range s.economic {
		if strings.ToUpper(r.CountryCode) == code {
			out = append(out, r)
		}
	}
	return out
}

// EconomicDataByIndicator filters records by indicator code.
func (s *Store) EconomicDataByIndicator(indicatorCode string) []EconomicRecord {
	code := strings.ToUpper(strings.TrimSpace(indicatorCode))
	var out []EconomicRecord
	for _, r := range s.economic {
		if strings.ToUpper(r.IndicatorCode) == code {
			out = append(out, r)
		}
	}
	return out
}

// AnalysisResults filters commentary by analysis type and target code; empty
// filters match everything.
func (s *Store) AnalysisResults(analysisType, targetCode string) []AnalysisResult {
	at := strings.TrimSpace(analysisType)
	tc := strings.ToUpper(strings.TrimSpace(targetCode))
	var out []AnalysisResult
	for _, a := range s.analyses {
		if at != "" && a.AnalysisType != at {
			continue
		}
		if tc != "" && strings.ToUpper(a.TargetCode) != tc {
			continue
		}
		out = append(out, a)
	}
	return out
}
