package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	if settings.Algorithm != want.Algorithm || settings.MissionTime != want.MissionTime {
		t.Errorf("Load() on missing file = %+v, want defaults %+v", settings, want)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "riskview.yml")
	content := strings.Join([]string{
		"algorithm: mocus",
		"approximation: rare-event",
		"mission_time: 24",
		"limit_order: 5",
		"probability_analysis: true",
		"importance_analysis: false",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Algorithm != "mocus" {
		t.Errorf("algorithm = %q, want mocus", settings.Algorithm)
	}
	if settings.Approximation != "rare-event" {
		t.Errorf("approximation = %q, want rare-event", settings.Approximation)
	}
	if settings.MissionTime != 24 {
		t.Errorf("mission_time = %v, want 24", settings.MissionTime)
	}
	if settings.ImportanceAnalysis {
		t.Error("importance_analysis should be false")
	}
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv("RISKVIEW_ALGORITHM", "zbdd")

	settings, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.Algorithm != "zbdd" {
		t.Errorf("algorithm = %q, want env override zbdd", settings.Algorithm)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("algorithm: quantum\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() with invalid algorithm should fail")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yml")

	original := Default()
	original.LimitOrder = 7
	if err := original.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Save error = %v", err)
	}
	if loaded.LimitOrder != 7 {
		t.Errorf("limit_order = %d, want 7", loaded.LimitOrder)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"valid", func(s *Settings) {}, false},
		{"bad algorithm", func(s *Settings) { s.Algorithm = "magic" }, true},
		{"bad approximation", func(s *Settings) { s.Approximation = "guess" }, true},
		{"zero mission time", func(s *Settings) { s.MissionTime = 0 }, true},
		{"negative mission time", func(s *Settings) { s.MissionTime = -1 }, true},
		{"zero limit order", func(s *Settings) { s.LimitOrder = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
