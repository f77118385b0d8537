package tui

import (
	"strings"
	"time"

	"github.com/gkj-pamulang/panitia/internal/config"
	"github.com/gkj-pamulang/panitia/internal/fetch"
	"github.com/gkj-pamulang/panitia/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// SetupValues are the answers collected by the setup form.
type SetupValues struct {
	IncomeURL  string
	DonorsURL  string
	PledgesURL string
	SearchURL  string
	Format     string
	Strict     bool
	Theme      string
}

// SetupValuesFrom pre-fills the form from cfg.
func SetupValuesFrom(cfg config.Config) SetupValues {
	format := cfg.Sources.Income.Format
	if format == "" {
		format = "csv"
	}
	return SetupValues{
		IncomeURL:  cfg.Sources.Income.URL,
		DonorsURL:  cfg.Sources.Donors.URL,
		PledgesURL: cfg.Sources.Pledges.URL,
		SearchURL:  cfg.Sources.Pledges.SearchURL,
		Format:     format,
		Strict:     cfg.Schema.Strict,
		Theme:      cfg.Appearance.Theme,
	}
}

// Apply writes the answers into cfg. The export format applies to all
// three sheets.
func (v SetupValues) Apply(cfg config.Config) config.Config {
	cfg.Sources.Income = config.SourceConfig{URL: strings.TrimSpace(v.IncomeURL), Format: v.Format}
	cfg.Sources.Donors = config.SourceConfig{URL: strings.TrimSpace(v.DonorsURL), Format: v.Format}
	cfg.Sources.Pledges = config.SourceConfig{
		URL:       strings.TrimSpace(v.PledgesURL),
		Format:    v.Format,
		SearchURL: strings.TrimSpace(v.SearchURL),
	}
	cfg.Schema.Strict = v.Strict
	if v.Theme != "" {
		cfg.Appearance.Theme = v.Theme
	}
	return cfg
}

func validateSheetURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := fetch.BuildURL(s, "", time.Now())
	return err
}

func urlInput(title, desc string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Description(desc).
		Placeholder("https://docs.google.com/spreadsheets/d/e/…/pub?output=csv").
		Validate(validateSheetURL).
		Value(value)
}

// NewSetupForm builds the setup wizard. Answers are written to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Panitia Pemanggilan Pendeta").
				Description("Hubungkan dasbor dengan spreadsheet yang dipublikasikan.\nKosongkan URL untuk memakai data statis."),
			urlInput("Rencana Pemasukan", "Kategori, Jumlah, Realisasi", &v.IncomeURL),
			urlInput("Status Donatur", "Nama, Wilayah, Status (LUNAS/BELUM)", &v.DonorsURL),
			urlInput("Janji Iman", "Nama, Janji, Terbayar, Via", &v.PledgesURL),
			urlInput("Pencarian Janji Iman", "Opsional: endpoint yang menerima parameter col1", &v.SearchURL),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Format ekspor").
				Options(huh.NewOptions("csv", "xlsx")...).
				Value(&v.Format),
			huh.NewConfirm().
				Title("Tolak spreadsheet dengan baris tidak lengkap?").
				Affirmative("Ya").
				Negative("Tidak").
				Value(&v.Strict),
			huh.NewSelect[string]().
				Title("Tema warna").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
		),
	)
}

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault(path string) config.Config {
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// saveSetup merges the form answers into the config file at path.
func saveSetup(path string, v SetupValues) error {
	cfg := v.Apply(loadConfigOrDefault(path))
	theme.SetActive(cfg.Appearance.Theme)
	return config.SaveTo(path, cfg)
}
