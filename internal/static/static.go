// Package static holds the committee's bundled dataset: budgeted costs,
// planned income, the calling timeline, the committee roster and the
// candidate profile. The funding view falls back to these figures when
// the live sheet cannot be read.
package static

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gkj-pamulang/panitia/internal/model"
)

//go:embed dataset.yaml
var bundled []byte

// StageStatus is where a timeline stage stands.
type StageStatus string

const (
	StageDone     StageStatus = "done"
	StageCurrent  StageStatus = "current"
	StageUpcoming StageStatus = "upcoming"
)

// Dataset is the full static content of the site.
type Dataset struct {
	Hero      Hero               `yaml:"hero" json:"hero"`
	Costs     []model.CostLine   `yaml:"costs" json:"costs"`
	Income    []model.IncomeLine `yaml:"income" json:"income"`
	Timeline  []Stage            `yaml:"timeline" json:"timeline"`
	Committee Committee          `yaml:"committee" json:"committee"`
	Candidate Candidate          `yaml:"candidate" json:"candidate"`
}

// Hero is the landing page copy.
type Hero struct {
	Title   string   `yaml:"title" json:"title"`
	Church  string   `yaml:"church" json:"church"`
	Intro   string   `yaml:"intro" json:"intro"`
	Pillars []Pillar `yaml:"pillars" json:"pillars"`
}

// Pillar is one titled paragraph of the landing copy.
type Pillar struct {
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}

// Stage is one step of the calling process. Description is markdown.
type Stage struct {
	Date        string      `yaml:"date" json:"date"`
	Title       string      `yaml:"title" json:"title"`
	Status      StageStatus `yaml:"status" json:"status"`
	Description string      `yaml:"description" json:"description"`
}

// Committee describes the calling committee and its mandate.
type Committee struct {
	Decrees   []Decree   `yaml:"decrees" json:"decrees"`
	Mandate   string     `yaml:"mandate" json:"mandate"`
	Term      Term       `yaml:"term" json:"term"`
	Core      []Member   `yaml:"core" json:"core"`
	Divisions []Division `yaml:"divisions" json:"divisions"`
	Contact   Contact    `yaml:"contact" json:"contact"`
}

// Decree is a church council decision establishing the committee.
type Decree struct {
	Title  string `yaml:"title" json:"title"`
	Number string `yaml:"number" json:"number"`
	Date   string `yaml:"date" json:"date"`
}

// Term is the committee's period of service.
type Term struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

// Member is a core committee position and who holds it.
type Member struct {
	Position string `yaml:"position" json:"position"`
	Name     string `yaml:"name" json:"name"`
}

// Division is a working group of the committee.
type Division struct {
	Name    string   `yaml:"name" json:"name"`
	Members []string `yaml:"members" json:"members"`
}

// Contact is how the committee can be reached.
type Contact struct {
	Phone   string `yaml:"phone" json:"phone"`
	Email   string `yaml:"email" json:"email"`
	Address string `yaml:"address" json:"address"`
}

// Candidate is the pastor candidate profile. Bio is markdown.
type Candidate struct {
	Name       string   `yaml:"name" json:"name"`
	Education  []string `yaml:"education" json:"education"`
	Experience []string `yaml:"experience" json:"experience"`
	Bio        string   `yaml:"bio" json:"bio"`
}

// CurrentStage returns the stage marked current, if any.
func (d *Dataset) CurrentStage() (Stage, bool) {
	for _, s := range d.Timeline {
		if s.Status == StageCurrent {
			return s, true
		}
	}
	return Stage{}, false
}

// ErrInvalid indicates a dataset that fails validation.
var ErrInvalid = errors.New("static: invalid dataset")

// Validate checks the figures the funding fallback depends on.
func (d *Dataset) Validate() error {
	if len(d.Costs) == 0 || len(d.Income) == 0 {
		return fmt.Errorf("%w: costs and income are required", ErrInvalid)
	}
	for _, c := range d.Costs {
		if c.Category == "" || c.Amount < 0 {
			return fmt.Errorf("%w: bad cost line %+v", ErrInvalid, c)
		}
	}
	for _, l := range d.Income {
		if l.Category == "" || l.Target < 0 {
			return fmt.Errorf("%w: bad income line %+v", ErrInvalid, l)
		}
	}
	for _, s := range d.Timeline {
		switch s.Status {
		case StageDone, StageCurrent, StageUpcoming:
		default:
			return fmt.Errorf("%w: stage %q has status %q", ErrInvalid, s.Title, s.Status)
		}
	}
	return nil
}

// Parse decodes and validates a dataset document.
func Parse(data []byte) (*Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("static: parsing dataset: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

var (
	defaultOnce sync.Once
	defaultSet  *Dataset
)

// Default returns the bundled dataset. It panics if the embedded document
// is broken, which the package tests rule out.
func Default() *Dataset {
	defaultOnce.Do(func() {
		d, err := Parse(bundled)
		if err != nil {
			panic(err)
		}
		defaultSet = d
	})
	return defaultSet
}

// Load returns the dataset at path, or the bundled one when path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("static: reading %s: %w", path, err)
	}
	return Parse(data)
}
