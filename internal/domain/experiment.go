package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ExperimentNamePattern is the accepted shape of experiment names. Names
// appear in URLs and in "exp-<name>" form fields.
var ExperimentNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Experiment is a drawing test served to browsers
type Experiment struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Scripts   []string  `json:"scripts"`
	MT        bool      `json:"mt"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExperimentInput creates an experiment
type ExperimentInput struct {
	Name    string   `json:"name" validate:"required,max=64,experimentname"`
	Scripts []string `json:"scripts" validate:"dive,required"`
	MT      bool     `json:"mt"`
}

// TurkPage lists the experiments run inside a Mechanical Turk HIT and the
// union of their scripts.
type TurkPage struct {
	Experiments []Experiment `json:"experiments"`
	Scripts     []string     `json:"scripts"`
}
