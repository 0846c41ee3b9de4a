package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Subject limits and defaults.
const (
	MinTargetNameLength      = 2
	MinTimeHorizonMonths     = 1
	MaxTimeHorizonMonths     = 60
	DefaultTimeHorizonMonths = 12
	DefaultLanguage          = "en"
)

// ErrInvalidSubject is returned when a subject fails validation.
var ErrInvalidSubject = errors.New("invalid subject")

// Subject describes what is being screened. Build it with NewSubject.
type Subject struct {
	TargetType        TargetType `json:"target_type" mapstructure:"target_type"`
	TargetName        string     `json:"target_name" mapstructure:"target_name"`
	Region            string     `json:"region,omitempty" mapstructure:"region"`
	Products          []string   `json:"products" mapstructure:"products"`
	SignalsOfInterest []string   `json:"signals_of_interest" mapstructure:"signals_of_interest"`
	RiskFocus         []string   `json:"risk_focus" mapstructure:"risk_focus"`
	TimeHorizonMonths int        `json:"time_horizon_months" mapstructure:"time_horizon_months"`
	Languages         []string   `json:"languages" mapstructure:"languages"`
	HSCodes           []string   `json:"hs_codes" mapstructure:"hs_codes"`
	TenderFeeds       []string   `json:"tender_feeds" mapstructure:"tender_feeds"`
}

// NewSubject applies defaults to in, validates it and returns a copy that
// shares no slices with the input.
func NewSubject(in Subject) (Subject, error) {
	s := in.Clone()

	if s.TargetType == "" {
		s.TargetType = CountryTarget
	}
	s.TargetType = TargetType(strings.ToLower(string(s.TargetType)))
	if _, ok := ValidTargetTypes[s.TargetType]; !ok {
		return Subject{}, fmt.Errorf("%w: target type %q must be country, sector, product, company, supply_chain", ErrInvalidSubject, in.TargetType)
	}

	s.TargetName = strings.TrimSpace(s.TargetName)
	if len([]rune(s.TargetName)) < MinTargetNameLength {
		return Subject{}, fmt.Errorf("%w: target name must be at least %d characters (received %q)", ErrInvalidSubject, MinTargetNameLength, in.TargetName)
	}

	if s.TimeHorizonMonths == 0 {
		s.TimeHorizonMonths = DefaultTimeHorizonMonths
	}
	if s.TimeHorizonMonths < MinTimeHorizonMonths || s.TimeHorizonMonths > MaxTimeHorizonMonths {
		return Subject{}, fmt.Errorf("%w: time horizon must be between %d and %d months (received %d)",
			ErrInvalidSubject, MinTimeHorizonMonths, MaxTimeHorizonMonths, s.TimeHorizonMonths)
	}

	if len(s.Languages) == 0 {
		s.Languages = []string{DefaultLanguage}
	}

	return s, nil
}

// Clone returns a deep copy of the subject.
func (s Subject) Clone() Subject {
	clone := s
	clone.Products = cloneStrings(s.Products)
	clone.SignalsOfInterest = cloneStrings(s.SignalsOfInterest)
	clone.RiskFocus = cloneStrings(s.RiskFocus)
	clone.Languages = cloneStrings(s.Languages)
	clone.HSCodes = cloneStrings(s.HSCodes)
	clone.TenderFeeds = cloneStrings(s.TenderFeeds)
	return clone
}

// IsCountry reports whether the subject targets a country.
func (s Subject) IsCountry() bool {
	return s.TargetType == CountryTarget
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// SplitList splits a comma-separated flag value into trimmed, non-empty entries.
func SplitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
