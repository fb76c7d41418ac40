package model

// Award is the content of the easter-egg award modal.
// Every field is optional in the document.
type Award struct {
	// Assembly is the small caption above the institute, e.g. "The Nobel Assembly at".
	Assembly string `json:"assembly,omitempty"`

	// Institute is the awarding body.
	Institute string `json:"institute,omitempty"`

	// Prize is the boxed prize line.
	Prize string `json:"prize,omitempty"`

	// Laureate is the name written in script. Defaults to the profile short name.
	Laureate string `json:"laureate,omitempty"`

	// Citation is the quoted motivation.
	Citation string `json:"citation,omitempty"`

	// Place and Date are printed in the lower left corner.
	Place string `json:"place,omitempty"`
	Date  string `json:"date,omitempty"`

	// Signatory and SignatoryRole are printed in the lower right corner.
	Signatory     string `json:"signatory,omitempty"`
	SignatoryRole string `json:"signatoryRole,omitempty"`

	// Medal is the image URL of the medal.
	Medal string `json:"medal,omitempty"`
}

// DefaultAward returns the award content used when the document has none.
func DefaultAward(p Profile) Award {
	return Award{
		Assembly:      "The Nobel Assembly at",
		Institute:     "Karolinska Institutet",
		Prize:         "2030 Nobel Prize in Physiology or Medicine",
		Laureate:      p.ShortName(),
		Citation:      "for groundbreaking discoveries in smart molecular imaging and precision theranostic systems.",
		Place:         "Stockholm",
		Date:          "Dec 10, 2030",
		Signatory:     "Thomas Perlmann",
		SignatoryRole: "Secretary General",
	}
}

// withDefaults fills the empty fields of a from def.
func (a Award) withDefaults(def Award) Award {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&a.Assembly, def.Assembly)
	fill(&a.Institute, def.Institute)
	fill(&a.Prize, def.Prize)
	fill(&a.Laureate, def.Laureate)
	fill(&a.Citation, def.Citation)
	fill(&a.Place, def.Place)
	fill(&a.Date, def.Date)
	fill(&a.Signatory, def.Signatory)
	fill(&a.SignatoryRole, def.SignatoryRole)
	fill(&a.Medal, def.Medal)
	return a
}
