package recipe

// Pairing is a suggested beverage with a one-line rationale and a short
// hint for generating an image of the drink.
type Pairing struct {
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	ImageHint string `json:"imageHint"`
}

// PairingSet holds at most one suggestion per beverage category. Any field
// may be nil when no suitable pairing exists; that is a valid terminal
// state, not an error. A set is regenerated wholesale whenever the
// governing recipe changes and is never merged with a prior set.
type PairingSet struct {
	Wine         *Pairing `json:"wine,omitempty"`
	Beer         *Pairing `json:"beer,omitempty"`
	NonAlcoholic *Pairing `json:"nonAlcoholic,omitempty"`
}

// Empty reports whether no category has a suggestion.
func (p *PairingSet) Empty() bool {
	return p == nil || (p.Wine == nil && p.Beer == nil && p.NonAlcoholic == nil)
}
