// Package setrecord defines the validated card-set record and the strict
// schema validation that gates every payload entering the system, whether it
// arrives from the upstream API or from a cached object body.
package setrecord

import "encoding/json"

// Record is the validated card-set entity returned to callers. It is plain
// immutable data: constructed only by Validate, carrying no behavior.
type Record struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	SetType     string `json:"set_type"`
	CardCount   int    `json:"card_count"`
	ReleasedAt  string `json:"released_at"`
	Digital     bool   `json:"digital"`
	FoilOnly    bool   `json:"foil_only"`
	NonfoilOnly bool   `json:"nonfoil_only"`
	URI         string `json:"uri"`
	ScryfallURI string `json:"scryfall_uri"`
	IconSVGURI  string `json:"icon_svg_uri"`
}

// Marshal serializes the record to its canonical JSON form, the shape written
// to the object store and re-validated on every cache read.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
