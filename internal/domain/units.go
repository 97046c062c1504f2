package domain

import "strings"

// UnitKind groups units that can be converted into each other.
type UnitKind int

const (
	KindCount UnitKind = iota
	KindWeight
	KindVolume
	KindUnknown
)

// canonical per-unit scale factors: grams for weight, millilitres for volume.
var unitScale = map[string]struct {
	kind  UnitKind
	scale float64
}{
	"count": {KindCount, 1},
	"unit":  {KindCount, 1},
	"pc":    {KindCount, 1},
	"pcs":   {KindCount, 1},
	"g":     {KindWeight, 1},
	"gram":  {KindWeight, 1},
	"grams": {KindWeight, 1},
	"kg":    {KindWeight, 1000},
	"ml":    {KindVolume, 1},
	"l":     {KindVolume, 1000},
	"liter": {KindVolume, 1000},
	"litre": {KindVolume, 1000},
}

// NormalizeUnit lowercases and trims a unit string; empty means "unit"
// (a bare count).
func NormalizeUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	if u == "" {
		return "unit"
	}
	return u
}

// UnitKindOf reports the kind of a unit string. Unrecognized units get
// KindUnknown; they only ever compare equal to themselves.
func UnitKindOf(u string) UnitKind {
	if s, ok := unitScale[NormalizeUnit(u)]; ok {
		return s.kind
	}
	return KindUnknown
}

// ConvertQuantity converts qty between units of the same kind (kg<->g,
// l<->ml, count<->count). A conversion across kinds, or involving an
// unrecognized unit that is not literally the same, fails with
// *UnitMismatchError.
func ConvertQuantity(qty float64, from, to string) (float64, error) {
	from, to = NormalizeUnit(from), NormalizeUnit(to)
	if from == to {
		return qty, nil
	}
	fs, fok := unitScale[from]
	ts, tok := unitScale[to]
	if !fok || !tok || fs.kind != ts.kind {
		return 0, &UnitMismatchError{Have: to, Got: from}
	}
	return qty * fs.scale / ts.scale, nil
}
