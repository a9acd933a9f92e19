package hints

// Tier is the presentational confidence band of a hint.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// TierOf maps a 0-100 confidence score to its tier.
func TierOf(score int) Tier {
	switch {
	case score >= 90:
		return TierHigh
	case score >= 70:
		return TierMedium
	default:
		return TierLow
	}
}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "low"
	}
}

// Glyph is the short badge drawn on the candidate's avatar.
func (t Tier) Glyph() string {
	switch t {
	case TierHigh:
		return "A+"
	case TierMedium:
		return "B"
	default:
		return "C"
	}
}

// ColorBand names the color family used to render the tier.
func (t Tier) ColorBand() string {
	switch t {
	case TierHigh:
		return "emerald"
	case TierMedium:
		return "gold"
	default:
		return "slate"
	}
}
