package pipeline

// Tier names one of the playlist tiers.
type Tier string

const (
	TierValid     Tier = "valid"
	TierBase      Tier = "base"
	TierQualified Tier = "qualified"
)

// Tiers holds the three reduction layers. Qualified is a subset of Base,
// which is a subset of Valid.
type Tiers struct {
	Valid     []Source
	Base      []Source
	Qualified []Source
}

// Reduce runs the three layers: successful sources, then the best
// perChannel per channel, then those accepted by f.
func Reduce(sources []Source, perChannel int, f Filter) Tiers {
	valid := Valid(sources)
	base := Base(valid, perChannel)
	return Tiers{
		Valid:     valid,
		Base:      base,
		Qualified: Qualify(base, f),
	}
}

// Get returns the sources of tier t.
func (t Tiers) Get(tier Tier) []Source {
	switch tier {
	case TierValid:
		return t.Valid
	case TierBase:
		return t.Base
	case TierQualified:
		return t.Qualified
	}
	return nil
}
