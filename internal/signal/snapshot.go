package signal

// Regime is the discrete severity band of the aggregate risk signal.
type Regime int

const (
	RegimeCalm Regime = iota
	RegimeElevated
	RegimeStressed
	RegimeCritical
)

var regimeNames = [...]string{"CALM", "ELEVATED", "STRESSED", "CRITICAL"}

func (r Regime) String() string {
	if r < RegimeCalm || r > RegimeCritical {
		return "UNKNOWN"
	}
	return regimeNames[r]
}

// ParseRegime maps a wire label onto a Regime. ok is false for labels outside
// the known band set.
func ParseRegime(s string) (Regime, bool) {
	for i, name := range regimeNames {
		if s == name {
			return Regime(i), true
		}
	}
	return RegimeCalm, false
}

// RegimeFromScore derives the band from an edge score, for sources that send
// an unrecognized label.
func RegimeFromScore(edge float64) Regime {
	switch {
	case edge < 0.25:
		return RegimeCalm
	case edge < 0.5:
		return RegimeElevated
	case edge < 0.75:
		return RegimeStressed
	default:
		return RegimeCritical
	}
}

// Domain is one of the five fixed risk categories. The ordering is
// significant: scenes use it as a stable index for layout and threading.
type Domain int

const (
	Markets Domain = iota
	Climate
	Information
	SocialConflict
	SupplyChain

	NumDomains = 5
)

var domainKeys = [NumDomains]string{
	"Markets",
	"Climate",
	"Information",
	"Social/Conflict",
	"Supply Chain",
}

// Key returns the wire name of the domain.
func (d Domain) Key() string {
	if d < 0 || d >= NumDomains {
		return "?"
	}
	return domainKeys[d]
}

func (d Domain) String() string { return d.Key() }

// DomainByKey resolves a wire name to its domain index.
func DomainByKey(key string) (Domain, bool) {
	for i, k := range domainKeys {
		if k == key {
			return Domain(i), true
		}
	}
	return 0, false
}

// RiskSnapshot is one normalized reading of the risk signal. It is a value
// type: arrays copy with the struct, so snapshots never share state.
type RiskSnapshot struct {
	EdgeScore float64
	Regime    Regime
	Fragility float64
	Momentum  float64
	Domains   [NumDomains]float64

	// HasDomain marks which domain scores the source actually carried.
	// Absent domains retain their prior value at the consumer.
	HasDomain [NumDomains]bool

	Timestamp string
}
