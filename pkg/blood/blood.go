// Package blood holds the shared blood-bank value types: the eight ABO/Rh
// blood groups and the request urgency tiers.
package blood

// Group is one of the eight ABO/Rh blood groups.
type Group string

const (
	APositive  Group = "A+"
	ANegative  Group = "A-"
	BPositive  Group = "B+"
	BNegative  Group = "B-"
	ABPositive Group = "AB+"
	ABNegative Group = "AB-"
	OPositive  Group = "O+"
	ONegative  Group = "O-"
)

// Groups lists all valid blood groups in display order.
var Groups = []Group{APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative}

// Valid reports whether g is one of the eight blood groups.
func (g Group) Valid() bool {
	switch g {
	case APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative:
		return true
	}
	return false
}

func (g Group) String() string { return string(g) }

// compatibleDonors maps a recipient group to the groups it can receive from.
var compatibleDonors = map[Group][]Group{
	APositive:  {APositive, ANegative, OPositive, ONegative},
	ANegative:  {ANegative, ONegative},
	BPositive:  {BPositive, BNegative, OPositive, ONegative},
	BNegative:  {BNegative, ONegative},
	ABPositive: Groups,
	ABNegative: {ABNegative, ANegative, BNegative, ONegative},
	OPositive:  {OPositive, ONegative},
	ONegative:  {ONegative},
}

// CompatibleDonors returns the donor groups a recipient of group g can accept.
func CompatibleDonors(g Group) []Group {
	donors := compatibleDonors[g]
	out := make([]Group, len(donors))
	copy(out, donors)
	return out
}

// Urgency is the priority tier of a hospital blood request.
type Urgency string

const (
	UrgencyRoutine   Urgency = "routine"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

// Valid reports whether u is a known urgency tier.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyRoutine, UrgencyUrgent, UrgencyEmergency:
		return true
	}
	return false
}
