package appointment

import "slices"

type GovernorateID string

const GovernorateCairo GovernorateID = "cairo"

var governorates = []GovernorateID{
	"cairo", "giza", "alexandria", "dakahlia", "red_sea", "beheira", "fayoum", "gharbia",
	"ismailia", "menoufia", "minya", "qalyubia", "qena", "sohag", "beni_suef", "aswan", "asyut",
	"damietta", "kafr_el_sheikh", "luxor", "matrouh", "new_valley", "north_sinai", "port_said",
	"south_sinai", "suez",
}

func Governorates() []GovernorateID {
	return slices.Clone(governorates)
}

func IsKnownGovernorate(g GovernorateID) bool {
	return slices.Contains(governorates, g)
}

// ServiceArea is the set of governorates crews are dispatched to.
type ServiceArea struct {
	covered []GovernorateID
}

func NewServiceArea(covered ...GovernorateID) ServiceArea {
	return ServiceArea{covered: slices.Clone(covered)}
}

func DefaultServiceArea() ServiceArea {
	return NewServiceArea(GovernorateCairo)
}

// Covers treats an unspecified governorate as inside the area; the field is optional on submission.
// This is deliberately more lenient than refusing a missing governorate with 403: only a named
// governorate outside the area is refused.
func (a ServiceArea) Covers(g GovernorateID) bool {
	if g == "" {
		return true
	}
	return slices.Contains(a.covered, g)
}
