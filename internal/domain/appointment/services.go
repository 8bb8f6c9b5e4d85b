package appointment

import (
	"fmt"
	"slices"
)

type ServiceID string

type MainServiceID string

// SubService is a bookable line item. Estimates are whole EGP.
type SubService struct {
	ID          ServiceID
	Main        MainServiceID
	EstimateMin int
	EstimateMax int
}

type MainService struct {
	ID          MainServiceID
	SubServices []SubService
}

type Catalog struct {
	mains []MainService
	index map[ServiceID]SubService
}

func NewCatalog(mains []MainService) (*Catalog, error) {
	c := &Catalog{
		mains: make([]MainService, 0, len(mains)),
		index: make(map[ServiceID]SubService),
	}
	for _, m := range mains {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: main service without id", ErrInvalidCatalog)
		}
		subs := make([]SubService, 0, len(m.SubServices))
		for _, s := range m.SubServices {
			if s.ID == "" {
				return nil, fmt.Errorf("%w: sub-service without id under %s", ErrInvalidCatalog, m.ID)
			}
			if _, dup := c.index[s.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate sub-service %s", ErrInvalidCatalog, s.ID)
			}
			if s.EstimateMin < 0 || s.EstimateMax < s.EstimateMin {
				return nil, fmt.Errorf("%w: bad estimate range for %s", ErrInvalidCatalog, s.ID)
			}
			s.Main = m.ID
			c.index[s.ID] = s
			subs = append(subs, s)
		}
		c.mains = append(c.mains, MainService{ID: m.ID, SubServices: subs})
	}
	if len(c.index) == 0 {
		return nil, fmt.Errorf("%w: no sub-services", ErrInvalidCatalog)
	}
	return c, nil
}

func (c *Catalog) MainServices() []MainService {
	return slices.Clone(c.mains)
}

func (c *Catalog) Lookup(id ServiceID) (SubService, bool) {
	s, ok := c.index[id]
	return s, ok
}

func (c *Catalog) IsKnown(id ServiceID) bool {
	_, ok := c.index[id]
	return ok
}

// EstimateRange sums the ranges of the known ids. ok is false when nothing priced was selected.
func (c *Catalog) EstimateRange(ids []ServiceID) (minEGP, maxEGP int, ok bool) {
	for _, id := range ids {
		if s, found := c.index[id]; found {
			minEGP += s.EstimateMin
			maxEGP += s.EstimateMax
		}
	}
	return minEGP, maxEGP, minEGP > 0 && maxEGP > 0
}
