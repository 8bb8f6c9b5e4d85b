package queries

import (
	"context"

	"exoterior-booking/internal/domain/appointment"
)

type SubServiceView struct {
	ID          string
	EstimateMin int
	EstimateMax int
}

type MainServiceView struct {
	ID          string
	SubServices []SubServiceView
}

type CatalogQueries interface {
	Services(ctx context.Context) []MainServiceView
}

type catalogQueriesImpl struct {
	catalog *appointment.Catalog
}

func NewCatalogQueries(catalog *appointment.Catalog) CatalogQueries {
	return &catalogQueriesImpl{catalog: catalog}
}

func (q *catalogQueriesImpl) Services(_ context.Context) []MainServiceView {
	mains := q.catalog.MainServices()
	views := make([]MainServiceView, 0, len(mains))
	for _, m := range mains {
		subs := make([]SubServiceView, 0, len(m.SubServices))
		for _, s := range m.SubServices {
			subs = append(subs, SubServiceView{
				ID:          string(s.ID),
				EstimateMin: s.EstimateMin,
				EstimateMax: s.EstimateMax,
			})
		}
		views = append(views, MainServiceView{ID: string(m.ID), SubServices: subs})
	}
	return views
}
