package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"exoterior-booking/internal/domain/appointment"
	"exoterior-booking/internal/pkg/errs"

	"github.com/BurntSushi/toml"
)

//go:embed services.toml
var embedded string

type fileFormat struct {
	Main []mainEntry `toml:"main"`
}

type mainEntry struct {
	ID  string     `toml:"id"`
	Sub []subEntry `toml:"sub"`
}

type subEntry struct {
	ID       string `toml:"id"`
	Estimate []int  `toml:"estimate"`
}

// Load reads the catalog from path, or the embedded default when path is empty.
func Load(path string) (*appointment.Catalog, error) {
	if path == "" {
		return Parse(embedded)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(err, "read catalog %s", path)
	}
	return Parse(string(raw))
}

func Default() *appointment.Catalog {
	c, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(doc string) (*appointment.Catalog, error) {
	var f fileFormat
	meta, err := toml.Decode(doc, &f)
	if err != nil {
		return nil, errs.Wrap(err, "decode catalog")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, errs.Newf("unknown catalog keys: %s", strings.Join(keys, ", "))
	}

	mains := make([]appointment.MainService, 0, len(f.Main))
	for _, m := range f.Main {
		subs := make([]appointment.SubService, 0, len(m.Sub))
		for _, s := range m.Sub {
			if len(s.Estimate) != 2 {
				return nil, fmt.Errorf("%w: %s needs a [min, max] estimate", appointment.ErrInvalidCatalog, s.ID)
			}
			subs = append(subs, appointment.SubService{
				ID:          appointment.ServiceID(s.ID),
				EstimateMin: s.Estimate[0],
				EstimateMax: s.Estimate[1],
			})
		}
		mains = append(mains, appointment.MainService{ID: appointment.MainServiceID(m.ID), SubServices: subs})
	}
	return appointment.NewCatalog(mains)
}
