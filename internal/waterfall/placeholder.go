package waterfall

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/zipsearch/internal/model"
)

// DefaultPlaceholder returns the built-in placeholder dataset: plausible
// local entries served when no live provider yields results.
func DefaultPlaceholder() []model.Business {
	return []model.Business{
		{
			Name:        "The Corner Cafe",
			Rating:      4.5,
			ReviewCount: 128,
			Address:     "123 Main St",
			Phone:       "(555) 010-1234",
			Provenance:  model.ProvenancePlaceholder,
		},
		{
			Name:        "Main Street Books",
			Rating:      4.2,
			ReviewCount: 64,
			Address:     "456 Main St",
			Phone:       "(555) 010-5678",
			Provenance:  model.ProvenancePlaceholder,
		},
	}
}

type placeholderFile struct {
	Entries []placeholderEntry `yaml:"entries"`
}

type placeholderEntry struct {
	Name        string  `yaml:"name"`
	Rating      float64 `yaml:"rating"`
	ReviewCount int     `yaml:"review_count"`
	Address     string  `yaml:"address"`
	Phone       string  `yaml:"phone"`
}

// LoadPlaceholder reads a placeholder dataset override from a YAML file.
func LoadPlaceholder(path string) ([]model.Business, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "waterfall: read placeholder %s", path)
	}

	var file placeholderFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "waterfall: parse placeholder")
	}
	if len(file.Entries) == 0 {
		return nil, eris.Errorf("waterfall: placeholder %s has no entries", path)
	}

	out := make([]model.Business, 0, len(file.Entries))
	for _, e := range file.Entries {
		out = append(out, model.Business{
			Name:        e.Name,
			Rating:      e.Rating,
			ReviewCount: e.ReviewCount,
			Address:     e.Address,
			Phone:       e.Phone,
			Provenance:  model.ProvenancePlaceholder,
		})
	}
	return out, nil
}
