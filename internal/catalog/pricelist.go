package catalog

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrInvalidPriceList = errors.New("invalid price list")

// PriceList is the YAML document a shop publishes. Categories and goods
// carry the supplier's own integer ids; goods reference categories by
// that local id, which is only meaningful within one document.
type PriceList struct {
	Shop       string              `yaml:"shop"`
	Categories []PriceListCategory `yaml:"categories"`
	Goods      []PriceListItem     `yaml:"goods"`
}

type PriceListCategory struct {
	ID   uint   `yaml:"id"`
	Name string `yaml:"name"`
}

type PriceListItem struct {
	ID         uint           `yaml:"id"`
	Category   uint           `yaml:"category"`
	Model      string         `yaml:"model"`
	Name       string         `yaml:"name"`
	Price      uint           `yaml:"price"`
	PriceRRC   uint           `yaml:"price_rrc"`
	Quantity   uint           `yaml:"quantity"`
	Parameters map[string]any `yaml:"parameters"`
}

// ParsePriceList decodes and sanity-checks a price-list document.
func ParsePriceList(data []byte) (*PriceList, error) {
	var list PriceList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPriceList, err)
	}

	if list.Shop == "" {
		return nil, fmt.Errorf("%w: missing shop name", ErrInvalidPriceList)
	}

	categories := make(map[uint]bool, len(list.Categories))
	for _, c := range list.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: category %d has no name", ErrInvalidPriceList, c.ID)
		}
		categories[c.ID] = true
	}

	for _, g := range list.Goods {
		if g.Name == "" {
			return nil, fmt.Errorf("%w: good %d has no name", ErrInvalidPriceList, g.ID)
		}
		if !categories[g.Category] {
			return nil, fmt.Errorf("%w: good %d references unknown category %d",
				ErrInvalidPriceList, g.ID, g.Category)
		}
	}

	return &list, nil
}
