package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/linskybing/nominate-go/internal/domain/category"
	"gopkg.in/yaml.v2"
)

//go:embed category_order.yaml
var defaultCategoryOrder []byte

// LoadCategoryOrder reads the display order from path, or the built-in
// award list when path is empty.
func LoadCategoryOrder(path string) (category.Order, error) {
	data := defaultCategoryOrder
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return category.Order{}, fmt.Errorf("read category order: %w", err)
		}
		data = b
	}
	return ParseCategoryOrder(data)
}

func ParseCategoryOrder(data []byte) (category.Order, error) {
	var o category.Order
	if err := yaml.UnmarshalStrict(data, &o); err != nil {
		return category.Order{}, fmt.Errorf("parse category order: %w", err)
	}
	seen := make(map[string]struct{})
	for _, seg := range o.Segments {
		if seg.Name == "" {
			return category.Order{}, fmt.Errorf("parse category order: segment without name")
		}
		for _, name := range seg.Categories {
			if _, dup := seen[name]; dup {
				return category.Order{}, fmt.Errorf("parse category order: category %q listed twice", name)
			}
			seen[name] = struct{}{}
		}
	}
	return o, nil
}
