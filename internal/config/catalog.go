package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"pavecraft/internal/network"
)

var validate = validator.New()

// LoadCatalog reads a performance catalog from a YAML or JSON list.
func LoadCatalog(path string) ([]network.Performance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	catalog, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return catalog, nil
}

func ParseCatalog(data []byte) ([]network.Performance, error) {
	var catalog []network.Performance
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	for i := range catalog {
		if err := validate.Struct(&catalog[i]); err != nil {
			return nil, fmt.Errorf("performance %d: %w", i, formatValidationError(err))
		}
	}
	if err := network.CheckTree(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func formatValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "gte":
		return fmt.Errorf("%s must be >= %s", fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
