// Package seed holds the area-code reference data shipped with the binary.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"contactsapi/src/core/domain"
	"contactsapi/src/core/ports"
)

//go:embed area_codes.yaml
var bundled []byte

type document struct {
	AreaCodes []domain.AreaCode `yaml:"area_codes"`
}

// AreaCodes returns the bundled reference data.
func AreaCodes() ([]domain.AreaCode, error) {
	return Parse(bundled)
}

// Parse decodes and checks an area-code YAML document.
func Parse(data []byte) ([]domain.AreaCode, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse area codes: %w", err)
	}

	seen := make(map[int]bool, len(doc.AreaCodes))
	for i, ac := range doc.AreaCodes {
		switch {
		case ac.Code < 11 || ac.Code > 99:
			return nil, fmt.Errorf("area code #%d: code %d out of range", i, ac.Code)
		case seen[ac.Code]:
			return nil, fmt.Errorf("area code #%d: duplicate code %d", i, ac.Code)
		case ac.Region == "":
			return nil, fmt.Errorf("area code %d: missing region", ac.Code)
		case len(ac.State) != 2:
			return nil, fmt.Errorf("area code %d: state must have two letters", ac.Code)
		}
		seen[ac.Code] = true
	}
	return doc.AreaCodes, nil
}

// Run upserts the bundled area codes into the store.
func Run(ctx context.Context, seeder ports.AreaCodeSeeder, log *slog.Logger) error {
	codes, err := AreaCodes()
	if err != nil {
		return err
	}
	if err := seeder.SeedAreaCodes(ctx, codes); err != nil {
		return fmt.Errorf("failed to seed area codes: %w", err)
	}
	log.Info("area codes seeded", "count", len(codes))
	return nil
}
