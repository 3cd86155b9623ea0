package extractor

import (
	"fmt"

	"cargoscan/internal/config"
	"cargoscan/internal/port"
)

// ProviderFactory is a function that creates a FieldExtractor from a
// provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.FieldExtractor, error)

// registry of provider factories, populated by init() in each provider
// subpackage.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider creates a FieldExtractor from a provider config using the
// registered factory.
func NewProvider(cfg *config.ProviderConfig) (port.FieldExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// BuildChain assembles the primary provider plus optional secondary
// fallback into a single FieldExtractor.
func BuildChain(cfg *config.ExtractorConfig) (port.FieldExtractor, error) {
	primary, err := NewProvider(&cfg.Primary)
	if err != nil {
		return nil, err
	}

	extractors := []port.FieldExtractor{primary}
	names := []string{cfg.Primary.Provider}

	if sec := cfg.SecondaryConfig(); sec != nil {
		secondary, err := NewProvider(sec)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, secondary)
		names = append(names, sec.Provider)
	}

	if len(extractors) == 1 {
		return primary, nil
	}
	return NewChain(extractors, names), nil
}
