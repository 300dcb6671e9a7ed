package extraction

import (
	"fmt"
	"sort"

	"billdesk/internal/config"
	"billdesk/internal/port"
)

// ProviderFactory creates a BillExtractor from the extraction config.
type ProviderFactory func(cfg *config.ExtractionConfig) (port.BillExtractor, error)

// registry of provider factories, populated by init() in each provider package.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates the BillExtractor named by cfg.Provider.
func NewExtractor(cfg *config.ExtractionConfig) (port.BillExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s (registered: %v)", cfg.Provider, Providers())
	}
	return factory(cfg)
}

// Providers lists the registered provider names.
func Providers() []string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
