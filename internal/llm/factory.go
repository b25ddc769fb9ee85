package llm

import (
	"fmt"

	"docsense/internal/config"
	"docsense/internal/port"
)

// ClientFactory is a function that creates an LLMClient from a provider config.
type ClientFactory func(cfg *config.ProviderConfig) (port.LLMClient, error)

// registry of provider factories, populated explicitly via RegisterProvider
// at application startup.
var providers = map[string]ClientFactory{}

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ClientFactory) {
	providers[name] = factory
}

// NewClient creates an LLMClient from a provider config using the registered factory.
func NewClient(cfg *config.ProviderConfig) (port.LLMClient, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
