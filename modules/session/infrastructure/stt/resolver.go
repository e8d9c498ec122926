package stt

import (
	"fmt"

	"github.com/coachtranscribe/engine/modules/session/domain/services"
)

// Resolver maps a Session's provider preference ("auto", "google", or
// "assemblyai") to a concrete adapter. "auto" resolves to a single
// configured default (spec.md §4.2); the resolution is recorded on the
// Session by the caller so retries stay sticky to the same back end.
type Resolver struct {
	google      services.Adapter
	assemblyAI  services.Adapter
	defaultName string
}

// NewResolver wires the two back ends behind one Resolver. Either
// adapter may be nil if its credentials are not configured for this
// process; resolving to a nil adapter returns an error.
func NewResolver(google, assemblyAI services.Adapter, defaultName string) *Resolver {
	return &Resolver{google: google, assemblyAI: assemblyAI, defaultName: defaultName}
}

func (r *Resolver) Resolve(preference string) (services.Adapter, error) {
	name := preference
	if name == "" || name == "auto" {
		name = r.defaultName
	}
	return r.ByName(name)
}

func (r *Resolver) ByName(name string) (services.Adapter, error) {
	switch name {
	case services.ProviderGoogle:
		if r.google == nil {
			return nil, fmt.Errorf("stt resolver: google provider not configured")
		}
		return r.google, nil
	case services.ProviderAssemblyAI:
		if r.assemblyAI == nil {
			return nil, fmt.Errorf("stt resolver: assemblyai provider not configured")
		}
		return r.assemblyAI, nil
	default:
		return nil, fmt.Errorf("stt resolver: unknown provider %q", name)
	}
}

var _ services.Resolver = (*Resolver)(nil)
