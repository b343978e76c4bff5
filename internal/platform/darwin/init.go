//go:build darwin

package darwin

import "github.com/mj1618/applaunch/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Registry:  NewRegistry(),
			Modifiers: NewModifierReader(),
		}, nil
	}
}
