package auth

import (
	"log"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"

	"boutique/internal/config"
)

// InitProviders registers every OAuth provider that has credentials and returns their names.
// gothic keeps its state in store.
func InitProviders(cfg config.Config, store sessions.Store) []string {
	gothic.Store = store

	base := strings.TrimRight(cfg.BaseURL, "/")
	var providers []goth.Provider
	if cfg.GoogleClientID != "" {
		providers = append(providers, google.New(cfg.GoogleClientID, cfg.GoogleClientSecret,
			base+"/auth/google/callback", "email"))
	}
	if cfg.FacebookClientID != "" {
		providers = append(providers, facebook.New(cfg.FacebookClientID, cfg.FacebookClientSecret,
			base+"/auth/facebook/callback", "email"))
	}
	goth.UseProviders(providers...)

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	if len(names) == 0 {
		log.Println("⚠️ No OAuth provider configured")
	} else {
		log.Printf("✅ OAuth providers: %v", names)
	}
	return names
}
