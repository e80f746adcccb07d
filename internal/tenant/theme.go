package tenant

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/models"
	"github.com/warrantyhub/console-server/pkg/colorspace"
)

// DefaultPrimaryColor is the stock accent used when a tenant carries
// no usable color
const DefaultPrimaryColor = "#00C853"

// Theme is the color-application contract with the presentation
// layer: CSS custom property values plus the page title
type Theme struct {
	Variables map[string]string `json:"variables"`
	PageTitle string            `json:"pageTitle"`
	Mode      string            `json:"mode"`
}

// ApplyTheme derives the theme for a tenant. The function is pure:
// the same tenant always yields the same theme, so re-applying it is a
// no-op for the consumer.
func (r *Resolver) ApplyTheme(tenant *models.Tenant) Theme {
	if tenant == nil {
		return r.StaticTheme()
	}

	hsl, err := colorspace.HexToHSL(tenant.PrimaryColor)
	if err != nil {
		log.Warn().
			Str("tenant", tenant.Subdomain).
			Str("color", tenant.PrimaryColor).
			Msg("Unparseable tenant color, using default")
		hsl, _ = colorspace.HexToHSL(DefaultPrimaryColor)
	}

	mode := tenant.ThemeMode
	if mode == "" {
		mode = "light"
	}

	return Theme{
		Variables: map[string]string{
			"--primary": hsl.String(),
		},
		PageTitle: fmt.Sprintf("%s - %s", tenant.DisplayName, r.cfg.Tenancy.PlatformName),
		Mode:      mode,
	}
}

// StaticTheme is the branding used when no tenant is active
func (r *Resolver) StaticTheme() Theme {
	hsl, _ := colorspace.HexToHSL(DefaultPrimaryColor)

	return Theme{
		Variables: map[string]string{
			"--primary": hsl.String(),
		},
		PageTitle: r.cfg.Tenancy.PlatformName,
		Mode:      "light",
	}
}
