package config

// Top-level configuration keys.
const (
	KeyTheme               = "theme"
	KeyGenerateMainPage    = "generate_main_page"
	KeyGeneratePolicyPages = "generate_policy_pages"
	KeyOutputTargets       = "output_targets"
	KeyCleanOutputs        = "clean_outputs"
	KeyIntegrations        = "integrations"
)

// Integration feature keys.
const (
	IntegrationRecaptcha = "recaptcha_enabled"
	IntegrationTawk      = "tawk_enabled"
	IntegrationClarity   = "clarity_enabled"
)

// Output target names accepted on the command line.
const (
	TargetBuild  = "build"
	TargetDist   = "dist"
	TargetDeploy = "deploy"
)

// KnownTargets lists the selectable output targets in canonical processing order.
var KnownTargets = []string{TargetBuild, TargetDist, TargetDeploy}

// PolicyPageOrder is the canonical order of the content pages that ship with the site.
var PolicyPageOrder = []string{
	"privacy_policy",
	"terms_of_service",
	"cookie_policy",
	"refund_policy",
	"contact",
}

// nestedKeys are the top-level keys whose persisted sub-keys are merged over the
// defaults instead of replacing them.
var nestedKeys = map[string]bool{
	KeyGeneratePolicyPages: true,
	KeyOutputTargets:       true,
	KeyIntegrations:        true,
}

// Defaults returns a fresh copy of the built-in configuration tree.
// Callers may modify the result freely.
func Defaults() map[string]any {
	pages := make(map[string]any, len(PolicyPageOrder))
	for _, id := range PolicyPageOrder {
		pages[id] = true
	}
	return map[string]any{
		KeyTheme:               string(ThemeDark),
		KeyGenerateMainPage:    true,
		KeyGeneratePolicyPages: pages,
		KeyOutputTargets: map[string]any{
			TargetBuild:  true,
			TargetDist:   false,
			TargetDeploy: false,
		},
		KeyCleanOutputs: true,
		KeyIntegrations: map[string]any{
			IntegrationRecaptcha: true,
			IntegrationTawk:      true,
			IntegrationClarity:   true,
		},
	}
}
