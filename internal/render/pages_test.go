package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/pvlsite/internal/config"
	"git.home.luguber.info/inful/pvlsite/internal/sections"
)

func TestDescriptorFor(t *testing.T) {
	d := DescriptorFor("terms_of_service")

	assert.Equal(t, "terms_of_service", d.ID)
	assert.Equal(t, "terms_of_service.html", d.File)
	assert.Equal(t, "Terms of Service - Personal Video Library", d.Title)
	assert.False(t, d.IncludeCaptcha)
	assert.False(t, d.IncludeSuccessModal)

	contact := DescriptorFor("contact")
	assert.True(t, contact.IncludeCaptcha)
	assert.True(t, contact.IncludeSuccessModal)
}

func TestDescriptorForUnknownID(t *testing.T) {
	d := DescriptorFor("shipping_info")

	assert.Equal(t, "shipping_info.html", d.File)
	assert.Equal(t, "Shipping Info - Personal Video Library", d.Title)
	assert.Equal(t, "policy-page shipping-info-page", d.BodyClass)
}

func TestCatalogueCoversDefaultPages(t *testing.T) {
	for _, id := range config.PolicyPageOrder {
		_, ok := catalogue[id]
		assert.True(t, ok, id)
	}
}

func TestRequiredSections(t *testing.T) {
	assert.Equal(t, sections.Chrome, RequiredSections(false, nil))

	keys := RequiredSections(false, []string{"privacy_policy", "contact"})
	assert.Equal(t, append(append([]string(nil), sections.Chrome...), "privacy_policy", "contact", sections.SuccessModal), keys)

	withHome := RequiredSections(true, []string{"contact"})
	assert.Contains(t, withHome, "pricing")
	assert.Contains(t, withHome, "exit_intent_popup")
	count := 0
	for _, k := range withHome {
		if k == "contact" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestTokensFor(t *testing.T) {
	assert.Equal(t, themeTokens[config.ThemeLight], TokensFor(config.ThemeLight))
	assert.Equal(t, themeTokens[config.ThemeDark], TokensFor("neon"))
	assert.Contains(t, TokensFor(config.ThemeDark).CSS(), "--bg: #0b0f19;")
}
