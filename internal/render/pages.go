package render

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/pvlsite/internal/sections"
)

// HomeFile is the output file name of the home page.
const HomeFile = "index.html"

// HomeSectionOrder is the order of the content sections on the home page.
var HomeSectionOrder = []string{
	"about",
	"features",
	"categories",
	"testimonials",
	"implementations",
	"pricing",
	"contact",
}

// HomeOverlays are rendered after the home page footer.
var HomeOverlays = []string{"contact_modal", "quick_contact_modal", "exit_intent_popup"}

// PageDescriptor describes one emitted page.
type PageDescriptor struct {
	ID                  string
	File                string
	Title               string
	Description         string
	BodyClass           string
	IncludeCaptcha      bool
	IncludeSuccessModal bool
}

const siteName = "Personal Video Library"

var catalogue = map[string]PageDescriptor{
	"privacy_policy": {
		Title:       "Privacy Policy",
		Description: "How Personal Video Library collects, uses and protects your personal information.",
	},
	"terms_of_service": {
		Title:       "Terms of Service",
		Description: "The terms that govern your use of the Personal Video Library service.",
	},
	"cookie_policy": {
		Title:       "Cookie Policy",
		Description: "Which cookies Personal Video Library uses and how to control them.",
	},
	"refund_policy": {
		Title:       "Refund Policy",
		Description: "When and how Personal Video Library subscriptions are refunded.",
	},
	"contact": {
		Title:               "Contact Us",
		Description:         "Get in touch with the Personal Video Library team.",
		IncludeCaptcha:      true,
		IncludeSuccessModal: true,
	},
}

// HomeDescriptor returns the descriptor of the home page.
func HomeDescriptor() PageDescriptor {
	return PageDescriptor{
		ID:             "index",
		File:           HomeFile,
		Title:          siteName + " - Your Media, Organized",
		Description:    "Personal Video Library keeps your movies, shows and home videos organized, searchable and streamable from anywhere.",
		BodyClass:      "home-page",
		IncludeCaptcha: true,
	}
}

// DescriptorFor returns the descriptor of the content page id. Ids outside the
// built-in catalogue get a title derived from the id.
func DescriptorFor(id string) PageDescriptor {
	d, ok := catalogue[id]
	if !ok {
		d = PageDescriptor{Title: titleFromID(id)}
		d.Description = d.Title + " - " + siteName
	}
	d.ID = id
	d.File = id + ".html"
	d.BodyClass = "policy-page " + strings.ReplaceAll(id, "_", "-") + "-page"
	d.Title = d.Title + " - " + siteName
	return d
}

// RequiredSections returns the fragment keys needed to render the home page (when
// home is set) and the given content pages, in a stable order without duplicates.
func RequiredSections(home bool, pageIDs []string) []string {
	keys := append([]string(nil), sections.Chrome...)
	if home {
		keys = append(keys, HomeSectionOrder...)
		keys = append(keys, HomeOverlays...)
	}
	needModal := false
	for _, id := range pageIDs {
		if !slices.Contains(keys, id) {
			keys = append(keys, id)
		}
		needModal = needModal || DescriptorFor(id).IncludeSuccessModal
	}
	if needModal && !slices.Contains(keys, sections.SuccessModal) {
		keys = append(keys, sections.SuccessModal)
	}
	return keys
}

func titleFromID(id string) string {
	words := strings.ReplaceAll(strings.ReplaceAll(id, "_", " "), "-", " ")
	return cases.Title(language.English).String(words)
}
