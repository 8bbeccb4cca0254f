package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Selectors are the structural markers used to find things on a results
// page. Every value except the embedded markers is a CSS selector.
type Selectors struct {
	Listing string `yaml:"listing"`

	Price            string `yaml:"price"`
	PriceQualifier   string `yaml:"price_qualifier"`
	Address          string `yaml:"address"`
	Summary          string `yaml:"summary"`
	Phone            string `yaml:"phone"`
	PropertyInfo     string `yaml:"property_info"`
	PropertyInfoText string `yaml:"property_info_text"`
	DisplayStatus    string `yaml:"display_status"`
	AddedOrReduced   string `yaml:"added_or_reduced"`

	ConsentBanner string `yaml:"consent_banner"`
	ConsentAccept string `yaml:"consent_accept"`

	EmbeddedStart string `yaml:"embedded_start"`
	EmbeddedEnd   string `yaml:"embedded_end"`
}

// DefaultSelectors matches the portal's current search results markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Listing: ".l-searchResult",

		Price:            ".propertyCard-priceValue",
		PriceQualifier:   ".propertyCard-priceQualifier",
		Address:          ".propertyCard-address",
		Summary:          ".propertyCard-description",
		Phone:            ".propertyCard-contactsPhoneNumber",
		PropertyInfo:     ".property-information",
		PropertyInfoText: ".text",
		DisplayStatus:    ".propertyCard-tagTitle",
		AddedOrReduced:   ".propertyCard-branchSummary-addedOrReduced",

		ConsentBanner: "#onetrust-banner-sdk",
		ConsentAccept: "#onetrust-accept-btn-handler",

		EmbeddedStart: "window.jsonModel = ",
		EmbeddedEnd:   "</script>",
	}
}

// LoadSelectors returns DefaultSelectors overlaid with the YAML file at path.
// Keys missing from the file keep their defaults. An empty path means no file.
func LoadSelectors(path string) (Selectors, error) {
	sel := DefaultSelectors()
	if path == "" {
		return sel, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return sel, fmt.Errorf("selectors: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &sel); err != nil {
		return sel, fmt.Errorf("selectors: parse %q: %w", path, err)
	}
	if sel.Listing == "" || sel.EmbeddedStart == "" || sel.EmbeddedEnd == "" {
		return sel, fmt.Errorf("selectors: %q blanks a required marker", path)
	}
	return sel, nil
}
