package salesreport

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Branding holds the letterhead printed on documents.
type Branding struct {
	CompanyName string `yaml:"company_name"`
	ContactLine string `yaml:"contact_line"`
	ThankYou    string `yaml:"thank_you"`
	// CreditLine is printed under the footer of every document when set.
	CreditLine  string `yaml:"credit_line"`
}

// DefaultBranding is used when no branding file is configured.
func DefaultBranding() Branding {
	return Branding{
		CompanyName: "Inventory Management System",
		ContactLine: "Phone: +91-9999999999 | Email: info@company.com",
		ThankYou:    "Thank you for your business!",
	}
}

// LoadBranding reads a YAML branding file. An empty path yields the
// defaults; fields missing from the file keep their default value.
func LoadBranding(path string) (Branding, error) {
	branding := DefaultBranding()
	if path == "" {
		return branding, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return branding, fmt.Errorf("salesreport: branding file %s not found", path)
		}
		return branding, fmt.Errorf("salesreport: read branding: %w", err)
	}
	var fromFile Branding
	if err := yaml.Unmarshal(raw, &fromFile); err != nil {
		return branding, fmt.Errorf("salesreport: parse branding: %w", err)
	}
	if fromFile.CompanyName != "" {
		branding.CompanyName = fromFile.CompanyName
	}
	if fromFile.ContactLine != "" {
		branding.ContactLine = fromFile.ContactLine
	}
	if fromFile.ThankYou != "" {
		branding.ThankYou = fromFile.ThankYou
	}
	branding.CreditLine = fromFile.CreditLine
	return branding, nil
}
