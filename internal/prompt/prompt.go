// Package prompt collects the sweep inputs interactively when they are
// not supplied as flags.
package prompt

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/ternarybob/pharmscan/internal/catalog"
)

// Postcode prompts for a UK postcode. Only emptiness is rejected; the
// geocoder is the real validator.
func Postcode() (string, error) {
	p := promptui.Prompt{
		Label: "Enter a valid UK postcode",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("postcode must not be empty")
			}
			return nil
		},
	}

	postcode, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("postcode prompt failed: %w", err)
	}
	return postcode, nil
}

// Medication prompts for a dosage selection from the fixed catalog.
func Medication() (catalog.Medication, error) {
	s := promptui.Select{
		Label: "Please select a dosage",
		Items: catalog.Names(),
		Size:  len(catalog.Medications),
	}

	index, _, err := s.Run()
	if err != nil {
		return catalog.Medication{}, fmt.Errorf("medication prompt failed: %w", err)
	}
	return catalog.Medications[index], nil
}
