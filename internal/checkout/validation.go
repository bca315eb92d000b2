package checkout

import (
	"fmt"
	"math"
	"strings"

	"github.com/fjod/decohome/internal/domain"
)

// ValidationError lists the form fields that blocked a submit.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", strings.Join(e.Fields, ", "), e.Message)
}

// ValidateProductDraft requires a name, a valid non-negative price and an image.
func ValidateProductDraft(d domain.ProductDraft) error {
	var fields []string
	if strings.TrimSpace(d.Name) == "" {
		fields = append(fields, "name")
	}
	if d.Price < 0 || math.IsNaN(d.Price) || math.IsInf(d.Price, 0) {
		fields = append(fields, "price")
	}
	if strings.TrimSpace(d.ImageURL) == "" {
		fields = append(fields, "imageUrl")
	}

	if len(fields) > 0 {
		return &ValidationError{
			Fields:  fields,
			Message: "complete all fields and upload an image",
		}
	}
	return nil
}

// ValidateForm requires every checkout field.
func ValidateForm(f domain.CheckoutForm) error {
	required := []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"address", f.Address},
		{"city", f.City},
		{"postalCode", f.PostalCode},
		{"cardNumber", f.CardNumber},
		{"expiryDate", f.ExpiryDate},
		{"cvv", f.CVV},
	}

	var fields []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			fields = append(fields, r.name)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{
			Fields:  fields,
			Message: "complete all fields",
		}
	}
	return nil
}
