package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")

	reg := regexp.MustCompile("[^a-z0-9-]")
	s = reg.ReplaceAllString(s, "")

	reg = regexp.MustCompile("-+")
	s = reg.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// FormatInvoiceNo renders a branch-scoped invoice number from the configured
// prefix and an allocated sequence value, zero-padded for sortable display.
func FormatInvoiceNo(prefix string, sequence int64) string {
	return fmt.Sprintf("%s%06d", prefix, sequence)
}

// GenerateBarcode generates a barcode value for products created without one
func GenerateBarcode() string {
	return "PRD-" + strings.ToUpper(uuid.New().String()[:8])
}
