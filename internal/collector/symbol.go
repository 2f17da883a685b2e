package collector

import (
	"fmt"
	"regexp"
)

// validSymbol matches equity tickers like AAPL, MSFT, BRK.B, RDS-A
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}([.\-][A-Za-z0-9]{1,4})?$`)

// ValidateSymbol checks if a symbol has valid format. All configured
// vendors share the same ticker grammar, so validation lives here
// instead of per adapter.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}
