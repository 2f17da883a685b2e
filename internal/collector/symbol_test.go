package collector

import "testing"

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "MSFT", "BRK.B", "RDS-A", "TSM", "X"}
	for _, s := range valid {
		if err := ValidateSymbol(s); err != nil {
			t.Errorf("expected %q valid, got %v", s, err)
		}
	}

	invalid := []string{"", "AAPL;DROP", "A B", "toolongsymbolname12345", "../etc"}
	for _, s := range invalid {
		if err := ValidateSymbol(s); err == nil {
			t.Errorf("expected %q invalid", s)
		}
	}
}
