package cli

import (
	"fmt"
	"os"
)

// validateArgs checks that both comparison inputs exist before any
// engine work starts, naming the failing side
func validateArgs(left, right string) error {
	if _, err := os.Stat(left); os.IsNotExist(err) {
		return fmt.Errorf("left path does not exist: %s", left)
	} else if err != nil {
		return fmt.Errorf("failed to access left path: %w", err)
	}

	if _, err := os.Stat(right); os.IsNotExist(err) {
		return fmt.Errorf("right path does not exist: %s", right)
	} else if err != nil {
		return fmt.Errorf("failed to access right path: %w", err)
	}

	return nil
}
