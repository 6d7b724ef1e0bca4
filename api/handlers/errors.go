package handlers

import "fmt"

func errMissingField(field string) error {
	return fmt.Errorf("missing required field: %s", field)
}
