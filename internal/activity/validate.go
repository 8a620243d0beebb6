package activity

import (
	"fmt"

	"github.com/BradenHooton/loginwatch/internal/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateEvents rejects malformed events before they reach storage or the classifier
func ValidateEvents(events []*models.LoginEvent) error {
	for i, e := range events {
		if e == nil {
			return fmt.Errorf("event %d is nil: %w", i, models.ErrBadRequest)
		}
		if err := validate.Struct(e); err != nil {
			return fmt.Errorf("event %d invalid (%v): %w", i, err, models.ErrBadRequest)
		}
	}
	return nil
}
