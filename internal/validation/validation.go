package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/models"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput marks input rejected before it reaches the store or the remote service.
var ErrInvalidInput = errors.New("invalid input")

var (
	validate *validator.Validate
	once     sync.Once
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("project_status", func(fl validator.FieldLevel) bool {
			return models.ProjectStatus(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Struct validates v against its `validate` tags.
func Struct(v interface{}) error {
	if err := instance().Struct(v); err != nil {
		return wrap(err)
	}
	return nil
}

// Project validates a project before it is written anywhere.
func Project(p *models.Project) error {
	if p == nil {
		return fmt.Errorf("%w: project is nil", ErrInvalidInput)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return Struct(p)
}

func wrap(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}
