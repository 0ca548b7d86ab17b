// Package validation provides input validation for featurekit.
//
// Struct tag validation (go-playground/validator) is used for dependency
// descriptors and use-case requests; the fluent Validator collects
// programmatic checks. Both report failures as an INVALID_INPUT AppError whose
// details list the offending fields.
//
// # Struct Tag Validation
//
//	type Dependencies struct {
//	    DataStore datastore.Repository `validate:"required"`
//	}
//	err := validation.Validate(deps)
//
// # Programmatic Validation
//
//	err := validation.New().Required("username", name).MinLength("password", pw, 8).Err()
package validation
