// Package validation checks request input and reports failures as
// *errors.AppError values (INVALID_INPUT, 400) with per-field details.
//
// Struct tag validation uses go-playground/validator:
//
//	type RegisterInput struct {
//	    Email string `json:"email" validate:"required,email,max=254"`
//	    Name  string `json:"name" validate:"required,max=100"`
//	}
//	err := validation.Validate(in)
//
// Checks that tags cannot express are collected programmatically:
//
//	v := validation.New()
//	v.Required("name", name)
//	err := v.Err()
package validation
