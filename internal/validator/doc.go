// Package validator validates request payloads with go-playground/validator.
//
// Besides the stock tags it registers "experimentname", which accepts the
// names allowed by domain.ExperimentNamePattern.
//
//	if err := validator.Validate(input); err != nil {
//	    // err is a validator.ValidationErrors
//	}
package validator
