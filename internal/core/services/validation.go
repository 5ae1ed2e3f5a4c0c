package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// accountFields is the validated shape shared by account creation and update.
type accountFields struct {
	Code           string `json:"code" validate:"required,number,max=20"`
	Name           string `json:"name" validate:"required,max=100"`
	AccountType    string `json:"accountType" validate:"required,account_type"`
	Classification string `json:"classification" validate:"required"`
	Description    string `json:"description" validate:"max=1000"`
}

var accountFieldMessages = map[string]string{
	"code.required":                 "Account code is required",
	"code.number":                   "Account code must contain only numbers",
	"code.max":                      "Account code must be at most 20 digits",
	"name.required":                 "Account name is required",
	"name.max":                      "Account name must be at most 100 characters",
	"accountType.required":          "Account type is required",
	"accountType.account_type":      "Account type must be one of asset, liability, equity, income, expense",
	"classification.required":       "Account classification is required",
	"classification.classification": "Classification is not valid for the account type",
	"description.max":               "Description must be at most 1000 characters",
}

func newAccountValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("account_type", func(fl validator.FieldLevel) bool {
		return domain.AccountType(fl.Field().String()).IsValid()
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(accountFields)
		accountType := domain.AccountType(f.AccountType)
		if f.Classification == "" || !accountType.IsValid() {
			return
		}
		if !domain.Classification(f.Classification).ValidFor(accountType) {
			sl.ReportError(f.Classification, "classification", "Classification", "classification", "")
		}
	}, accountFields{})
	return v
}

// validateAccountFields runs the field rules and returns the collected messages.
// The returned error is never nil; callers add further checks and use OrNil.
func validateAccountFields(v *validator.Validate, f accountFields) *apperrors.ValidationError {
	verr := &apperrors.ValidationError{}
	err := v.Struct(f)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("account", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		msg, ok := accountFieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		verr.Add(fe.Field(), msg)
	}
	return verr
}
