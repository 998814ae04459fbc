package core

import (
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

// MinPasswordLength is enforced on registration only; login forwards
// whatever the user typed.
const MinPasswordLength = 6

const maxTextLength = 200

// ValidateCredentials checks the login form.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email", "must not be empty")
	}
	if password == "" {
		return invalid("password", "must not be empty")
	}
	return nil
}

// ValidateRegistration checks the registration form, including the
// confirmation field the user typed twice.
func ValidateRegistration(email, password, confirm string) error {
	if err := ValidateNewPassword(email, password); err != nil {
		return err
	}
	if password != confirm {
		return invalid("password", "passwords do not match")
	}
	return nil
}

// ValidateNewPassword applies the registration rules without a confirmation.
func ValidateNewPassword(email, password string) error {
	if err := ValidateCredentials(email, password); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return invalid("email", "not a valid address")
	}
	if len(password) < MinPasswordLength {
		return invalid("password", "must be at least 6 characters")
	}
	return nil
}

func validateAmount(a decimal.Decimal) error {
	if a.IsNegative() {
		return invalid("amount", "must not be negative")
	}
	if a.IsZero() {
		return invalid("amount", "must be greater than zero")
	}
	return nil
}

func validateText(field, s string, required bool) error {
	if required && strings.TrimSpace(s) == "" {
		return invalid(field, "must not be empty")
	}
	if len(s) > maxTextLength {
		return invalid(field, "too long (max 200 characters)")
	}
	return nil
}

func (n NewIncome) Validate() error {
	if err := validateAmount(n.Amount); err != nil {
		return err
	}
	if err := n.Date.Validate(); err != nil {
		return invalid("date", err.Error())
	}
	return validateText("description", n.Description, false)
}

func (n NewDebt) Validate() error {
	if err := validateAmount(n.Amount); err != nil {
		return err
	}
	if err := validateText("name", n.Name, true); err != nil {
		return err
	}
	if err := n.DueDate.Validate(); err != nil {
		return invalid("due date", err.Error())
	}
	if !n.Category.Valid() {
		return invalid("category", "unknown category "+string(n.Category))
	}
	return nil
}

func (n NewTransaction) Validate() error {
	if err := validateAmount(n.Amount); err != nil {
		return err
	}
	if err := n.Date.Validate(); err != nil {
		return invalid("date", err.Error())
	}
	if n.DebtID != nil && *n.DebtID <= 0 {
		return invalid("debt", "reference must be a positive id")
	}
	return validateText("note", n.Note, false)
}

// ValidateStatusChange rejects transitions the gateway does not model.
func ValidateStatusChange(id int64, status DebtStatus) error {
	if id <= 0 {
		return invalid("debt", "id must be positive")
	}
	if !status.Valid() {
		return invalid("status", "unknown status "+string(status))
	}
	return nil
}
