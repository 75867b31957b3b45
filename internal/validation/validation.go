package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateRequired checks that a field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength checks the minimum length of a string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ValidateUUID checks that a string is a valid UUID
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidatePhoneNumber checks a basic phone number shape: digits with an optional leading +
func ValidatePhoneNumber(phone string) error {
	trimmed := strings.TrimPrefix(strings.TrimSpace(phone), "+")
	if len(trimmed) < 7 || len(trimmed) > 15 {
		return errors.New("phone number must have between 7 and 15 digits")
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return errors.New("phone number must contain only digits")
		}
	}
	return nil
}

// ValidateFutureDate checks that a date is not in the past beyond a one-day grace window
func ValidateFutureDate(date time.Time, fieldName string) error {
	if date.Before(time.Now().Add(-24 * time.Hour)) {
		return errors.New(fieldName + " cannot be in the past")
	}
	return nil
}

// PollValidation contains poll specific validations
type PollValidation struct{}

// ValidateQuestion validates a poll question
func (v PollValidation) ValidateQuestion(question string) error {
	if err := ValidateRequired(question, "question"); err != nil {
		return err
	}
	if err := ValidateMaxLength(question, 300, "question"); err != nil {
		return err
	}
	return nil
}

// ValidateOptions validates the candidate options of a poll
func (v PollValidation) ValidateOptions(options []string) error {
	if len(options) < 2 {
		return errors.New("at least 2 options are required")
	}
	for _, opt := range options {
		if err := ValidateRequired(opt, "option text"); err != nil {
			return err
		}
	}
	return nil
}

// UserValidation contains user specific validations
type UserValidation struct{}

// ValidateUserName validates a user's name
func (v UserValidation) ValidateUserName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 2, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 50, "name"); err != nil {
		return err
	}
	return nil
}

// ValidatePassword validates a user's password
func (v UserValidation) ValidatePassword(password string) error {
	if err := ValidateRequired(password, "password"); err != nil {
		return err
	}
	return ValidateMinLength(password, 6, "password")
}
