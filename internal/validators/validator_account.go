package validators

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-study-platform/models"
)

type AccountValidator struct {
}

func NewAccountValidator() Validator {
	return &AccountValidator{}
}

func (v *AccountValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Account:
		return v.validateAccount(ctx, value, fields...)
	case *models.Account:
		return v.validateAccount(ctx, *value, fields...)

	case models.RegisterRequest:
		return v.validateAccount(ctx, models.Account{Name: value.Name, Email: value.Email, Secret: value.Secret},
			FieldName, FieldEmail, FieldSecret)
	case *models.RegisterRequest:
		return v.Validate(ctx, *value, fields...)

	case models.LoginRequest:
		return v.validateAccount(ctx, models.Account{Email: value.Email, Secret: value.Secret},
			FieldEmail, FieldLoginSecret)
	case *models.LoginRequest:
		return v.Validate(ctx, *value, fields...)

	case models.AccountFilter:
		return v.validateFilter(ctx, value, fields...)
	case *models.AccountFilter:
		return v.validateFilter(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *AccountValidator) validateAccount(ctx context.Context, account models.Account, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldName, FieldEmail, FieldRole, FieldStatus}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if _, err := uuid.Parse(account.ID); err != nil {
				return ErrInvalidID
			}
		case FieldName:
			name := strings.TrimSpace(account.Name)
			if name == "" || utf8.RuneCountInString(name) > maxNameLength {
				return ErrInvalidName
			}
		case FieldEmail:
			if !isValidEmail(account.Email) {
				return ErrInvalidEmail
			}
		case FieldSecret:
			if len(account.Secret) < minSecretLength || len(account.Secret) > maxSecretLength {
				return ErrInvalidSecret
			}
		case FieldLoginSecret:
			if account.Secret == "" {
				return ErrEmptySecret
			}
		case FieldRole:
			if !account.Role.Valid() {
				return ErrInvalidRole
			}
		case FieldStatus:
			if !account.Status.Valid() {
				return ErrInvalidStatus
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *AccountValidator) validateFilter(ctx context.Context, filter models.AccountFilter, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRole, FieldStatus, FieldLimit}
	}

	for _, f := range fields {
		switch f {
		case FieldRole:
			if filter.Role != "" && !filter.Role.Valid() {
				return ErrInvalidRole
			}
		case FieldStatus:
			if filter.Status != "" && !filter.Status.Valid() {
				return ErrInvalidStatus
			}
		case FieldLimit:
			if filter.Limit > maxPageLength {
				return ErrInvalidPageLen
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > maxEmailLength {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// reject "Name <addr>" forms
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}
