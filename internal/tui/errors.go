// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-study-platform/internal/adapter"
	"github.com/MKhiriev/go-study-platform/internal/app"
)

var ErrUserQuit = errors.New("вышел из программы")

// humanizeError turns client errors into a line for the status bar.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *adapter.APIError
	switch {
	case errors.Is(err, adapter.ErrServerUnreachable):
		return "Отсутствует сеть или Сервер недоступен"
	case errors.As(err, &apiErr):
		switch apiErr.Code {
		case app.CodeInvalidCredentials:
			return "Неверный email или пароль"
		case app.CodeConflict:
			return "Пользователь с таким email уже существует"
		case app.CodeTooManyRequests:
			if apiErr.RetryAfter != "" {
				return "Слишком много попыток входа, повторите через " + apiErr.RetryAfter + " с"
			}
			return "Слишком много попыток входа, повторите позже"
		case app.CodeForbidden:
			return "Доступ запрещён"
		case app.CodeNotFound:
			return "Аккаунт не найден"
		case app.CodeBadRequest:
			return "Некорректные данные: " + apiErr.Message
		}
		return apiErr.Message
	}

	return err.Error()
}
