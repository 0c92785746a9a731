package donor

import (
	"strings"
	"unicode"
)

// phoneDigits оставляет в номере только цифры; по ним сравниваются телефоны.
func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// phoneKey ключ уникальности телефона.
func phoneKey(phone string) string {
	if d := phoneDigits(phone); d != "" {
		return d
	}
	return strings.ToLower(strings.TrimSpace(phone))
}

// validPhoneChars разрешает цифры, пробелы и символы + - ( ).
func validPhoneChars(phone string) bool {
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r), r == ' ', r == '+', r == '-', r == '(', r == ')':
		default:
			return false
		}
	}
	return true
}

// formatStrictPhone приводит 11-значный номер к виду DDDDD-DDDDDD.
func formatStrictPhone(digits string) string {
	return digits[:5] + "-" + digits[5:]
}
