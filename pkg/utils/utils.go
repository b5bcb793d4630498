package utils

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NormalizePhoneNumber(phone string) (string, error)
	MaskPhoneNumber(phone string) string
}

type utils struct {
	defaultCountryCode string
}

func New() IUtils {
	return &utils{
		defaultCountryCode: "91",
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// NormalizePhoneNumber reduces a dialable number to bare digits with a
// country code, the form WhatsApp JIDs and call records use. Ten digit
// local numbers get the default country code prefixed.
func (u *utils) NormalizePhoneNumber(phone string) (string, error) {
	var sb strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else if r != '+' && r != '-' && r != ' ' && r != '(' && r != ')' {
			return "", errors.New("phone number contains invalid characters")
		}
	}

	digits := sb.String()
	if len(digits) == 10 {
		digits = u.defaultCountryCode + digits
	}
	if len(digits) < 11 || len(digits) > 15 {
		return "", errors.New("phone number has invalid length")
	}

	return digits, nil
}

func (u *utils) MaskPhoneNumber(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
