package membership

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field limits for applications.
const (
	minNameLength  = 2
	maxNameLength  = 100
	minPhoneLength = 10
	maxPhoneLength = 20
	maxEmailLength = 254 // RFC 5321
	maxURLLength   = 2048
)

// Common disposable email domains to block when configured.
var disposableDomains = map[string]bool{
	"tempmail.com":      true,
	"10minutemail.com":  true,
	"guerrillamail.com": true,
	"mailinator.com":    true,
	"throwaway.email":   true,
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// ValidationError carries per-field messages for a rejected application.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid application: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ValidateEmail checks an address for length and format.
func ValidateEmail(email string, blockDisposable bool) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email address is required")
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email address is too long (max %d characters)", maxEmailLength)
	}

	normalized := NormalizeEmail(email)
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized || !emailRegex.MatchString(addr.Address) {
		return fmt.Errorf("invalid email address format")
	}

	if blockDisposable && disposableDomains[emailDomain(addr.Address)] {
		return fmt.Errorf("disposable email addresses are not allowed")
	}
	return nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return ""
	}
	return email[at+1:]
}

func emailLocalPart(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return email
	}
	return email[:at]
}

// CleanText trims whitespace and drops control characters.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < minNameLength {
		return fmt.Errorf("name must be at least %d characters", minNameLength)
	}
	if n > maxNameLength {
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	return nil
}

func validatePhone(phone string) error {
	n := utf8.RuneCountInString(phone)
	if n < minPhoneLength {
		return fmt.Errorf("phone number must be at least %d characters", minPhoneLength)
	}
	if n > maxPhoneLength {
		return fmt.Errorf("phone number must be at most %d characters", maxPhoneLength)
	}
	return nil
}

// validateProfileURL accepts absolute http(s) URLs only.
func validateProfileURL(raw string) error {
	if len(raw) > maxURLLength {
		return fmt.Errorf("profile URL is too long")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("please enter a valid URL")
	}
	return nil
}
