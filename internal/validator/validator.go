// Package validator checks and cleans untrusted request payloads before they
// reach the services. Every entity validator returns a Result whose Sanitized
// map holds only the fields that were present, valid and cleaned.
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	playvalidator "github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Result 是一次校验的三段式结果。
type Result struct {
	Valid     bool
	Errors    map[string]string
	Sanitized map[string]any
}

func newResult() *Result {
	return &Result{Errors: map[string]string{}, Sanitized: map[string]any{}}
}

func (r *Result) fail(field, message string) {
	if _, exists := r.Errors[field]; !exists {
		r.Errors[field] = message
	}
	delete(r.Sanitized, field)
}

func (r *Result) finish() Result {
	r.Valid = len(r.Errors) == 0
	return *r
}

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugInvalidRune = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphens     = regexp.MustCompile(`-{2,}`)

	strictPolicy = bluemonday.StrictPolicy()
	emailChecker = playvalidator.New()
)

// ValidateSlug reports whether s is a lowercase, hyphen separated slug.
func ValidateSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Slugify 将任意标题转换为合法 slug，去除重音并合并连字符。
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(strings.TrimSpace(result))
	result = strings.Join(strings.FieldsFunc(result, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_'
	}), "-")
	result = slugInvalidRune.ReplaceAllString(result, "")
	result = slugHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// ValidateEmail reports whether s is a syntactically valid address.
func ValidateEmail(s string) bool {
	return emailChecker.Var(s, "required,email") == nil
}

// SanitizeString trims s, strips every HTML tag and escapes what remains.
func SanitizeString(s string) string {
	return strictPolicy.Sanitize(strings.TrimSpace(s))
}

// fieldLabel turns "category_id" into "Category id".
func fieldLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return label
	}
	r := []rune(label)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func requiredMessage(field string) string {
	return fieldLabel(field) + " is required"
}

// present reports whether the field was supplied with a non-null value.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !isNull(raw)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// rawString decodes a JSON string or number into its textual form.
func rawString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(trimmed), true
	default:
		return "", false
	}
}

// parseInt accepts a JSON integer or a string holding a decimal integer.
func parseInt(raw json.RawMessage) (int64, bool) {
	text, ok := rawString(raw)
	if !ok {
		return 0, false
	}
	value, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// parseBool accepts JSON booleans, 0/1 and the usual textual spellings.
func parseBool(raw json.RawMessage) (bool, bool) {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}

	text, ok := rawString(trimmed)
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off", "":
		return false, true
	}
	return false, false
}

// textField validates and sanitizes a free-text field.
func (r *Result) textField(field string, raw json.RawMessage, required bool) {
	if !present(raw) {
		if required {
			r.fail(field, requiredMessage(field))
		}
		return
	}

	text, ok := rawString(raw)
	if !ok {
		r.fail(field, fmt.Sprintf("%s must be a string", fieldLabel(field)))
		return
	}
	if required && strings.TrimSpace(text) == "" {
		r.fail(field, requiredMessage(field))
		return
	}
	r.Sanitized[field] = SanitizeString(text)
}

func (r *Result) slugField(raw json.RawMessage, required bool) {
	const field = "slug"
	if !present(raw) {
		if required {
			r.fail(field, requiredMessage(field))
		}
		return
	}

	text, ok := rawString(raw)
	text = strings.TrimSpace(text)
	switch {
	case !ok:
		r.fail(field, "Slug must contain only lowercase letters, numbers, and hyphens")
	case text == "":
		if required {
			r.fail(field, requiredMessage(field))
		}
	case !ValidateSlug(text):
		r.fail(field, "Slug must contain only lowercase letters, numbers, and hyphens")
	default:
		r.Sanitized[field] = text
	}
}

func (r *Result) emailField(field string, raw json.RawMessage) {
	if !present(raw) {
		r.fail(field, requiredMessage(field))
		return
	}
	text, ok := rawString(raw)
	text = strings.TrimSpace(text)
	switch {
	case !ok:
		r.fail(field, "Invalid email format")
	case text == "":
		r.fail(field, requiredMessage(field))
	case !ValidateEmail(text):
		r.fail(field, "Invalid email format")
	default:
		r.Sanitized[field] = text
	}
}

func (r *Result) intField(field string, raw json.RawMessage) {
	if !present(raw) {
		return
	}
	value, ok := parseInt(raw)
	if !ok {
		r.fail(field, fmt.Sprintf("%s must be a valid integer", displayName(field)))
		return
	}
	r.Sanitized[field] = int(value)
}

func (r *Result) boolField(field string, raw json.RawMessage) {
	if !present(raw) {
		return
	}
	value, ok := parseBool(raw)
	if !ok {
		r.fail(field, fmt.Sprintf("%s must be a boolean", displayName(field)))
		return
	}
	r.Sanitized[field] = value
}

// displayName 用于类型错误提示，例如 "category_id" → "Category ID"。
func displayName(field string) string {
	words := strings.Split(field, "_")
	for i, word := range words {
		if word == "id" {
			words[i] = "ID"
			continue
		}
		if i == 0 {
			words[i] = fieldLabel(word)
		}
	}
	return strings.Join(words, " ")
}
