package validator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBlog(t *testing.T, payload string) BlogRequest {
	t.Helper()
	var req BlogRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	return req
}

func decodeCategory(t *testing.T, payload string) CategoryRequest {
	t.Helper()
	var req CategoryRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	return req
}

func decodeContact(t *testing.T, payload string) ContactRequest {
	t.Helper()
	var req ContactRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	return req
}

func TestValidateSlug(t *testing.T) {
	cases := map[string]bool{
		"top-5-tips":   true,
		"buy":          true,
		"a1-b2-c3":     true,
		"Top 5 Tips":   false,
		"-leading":     false,
		"trailing-":    false,
		"double--dash": false,
		"under_score":  false,
		"":             false,
	}
	for slug, want := range cases {
		assert.Equal(t, want, ValidateSlug(slug), "slug %q", slug)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "top-5-tips", Slugify("Top 5 Tips"))
	assert.Equal(t, "cafe-apartments", Slugify("  Café   Apartments! "))
	assert.Equal(t, "legal-guide", Slugify("legal_guide"))
	assert.True(t, ValidateSlug(Slugify("Rent & Lease -- 2025")))
}

func TestSanitizeStringStripsMarkup(t *testing.T) {
	out := SanitizeString("  <script>alert(1)</script><b>Hello</b> & \"world\"  ")
	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, ">")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "&amp;")
	assert.False(t, strings.HasPrefix(out, " "))
}

func TestValidateBlogCreateRequiresFields(t *testing.T) {
	result := ValidateBlog(decodeBlog(t, `{"excerpt":"x"}`), false)

	assert.False(t, result.Valid)
	assert.Equal(t, "Title is required", result.Errors["title"])
	assert.Equal(t, "Slug is required", result.Errors["slug"])
	assert.Equal(t, "Content is required", result.Errors["content"])
}

func TestValidateBlogCreateSanitizes(t *testing.T) {
	result := ValidateBlog(decodeBlog(t, `{
		"title": "<i>Top</i> tips",
		"slug": "top-tips",
		"content": "Body<script>x()</script>",
		"category_id": "3",
		"is_featured": "yes",
		"is_published": 0,
		"unknown": "ignored"
	}`), false)

	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, "Top tips", result.Sanitized["title"])
	assert.Equal(t, "top-tips", result.Sanitized["slug"])
	assert.Equal(t, "Body", result.Sanitized["content"])
	assert.Equal(t, uint(3), result.Sanitized["category_id"])
	assert.Equal(t, true, result.Sanitized["is_featured"])
	assert.Equal(t, false, result.Sanitized["is_published"])
	assert.NotContains(t, result.Sanitized, "unknown")
	assert.NotContains(t, result.Sanitized, "excerpt")
}

func TestValidateBlogSlugFormat(t *testing.T) {
	result := ValidateBlog(decodeBlog(t, `{"title":"t","slug":"Top 5 Tips","content":"c"}`), false)

	assert.False(t, result.Valid)
	assert.Equal(t, "Slug must contain only lowercase letters, numbers, and hyphens", result.Errors["slug"])
	assert.NotContains(t, result.Sanitized, "slug")
}

func TestValidateBlogUpdateIsPartial(t *testing.T) {
	result := ValidateBlog(decodeBlog(t, `{"is_published": true}`), true)

	require.True(t, result.Valid)
	assert.Equal(t, map[string]any{"is_published": true}, result.Sanitized)
}

func TestValidateBlogUpdateRejectsEmptyRequiredField(t *testing.T) {
	result := ValidateBlog(decodeBlog(t, `{"title": "   "}`), true)

	assert.False(t, result.Valid)
	assert.Equal(t, "Title is required", result.Errors["title"])
}

func TestValidateBlogStrictIntegers(t *testing.T) {
	for _, raw := range []string{`"abc"`, `1.5`, `"2x"`, `true`, `-4`} {
		result := ValidateBlog(decodeBlog(t, `{"category_id": `+raw+`}`), true)
		assert.False(t, result.Valid, "category_id %s", raw)
		assert.Equal(t, "Category ID must be a valid integer", result.Errors["category_id"])
		assert.NotContains(t, result.Sanitized, "category_id")
	}
}

func TestValidateBlogClearsCategory(t *testing.T) {
	for _, raw := range []string{`null`, `""`, `0`} {
		result := ValidateBlog(decodeBlog(t, `{"category_id": `+raw+`}`), true)
		require.True(t, result.Valid, "category_id %s", raw)
		value, ok := result.Sanitized["category_id"]
		assert.True(t, ok)
		assert.Nil(t, value)
	}
}

func TestValidateBlogBooleans(t *testing.T) {
	truthy := []string{`true`, `1`, `"1"`, `"TRUE"`, `"on"`, `"Yes"`}
	for _, raw := range truthy {
		result := ValidateBlog(decodeBlog(t, `{"is_featured": `+raw+`}`), true)
		require.True(t, result.Valid, raw)
		assert.Equal(t, true, result.Sanitized["is_featured"], raw)
	}
	falsy := []string{`false`, `0`, `"0"`, `"off"`, `"no"`}
	for _, raw := range falsy {
		result := ValidateBlog(decodeBlog(t, `{"is_featured": `+raw+`}`), true)
		require.True(t, result.Valid, raw)
		assert.Equal(t, false, result.Sanitized["is_featured"], raw)
	}

	result := ValidateBlog(decodeBlog(t, `{"is_featured": "maybe"}`), true)
	assert.False(t, result.Valid)
	assert.Equal(t, "Is featured must be a boolean", result.Errors["is_featured"])
}

func TestValidateCategory(t *testing.T) {
	result := ValidateCategory(decodeCategory(t, `{"name":"Buy","slug":"buy","display_order":"2","is_active":false}`), false)
	require.True(t, result.Valid)
	assert.Equal(t, 2, result.Sanitized["display_order"])
	assert.Equal(t, false, result.Sanitized["is_active"])

	result = ValidateCategory(decodeCategory(t, `{"display_order":"first"}`), false)
	assert.False(t, result.Valid)
	assert.Equal(t, "Name is required", result.Errors["name"])
	assert.Equal(t, "Slug is required", result.Errors["slug"])
	assert.Equal(t, "Display order must be a valid integer", result.Errors["display_order"])

	result = ValidateCategory(decodeCategory(t, `{}`), true)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Sanitized)
}

func TestValidateContactMessage(t *testing.T) {
	result := ValidateContactMessage(decodeContact(t, `{"name":"Asha","email":"asha@example.com","message":"<b>Call</b> me"}`))
	require.True(t, result.Valid)
	assert.Equal(t, "Call me", result.Sanitized["message"])
	assert.NotContains(t, result.Sanitized, "mobile")

	result = ValidateContactMessage(decodeContact(t, `{"name":"Asha","email":"not-an-email","message":"hi","mobile":"+91 98"}`))
	assert.False(t, result.Valid)
	assert.Equal(t, "Invalid email format", result.Errors["email"])
	assert.Equal(t, "+91 98", result.Sanitized["mobile"])

	result = ValidateContactMessage(decodeContact(t, `{}`))
	assert.Equal(t, "Name is required", result.Errors["name"])
	assert.Equal(t, "Email is required", result.Errors["email"])
	assert.Equal(t, "Message is required", result.Errors["message"])
}

func TestValidateStatus(t *testing.T) {
	for _, status := range []string{"new", "read", "replied", "archived"} {
		assert.True(t, ValidateStatus(status), status)
	}
	assert.False(t, ValidateStatus("spam"))
	assert.False(t, ValidateStatus(""))
}
