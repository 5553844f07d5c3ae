package validator

import (
	"encoding/json"
	"strings"

	"github.com/realtyblog/internal/db"
)

// ContactRequest 是公开联系表单的请求体。
type ContactRequest struct {
	Name    json.RawMessage `json:"name"`
	Email   json.RawMessage `json:"email"`
	Mobile  json.RawMessage `json:"mobile"`
	Message json.RawMessage `json:"message"`
}

// ValidateContactMessage checks a contact form submission. Name, email and
// message are always required; mobile is optional.
func ValidateContactMessage(req ContactRequest) Result {
	r := newResult()

	r.textField("name", req.Name, true)
	r.emailField("email", req.Email)
	r.textField("mobile", req.Mobile, false)
	r.textField("message", req.Message, true)

	return r.finish()
}

// ValidateStatus reports whether status is an assignable contact status.
func ValidateStatus(status string) bool {
	status = strings.TrimSpace(status)
	for _, allowed := range db.ContactStatuses {
		if status == allowed {
			return true
		}
	}
	return false
}
