package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/realtyblog/internal/db"
	"github.com/realtyblog/internal/service"
	"github.com/realtyblog/internal/validator"
)

var invalidStatusMessage = "Status must be one of: " + strings.Join(db.ContactStatuses, ", ")

// CreateContactMessage 保存前台联系表单。
func (a *API) CreateContactMessage(c *gin.Context) {
	var req validator.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	result := validator.ValidateContactMessage(req)
	if !result.Valid {
		respondValidation(c, result.Errors)
		return
	}

	message, err := a.contacts.Create(c.Request.Context(), result.Sanitized)
	if err != nil {
		respondServerError(c, err, "Failed to send message")
		return
	}
	a.logger.Info("contact message received", "message_id", message.ID)
	respondSuccess(c, http.StatusCreated, "Message sent successfully", message)
}

// AdminListContactMessages 分页返回收件箱，可按状态过滤。
func (a *API) AdminListContactMessages(c *gin.Context) {
	result, err := a.contacts.List(c.Request.Context(), service.ContactFilter{
		Page:    queryInt(c, "page"),
		PerPage: queryInt(c, "per_page"),
		Status:  c.Query("status"),
	})
	if err != nil {
		contactError(c, err, "Failed to retrieve contact messages")
		return
	}
	respondPaginated(c, "Contact messages retrieved successfully", result.Items, result.Pagination)
}

func (a *API) AdminGetContactMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	message, err := a.contacts.Get(c.Request.Context(), id)
	if err != nil {
		contactError(c, err, "Failed to retrieve contact message")
		return
	}
	respondSuccess(c, http.StatusOK, "Contact message retrieved successfully", message)
}

type contactStatusRequest struct {
	Status string `json:"status"`
}

// AdminUpdateContactStatus moves a message between new, read, replied and archived.
func (a *API) AdminUpdateContactStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req contactStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		respondValidation(c, map[string]string{"status": "Status is required"})
		return
	}
	if !validator.ValidateStatus(status) {
		respondValidation(c, map[string]string{"status": invalidStatusMessage})
		return
	}

	message, err := a.contacts.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		contactError(c, err, "Failed to update contact message")
		return
	}
	a.logger.Info("contact message status changed", "message_id", id, "status", status, "admin", adminName(c))
	respondSuccess(c, http.StatusOK, "Contact message updated successfully", message)
}

func (a *API) AdminDeleteContactMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := a.contacts.Delete(c.Request.Context(), id); err != nil {
		contactError(c, err, "Failed to delete contact message")
		return
	}
	a.logger.Info("contact message deleted", "message_id", id, "admin", adminName(c))
	respondSuccess(c, http.StatusOK, "Contact message deleted successfully", nil)
}

func contactError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrContactNotFound):
		respondError(c, http.StatusNotFound, "Contact message not found")
	case errors.Is(err, service.ErrInvalidStatus):
		respondFieldError(c, "status", invalidStatusMessage)
	default:
		respondServerError(c, err, fallback)
	}
}
