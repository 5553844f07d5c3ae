package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/realtyblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound = errors.New("contact message not found")
	ErrInvalidStatus   = errors.New("invalid contact status")
)

const defaultContactPerPage = 20

// ContactService stores and manages contact form submissions.
type ContactService struct {
	db *gorm.DB
}

// ContactFilter describes the admin inbox query.
type ContactFilter struct {
	Page    int
	PerPage int
	Status  string
}

// ContactListResult aggregates a page of contact messages.
type ContactListResult struct {
	Items      []db.ContactMessage
	Pagination Pagination
}

// NewContactService creates a ContactService instance.
func NewContactService(gdb *gorm.DB) *ContactService {
	return &ContactService{db: gdb}
}

// Create stores a validated submission with status "new".
func (s *ContactService) Create(ctx context.Context, fields map[string]any) (*db.ContactMessage, error) {
	message := db.ContactMessage{
		Name:    stringValue(fields, "name"),
		Email:   stringValue(fields, "email"),
		Mobile:  stringValue(fields, "mobile"),
		Message: stringValue(fields, "message"),
		Status:  db.ContactStatusNew,
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// List returns messages newest first.
func (s *ContactService) List(ctx context.Context, filter ContactFilter) (ContactListResult, error) {
	query := s.db.WithContext(ctx).Model(&db.ContactMessage{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		if !IsValidContactStatus(status) {
			return ContactListResult{}, ErrInvalidStatus
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return ContactListResult{}, err
	}

	result := ContactListResult{
		Items:      []db.ContactMessage{},
		Pagination: NewPagination(filter.Page, normalizePerPage(filter.PerPage, defaultContactPerPage), total),
	}
	if err := query.
		Order("created_at desc").
		Order("id desc").
		Limit(result.Pagination.PerPage).
		Offset(result.Pagination.offset()).
		Find(&result.Items).Error; err != nil {
		return ContactListResult{}, err
	}
	return result, nil
}

// Get fetches a message by id.
func (s *ContactService) Get(ctx context.Context, id uint) (*db.ContactMessage, error) {
	var message db.ContactMessage
	if err := s.db.WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &message, nil
}

// UpdateStatus moves a message to one of the admin statuses.
func (s *ContactService) UpdateStatus(ctx context.Context, id uint, status string) (*db.ContactMessage, error) {
	status = strings.TrimSpace(status)
	if !IsValidContactStatus(status) {
		return nil, ErrInvalidStatus
	}

	// RowsAffected is not checked: MySQL reports zero when the status is unchanged.
	if err := s.db.WithContext(ctx).
		Model(&db.ContactMessage{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a message permanently.
func (s *ContactService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&db.ContactMessage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

// IsValidContactStatus reports whether status is one of db.ContactStatuses.
func IsValidContactStatus(status string) bool {
	return slices.Contains(db.ContactStatuses, status)
}
