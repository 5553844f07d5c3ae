package validator

import "encoding/json"

// CategoryRequest 是分类创建/更新请求体。
type CategoryRequest struct {
	Name         json.RawMessage `json:"name"`
	Slug         json.RawMessage `json:"slug"`
	Icon         json.RawMessage `json:"icon"`
	Description  json.RawMessage `json:"description"`
	DisplayOrder json.RawMessage `json:"display_order"`
	IsActive     json.RawMessage `json:"is_active"`
}

// ValidateCategory checks a category payload. On create, name and slug are required.
func ValidateCategory(req CategoryRequest, isUpdate bool) Result {
	r := newResult()
	required := !isUpdate

	r.textField("name", req.Name, required || present(req.Name))
	r.slugField(req.Slug, required || present(req.Slug))
	r.textField("icon", req.Icon, false)
	r.textField("description", req.Description, false)
	r.intField("display_order", req.DisplayOrder)
	r.boolField("is_active", req.IsActive)

	return r.finish()
}
