package models

// DefaultStatus is assigned to robots created without an explicit status.
const DefaultStatus = "idle"

// Robot is the core domain object: a flat, independent record.
// Shared between the server, storage and transport layers.
type Robot struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// RobotCreate carries the validated fields of a create request.
type RobotCreate struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status,omitempty"`
}

// Robot builds the record to store under id, defaulting the status.
func (c RobotCreate) Robot(id string) Robot {
	status := c.Status
	if status == "" {
		status = DefaultStatus
	}
	return Robot{ID: id, Name: c.Name, Type: c.Type, Status: status}
}

// RobotPatch is a partial update. A nil field was not set by the caller and
// must leave the stored value untouched.
type RobotPatch struct {
	Name   *string `json:"name,omitempty"`
	Type   *string `json:"type,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Empty reports whether the patch sets no field at all.
func (p RobotPatch) Empty() bool {
	return p.Name == nil && p.Type == nil && p.Status == nil
}

// Apply overwrites the fields of r that are set in p.
func (p RobotPatch) Apply(r *Robot) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
}

// Map returns the robot as a generic JSON-style object.
func (r Robot) Map() map[string]any {
	return map[string]any{
		"id":     r.ID,
		"name":   r.Name,
		"type":   r.Type,
		"status": r.Status,
	}
}
