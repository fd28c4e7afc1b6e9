package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestRobotCreateDefaultsStatus(t *testing.T) {
	r := RobotCreate{Name: "Test Robot", Type: "Type ABC"}.Robot("id-1")
	assert.Equal(t, Robot{ID: "id-1", Name: "Test Robot", Type: "Type ABC", Status: "idle"}, r)

	r = RobotCreate{Name: "Test Robot", Type: "Type ABC", Status: "very busy"}.Robot("id-2")
	assert.Equal(t, "very busy", r.Status)
}

func TestRobotPatchApplyOnlySetFields(t *testing.T) {
	r := Robot{ID: "id-1", Name: "Test Robot", Type: "Type ABC", Status: "idle"}

	RobotPatch{Status: strPtr("busy")}.Apply(&r)
	assert.Equal(t, Robot{ID: "id-1", Name: "Test Robot", Type: "Type ABC", Status: "busy"}, r)

	RobotPatch{Name: strPtr("R2"), Type: strPtr("astromech")}.Apply(&r)
	assert.Equal(t, Robot{ID: "id-1", Name: "R2", Type: "astromech", Status: "busy"}, r)
}

func TestRobotPatchEmpty(t *testing.T) {
	assert.True(t, RobotPatch{}.Empty())
	assert.False(t, RobotPatch{Status: strPtr("")}.Empty())
}
