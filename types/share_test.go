package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharePermission_IsValid(t *testing.T) {
	tests := []struct {
		name       string
		permission SharePermission
		expected   bool
	}{
		{"view is valid", SharePermissionView, true},
		{"edit is valid", SharePermissionEdit, true},
		{"admin is not a permission", SharePermission("admin"), false},
		{"empty permission", SharePermission(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.permission.IsValid())
		})
	}
}

func TestAccessLevel_Allows(t *testing.T) {
	tests := []struct {
		name     string
		level    AccessLevel
		required SharePermission
		expected bool
	}{
		{"owner can view", AccessOwner, SharePermissionView, true},
		{"owner can edit", AccessOwner, SharePermissionEdit, true},
		{"shared edit can view", AccessSharedEdit, SharePermissionView, true},
		{"shared edit can edit", AccessSharedEdit, SharePermissionEdit, true},
		{"shared view can view", AccessSharedView, SharePermissionView, true},
		{"shared view cannot edit", AccessSharedView, SharePermissionEdit, false},
		{"none cannot view", AccessNone, SharePermissionView, false},
		{"none cannot edit", AccessNone, SharePermissionEdit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.Allows(tt.required))
		})
	}
}
