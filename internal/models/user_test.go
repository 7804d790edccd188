package models

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleIsAdminTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role Role
		want bool
	}{
		{RoleUser, false},
		{RoleAdmin, true},
		{RoleRootAdmin, true},
		{Role(""), false},
		{Role("admin"), false}, // casing is significant
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.IsAdminTier(), "role %q", tt.role)
	}
}

func TestUserPublicOmitsSensitiveFields(t *testing.T) {
	t.Parallel()

	u := User{
		ID:       7,
		Username: "casey",
		Email:    "casey@example.com",
		Password: "hashed",
		Role:     RoleAdmin,
	}

	pub := u.Public()
	assert.Equal(t, PublicUser{ID: 7, Username: "casey", Role: RoleAdmin}, pub)
}

func TestUserJSONExposesOnlyPublicFields(t *testing.T) {
	t.Parallel()

	u := User{
		ID:       7,
		Username: "casey",
		Email:    "casey@example.com",
		Password: "hashed",
		Role:     RoleAdmin,
		Status:   UserStatusActive,
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, []string{"id", "role", "username"}, sortedKeys(fields))
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
