package user

import (
	"testing"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	return verrs.ToMap()
}

func TestCreateUserRequest_Validate(t *testing.T) {
	t.Run("valid pegawai", func(t *testing.T) {
		req := CreateUserRequest{
			Name:                 " Budi ",
			Email:                "Budi@Mail.com",
			Password:             "password123",
			PasswordConfirmation: "password123",
			Role:                 "pegawai",
			Divisi:               strPtr("IT"),
			Posisi:               strPtr("Backend"),
		}
		require.NoError(t, req.Validate())
		assert.Equal(t, "budi@mail.com", req.Email)
		assert.Equal(t, "Budi", req.Name)
	})

	t.Run("admin does not need divisi and posisi", func(t *testing.T) {
		req := CreateUserRequest{
			Name:                 "Admin",
			Email:                "admin@mail.com",
			Password:             "password123",
			PasswordConfirmation: "password123",
			Role:                 "admin",
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("collects every field error", func(t *testing.T) {
		req := CreateUserRequest{
			Email:                "not-an-email",
			Password:             "password123",
			PasswordConfirmation: "password124",
			Role:                 "manager",
		}
		fields := validationFields(t, req.Validate())
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "password_confirmation")
		assert.Contains(t, fields, "role")
		assert.Contains(t, fields, "divisi")
		assert.Contains(t, fields, "posisi")
	})

	t.Run("short password", func(t *testing.T) {
		req := CreateUserRequest{
			Name:                 "Budi",
			Email:                "budi@mail.com",
			Password:             "short",
			PasswordConfirmation: "short",
			Role:                 "admin",
		}
		fields := validationFields(t, req.Validate())
		assert.Equal(t, "password must be at least 8 characters", fields["password"])
	})
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateUserRequest{}).Validate())

	req := UpdateUserRequest{Email: strPtr(" HR@Mail.com ")}
	require.NoError(t, req.Validate())
	assert.Equal(t, "hr@mail.com", *req.Email)

	req = UpdateUserRequest{Password: strPtr("password123")}
	fields := validationFields(t, req.Validate())
	assert.Contains(t, fields, "password_confirmation")

	req = UpdateUserRequest{Role: strPtr("owner"), Name: strPtr("  ")}
	fields = validationFields(t, req.Validate())
	assert.Contains(t, fields, "role")
	assert.Contains(t, fields, "name")
}

func TestSearchRequest_Validate(t *testing.T) {
	assert.Error(t, (&SearchRequest{Query: " a "}).Validate())
	assert.NoError(t, (&SearchRequest{Query: "bu"}).Validate())
}

func TestFilterByRoleRequest_Validate(t *testing.T) {
	assert.NoError(t, (&FilterByRoleRequest{Role: "hr"}).Validate())
	assert.Error(t, (&FilterByRoleRequest{Role: ""}).Validate())
	assert.Error(t, (&FilterByRoleRequest{Role: "manager"}).Validate())
}

func TestCanManageRole(t *testing.T) {
	cases := []struct {
		actor, target Role
		want          bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleHR, true},
		{RoleAdmin, RolePegawai, true},
		{RoleAdmin, Role("owner"), false},
		{RoleHR, RolePegawai, true},
		{RoleHR, RoleHR, false},
		{RoleHR, RoleAdmin, false},
		{RolePegawai, RolePegawai, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanManageRole(tc.actor, tc.target), "%s -> %s", tc.actor, tc.target)
	}
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleHR, PermissionLeaveApprove))
	assert.False(t, HasPermission(RoleAdmin, PermissionLeaveApprove))
	assert.False(t, HasPermission(RolePegawai, PermissionAttendanceViewAll))
	assert.True(t, HasPermission(RolePegawai, PermissionAttendanceScan))
	assert.False(t, HasPermission(Role("ghost"), PermissionAttendanceScan))
}
