package user

type Permission string

const (
	// Attendance
	PermissionAttendanceScan     Permission = "attendance.scan"
	PermissionAttendanceViewOwn  Permission = "attendance.view_own"
	PermissionAttendanceViewAll  Permission = "attendance.view_all"
	PermissionAttendanceBackfill Permission = "attendance.backfill"

	// Leave requests
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveApprove Permission = "leave.approve"

	// Employee management
	PermissionEmployeeManage Permission = "employee.manage"

	// Settings and QR tokens
	PermissionSettingsManage Permission = "settings.manage"
	PermissionQRGenerate     Permission = "qr.generate"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionAttendanceViewAll,
		PermissionAttendanceBackfill,
		PermissionLeaveViewAll,
		PermissionEmployeeManage,
		PermissionSettingsManage,
		PermissionQRGenerate,
	},
	RoleHR: {
		PermissionAttendanceScan,
		PermissionAttendanceViewOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceBackfill,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionEmployeeManage,
		PermissionSettingsManage,
		PermissionQRGenerate,
	},
	RolePegawai: {
		PermissionAttendanceScan,
		PermissionAttendanceViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
