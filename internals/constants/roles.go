package constants

import "fmt"

// Role yang dibawa claim "role" di access token.
const (
	RoleOwner      = "owner"
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleTeacher    = "teacher"
	RoleStudent    = "student"
)

// Template pesan error role
const ErrOnlySessionManagers = "Hanya owner, admin, atau supervisor academy yang boleh mengakses fitur %s."

func RoleErrorSessionManager(feature string) string {
	return fmt.Sprintf(ErrOnlySessionManagers, feature)
}

// SessionManagerRoles boleh menjalankan batch & transisi manual.
var SessionManagerRoles = []string{
	RoleOwner,
	RoleAdmin,
	RoleSupervisor,
}
