package domain

// Role of the caller as supplied by the session layer
type Role string

const (
	RoleTenant     Role = "tenant"
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleTenant, RoleOwner, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Caller identifies who performs an operation
type Caller struct {
	ID   string
	Role Role
}

// IsAdmin returns true for admins and super admins
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin || c.Role == RoleSuperAdmin
}

func (c Caller) isTenantOf(b *Booking) bool {
	return c.ID != "" && c.ID == b.TenantID
}

func (c Caller) isOwnerOf(b *Booking) bool {
	return c.ID != "" && c.ID == b.OwnerID
}

// CanView allows the tenant, the owner or an admin
func CanView(c Caller, b *Booking) bool {
	return c.IsAdmin() || c.isTenantOf(b) || c.isOwnerOf(b)
}

// CanMessage allows anyone who can view the booking
func CanMessage(c Caller, b *Booking) bool {
	return CanView(c, b)
}

// CanDecide guards approve and reject: the owner or an admin
func CanDecide(c Caller, b *Booking) bool {
	return c.IsAdmin() || c.isOwnerOf(b)
}

// CanCancel allows the tenant, the owner or an admin
func CanCancel(c Caller, b *Booking) bool {
	return c.IsAdmin() || c.isTenantOf(b) || c.isOwnerOf(b)
}

// CanComplete allows the owner or an admin
func CanComplete(c Caller, b *Booking) bool {
	return c.IsAdmin() || c.isOwnerOf(b)
}

// CanReschedule allows the tenant or an admin
func CanReschedule(c Caller, b *Booking) bool {
	return c.IsAdmin() || c.isTenantOf(b)
}

// CanUpdatePayment allows the owner or an admin
func CanUpdatePayment(c Caller, b *Booking) bool {
	return c.IsAdmin() || c.isOwnerOf(b)
}

// CanDelete allows the owner or an admin. Deletion is an administrative
// override outside the lifecycle.
func CanDelete(c Caller, b *Booking) bool {
	return c.IsAdmin() || c.isOwnerOf(b)
}

// CanSetStatus picks the capability that guards a move to the given status
func CanSetStatus(c Caller, b *Booking, to BookingStatus) bool {
	switch to {
	case StatusApproved, StatusRejected:
		return CanDecide(c, b)
	case StatusCancelled:
		return CanCancel(c, b)
	case StatusCompleted:
		return CanComplete(c, b)
	default:
		return false
	}
}

// CanListTenantBookings allows the tenant themself or an admin
func CanListTenantBookings(c Caller, tenantID string) bool {
	return c.IsAdmin() || (c.ID != "" && c.ID == tenantID)
}

// CanListOwnerBookings allows the owner themself or an admin
func CanListOwnerBookings(c Caller, ownerID string) bool {
	return c.IsAdmin() || (c.ID != "" && c.ID == ownerID)
}
