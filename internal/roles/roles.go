// Package roles defines the closed set of marketplace roles a user may
// declare at sign-up.
package roles

// Role is a marketplace role. Its string value is also the name of the
// identity-pool group that grants it.
type Role string

const (
	Customer Role = "CUSTOMER"
	Vendor   Role = "VENDOR"
	Driver   Role = "DRIVER"
)

// AttributeName is the custom user attribute carrying the declared role.
const AttributeName = "custom:role"

var all = []Role{Customer, Vendor, Driver}

// All returns every known role.
func All() []Role {
	out := make([]Role, len(all))
	copy(out, all)
	return out
}

// Parse reports whether s names a known role. Matching is exact and
// case-sensitive: "driver" is not DRIVER.
func Parse(s string) (Role, bool) {
	for _, r := range all {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Group returns the identity-pool group name for the role.
func (r Role) Group() string {
	return string(r)
}

func (r Role) String() string {
	return string(r)
}
