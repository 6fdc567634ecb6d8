package domain

const (
	accountIDMinLen = 3
	accountIDMaxLen = 90
)

// ValidAccountID checks the syntax of an account id: lowercase letters and
// digits, bounded length. Whether the account actually exists is the job of
// the external validator, not this package.
func ValidAccountID(id string) bool {
	if len(id) < accountIDMinLen || len(id) > accountIDMaxLen {
		return false
	}
	for _, c := range id {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
