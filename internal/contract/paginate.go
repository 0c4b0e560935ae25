package contract

// Page-size policy for the two list operations. Limits are clamped, not
// rejected: a zero limit means the default, anything above the cap is
// cut down to the cap.
const (
	DefaultMessagePageSize = 10
	MaxMessagePageSize     = 30

	DefaultTestRunPageSize = 5
	MaxTestRunPageSize     = 20
)

// clampLimit resolves a requested page size against an operation's
// default and hard cap. Shared by both stores' list operations; the
// cursor/bound handling itself lives in the store's range scans.
func clampLimit(requested uint32, def, max int) int {
	if requested == 0 {
		return def
	}
	if int(requested) > max {
		return max
	}
	return int(requested)
}
