//go:build !unix

package host

// pollStdin has no portable non-blocking implementation here; break
// detection degrades to best-effort per the host contract.
func pollStdin() bool { return false }
