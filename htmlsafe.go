package htmlsafe

import "sync"

// fragmentPolicy is the policy behind the package level functions. Policies
// are safe for concurrent use once built, so one shared instance is enough.
var fragmentPolicy = sync.OnceValue(FragmentPolicy)

// Sanitize cleans the given HTML fragment with FragmentPolicy. Disallowed
// elements are stripped while their character data survives as escaped text,
// disallowed attributes and dangerous URL values are dropped, and links come
// back with rel="noopener noreferrer".
//
// Use a Policy of your own when the defaults do not fit:
//
//	p := htmlsafe.NewPolicy()
//	p.AllowElements("b", "i")
//	out := p.Sanitize(in)
func Sanitize(s string) string {
	return fragmentPolicy().Sanitize(s)
}

// SanitizeBytes cleans the given HTML fragment with FragmentPolicy. See
// Sanitize.
func SanitizeBytes(b []byte) []byte {
	return fragmentPolicy().SanitizeBytes(b)
}
