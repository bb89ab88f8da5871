package validation

import "regexp"

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_-]{1,64}$`)

// IsValidUsername reports whether name is safe to use as a storage key
// and directory name.
func IsValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}

var documentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// IsValidDocumentID reports whether id can name a stored history entry or
// preset.
func IsValidDocumentID(id string) bool {
	return documentIDPattern.MatchString(id)
}
