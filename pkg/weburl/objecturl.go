package weburl

import "github.com/google/uuid"

// CreateObjectURL returns a fresh "blob:" URL. The argument is not
// retained and nothing is registered.
func CreateObjectURL(any) string {
	return "blob:" + uuid.NewString()
}

// RevokeObjectURL does nothing. It exists for parity with CreateObjectURL.
func RevokeObjectURL(string) {}
