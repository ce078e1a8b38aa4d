package tracker

import (
	"crypto/subtle"
	"strings"

	"github.com/dmitrijs2005/puntos/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// checkClearPassword compares a supplied password with the configured one.
// A configured value starting with "$2" is treated as a bcrypt hash,
// otherwise the comparison is constant-time over the plain value.
func checkClearPassword(configured, supplied string) error {
	if strings.HasPrefix(configured, "$2") {
		if err := bcrypt.CompareHashAndPassword([]byte(configured), []byte(supplied)); err != nil {
			return common.ErrWrongPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(configured), []byte(supplied)) != 1 {
		return common.ErrWrongPassword
	}
	return nil
}
