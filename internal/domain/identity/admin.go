package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

const (
	hashCost = 12

	minUsername = 3
	maxUsername = 100
	minPassword = 8
	// bcrypt ignores input past 72 bytes
	maxPassword = 72
)

var usernameChars = regexp.MustCompile(`^[a-z0-9_.-]+$`)

// Admin is a back-office account. Admins are provisioned by the seed
// command; there is no sign-up.
type Admin struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
}

// NewAdmin creates an admin. The username is stored lower-cased.
func NewAdmin(username, password string) (*Admin, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := checkUsername(username); err != nil {
		return nil, err
	}
	a := &Admin{BaseEntity: shared.NewBaseEntity(), Username: username}
	if err := a.SetPassword(password); err != nil {
		return nil, err
	}
	return a, nil
}

// SetPassword replaces the stored hash
func (a *Admin) SetPassword(password string) error {
	switch n := len(password); {
	case n < minPassword:
		return invalidPassword(fmt.Sprintf("Password must be at least %d characters", minPassword))
	case n > maxPassword:
		return invalidPassword(fmt.Sprintf("Password cannot exceed %d bytes", maxPassword))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a.PasswordHash = string(hash)
	a.Touch()
	return nil
}

func (a *Admin) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

func checkUsername(username string) error {
	switch {
	case len(username) < minUsername || len(username) > maxUsername:
		return invalidUsername(fmt.Sprintf("Username must be %d to %d characters", minUsername, maxUsername))
	case !usernameChars.MatchString(username):
		return invalidUsername("Username may contain only letters, digits, dots, underscores and hyphens")
	}
	return nil
}

func invalidUsername(msg string) error { return shared.NewDomainError("INVALID_USERNAME", msg) }
func invalidPassword(msg string) error { return shared.NewDomainError("INVALID_PASSWORD", msg) }
