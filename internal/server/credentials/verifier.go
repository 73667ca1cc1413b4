// Package credentials creates and authenticates user accounts by email and
// password. Passwords are stored as bcrypt hashes.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/travelwishlist/internal/common"
	"github.com/dmitrijs2005/travelwishlist/internal/server/models"
	"github.com/dmitrijs2005/travelwishlist/internal/server/repositories/users"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

var (
	reDigit    = regexp.MustCompile(`[0-9]`)
	reLower    = regexp.MustCompile(`[a-z]`)
	reUpper    = regexp.MustCompile(`[A-Z]`)
	reNonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Verifier implements registration and login against a users.Repository.
type Verifier struct {
	users     users.Repository
	cost      int
	dummyHash []byte
}

// NewVerifier builds a Verifier hashing with the given bcrypt cost.
func NewVerifier(repo users.Repository, cost int) (*Verifier, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &Verifier{users: repo, cost: cost, dummyHash: dummy}, nil
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the registration policy and returns a *common.ValidationError
// listing every offending field.
func Validate(email, password string) error {
	return common.FieldErrors(validation.Errors{
		"email": validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password,
			validation.Required,
			validation.Length(MinPasswordLength, 0),
			validation.By(maxBytes(MaxPasswordBytes)),
			validation.Match(reDigit).Error("must contain a digit"),
			validation.Match(reLower).Error("must contain a lowercase letter"),
			validation.Match(reUpper).Error("must contain an uppercase letter"),
			validation.Match(reNonAlnum).Error("must contain a non-alphanumeric character"),
		),
	})
}

// maxBytes bounds the encoded length, which is what bcrypt limits.
func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		if s, _ := value.(string); len(s) > n {
			return fmt.Errorf("must be no more than %d bytes", n)
		}
		return nil
	}
}

// Register validates input, hashes the password and stores a new user.
// A taken email is reported as a validation error on "email".
func (v *Verifier) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := Validate(email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	if err := v.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewValidationError("email", "is already taken")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user for a correct email and password pair and
// common.ErrorUnauthorized otherwise. Unknown emails still pay for a bcrypt
// comparison.
func (v *Verifier) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := v.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}
