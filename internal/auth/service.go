package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("missing required fields")
)

type Service struct {
	repo   UserRepository
	tokens *Tokens
}

func NewService(repo UserRepository, tokens *Tokens) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// SEED OPERATOR
// The password may be given already hashed (bcrypt "$2a$..." form) so
// plain secrets never need to sit in the environment.
func (s *Service) SeedOperator(name, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	hash := password
	if !isBcryptHash(password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(hashed)
	}

	user := &User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     RoleAdmin,
	}

	if existing, err := s.repo.FindByEmail(email); err == nil {
		user.ID = existing.ID
	}

	if err := s.repo.Save(user); err != nil {
		return nil, err
	}

	return user, nil
}

// LOGIN
func (s *Service) Login(email, password string) (*User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword(
		[]byte(user.Password),
		[]byte(password),
	)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.Generate(user.ID, Claims{
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func isBcryptHash(s string) bool {
	if _, err := bcrypt.Cost([]byte(s)); err != nil {
		return false
	}
	return strings.HasPrefix(s, "$2")
}
