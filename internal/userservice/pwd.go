package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

func (p *Password) set(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return err
	}

	p.Plain = plain
	p.hash = hash

	return nil
}

// compare reports whether plain matches the stored hash. A mismatch is not an
// error.
func (p *Password) compare(plain string) (bool, error) {
	switch err := bcrypt.CompareHashAndPassword(p.hash, []byte(plain)); {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
