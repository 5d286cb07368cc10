package userservice

import (
	"regexp"

	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	EmailRX    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	UsernameRX = regexp.MustCompile("^[a-zA-Z0-9]+$")
)

func validateUsername(v *common.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(v.CheckStringLength(username, 3, 25), "username", "must be between 3 and 25 characters long")
	v.Check(common.Matches(username, UsernameRX), "username", "must only contain letters and numbers")
}

func validateName(v *common.Validator, name string) {
	v.Check(v.CheckStringLength(name, 0, 100), "name", "must not be more than 100 characters long")
}

// validateEmail only applies when an email was supplied; the field is optional.
func validateEmail(v *common.Validator, email string) {
	if email == "" {
		return
	}
	v.Check(common.Matches(email, EmailRX), "email", "must be a valid email address")
}

// bcrypt rejects inputs longer than 72 bytes, hence the upper bound.
func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(v.CheckStringLength(password, 3, 72), "password", "must be between 3 and 72 characters long")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
