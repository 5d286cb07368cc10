package blogservice

import (
	"github.com/sushihentaime/bloglist/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must not be more than 200 characters long")
}

func validateURL(v *common.Validator, url string) {
	v.Check(url != "", "url", "must be provided")
	v.Check(v.CheckStringLength(url, 1, 500), "url", "must not be more than 500 characters long")
}

func validateAuthor(v *common.Validator, author string) {
	v.Check(v.CheckStringLength(author, 0, 100), "author", "must not be more than 100 characters long")
}

func validateLikes(v *common.Validator, likes int) {
	v.Check(likes >= 0, "likes", "must not be negative")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
