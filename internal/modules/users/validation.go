package users

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// validUsername mirrors the service-level rule so malformed usernames are
// rejected at binding time. "me" is reserved for the profile shortcut route.
func validUsername(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return name != "me" && usernamePattern.MatchString(name)
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", validUsername)
	}
}
