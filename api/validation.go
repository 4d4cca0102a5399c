package api

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// dimensionsPattern matches "LxWxH" in whole centimeters, e.g. 30x20x10.
var dimensionsPattern = regexp.MustCompile(`^\d+x\d+x\d+$`)

// RegisterValidators installs the custom binding validators used by
// the request DTOs.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("dimensions", func(fl validator.FieldLevel) bool {
		return dimensionsPattern.MatchString(fl.Field().String())
	})
}
