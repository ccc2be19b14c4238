package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsSlug 校验工作区 slug 格式：小写字母/数字，用连字符分隔
func IsSlug(fl validator.FieldLevel) bool {
	slug := fl.Field().String()
	if len(slug) < 2 || len(slug) > 64 {
		return false
	}
	return slugRe.MatchString(slug)
}
