package util

import "github.com/go-playground/validator/v10"

var validate *validator.Validate

var placeCategories = map[string]bool{
	"health":        true,
	"food":          true,
	"fitness":       true,
	"shopping":      true,
	"education":     true,
	"entertainment": true,
}

func init() {
	validate = validator.New()
	validate.RegisterValidation("crowdlevel", validateCrowdLevel)
	validate.RegisterValidation("category", validateCategory)
}

func validateCrowdLevel(fl validator.FieldLevel) bool {
	level := fl.Field().Int()
	return level >= 1 && level <= 3
}

func validateCategory(fl validator.FieldLevel) bool {
	return placeCategories[fl.Field().String()]
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
