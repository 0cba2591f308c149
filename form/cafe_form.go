// Package form binds and validates the add-cafe submission.
package form

import (
	"crypto/subtle"
	"reflect"
	"strings"

	"cafelist/model"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// falseTokens are the only amenity values that read as "no".
var falseTokens = map[string]bool{
	"None": true,
	"none": true,
	"no":   true,
}

const (
	msgRequired   = "This field is required."
	msgInvalidKey = "Invalid secret key."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	// report errors under the form field name, not the Go field name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CafeForm is the add-cafe form as submitted. Amenity fields stay strings
// so an omitted value can be told apart from an explicit "no".
type CafeForm struct {
	Name        string `form:"name" validate:"required,notblank"`
	MapURL      string `form:"map_url" validate:"required,notblank"`
	ImgURL      string `form:"img_url" validate:"required,notblank"`
	Location    string `form:"location" validate:"required,notblank"`
	Seats       string `form:"seats" validate:"required,notblank"`
	Toilet      string `form:"toilet"`
	Wifi        string `form:"wifi"`
	Sockets     string `form:"sockets"`
	Calls       string `form:"calls"`
	CoffeePrice string `form:"coffee_price" validate:"required,notblank"`
	Key         string `form:"key" validate:"required,notblank"`
}

// Errors maps a form field name to its message.
type Errors map[string]string

// Validate checks required fields and, when submitKey is set, the
// submitted key. An empty result means the form is valid.
func (f *CafeForm) Validate(submitKey string) Errors {
	errs := Errors{}
	if err := validate.Struct(f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				errs[fe.Field()] = msgRequired
			}
		} else {
			errs["form"] = err.Error()
		}
	}

	if submitKey != "" && errs["key"] == "" {
		if subtle.ConstantTimeCompare([]byte(f.Key), []byte(submitKey)) != 1 {
			errs["key"] = msgInvalidKey
		}
	}
	return errs
}

// ToCafe maps the submission onto a new record. The key is not stored.
func (f *CafeForm) ToCafe() model.Cafe {
	return model.Cafe{
		Name:         f.Name,
		MapURL:       f.MapURL,
		ImgURL:       f.ImgURL,
		Location:     f.Location,
		Seats:        f.Seats,
		HasToilet:    Amenity(f.Toilet),
		HasWifi:      Amenity(f.Wifi),
		HasSockets:   Amenity(f.Sockets),
		CanTakeCalls: Amenity(f.Calls),
		CoffeePrice:  f.CoffeePrice,
	}
}

// Amenity reads an amenity field: true unless v is "None", "none" or "no".
func Amenity(v string) bool {
	return !falseTokens[v]
}
