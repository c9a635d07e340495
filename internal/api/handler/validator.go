package handler

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/RS76448/attendencesystem/pkg/timeslot"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("weekday", validWeekDay)
	})
}

// validWeekDay accepts 0 (Sunday) through 6 (Saturday).
func validWeekDay(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return timeslot.WeekDay(field.Int()).Valid()
	case reflect.String:
		_, err := timeslot.ParseWeekDay(field.String())
		return err == nil
	}
	return false
}
