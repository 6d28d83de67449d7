package config

import (
	"reflect"
)

// ValidateEmbedded uses reflection to find embedded structs and validate them
func ValidateEmbedded(cfg Validator) error {
	r := reflect.ValueOf(cfg).Elem()
	for i := 0; i < r.NumField(); i++ {
		f := r.Field(i)
		if f.Kind() != reflect.Struct {
			continue
		}
		validator, ok := f.Addr().Interface().(Validator)
		if !ok {
			continue
		}
		err := wrapFieldValidationError(r.Type().Field(i), validator.Validate())
		if err != nil {
			return err
		}
	}
	return nil
}

func wrapFieldValidationError(field reflect.StructField, err error) error {
	if err == nil {
		return nil
	}
	mapStructureStr, hasTag := field.Tag.Lookup("mapstructure")
	mapStructure := &mapStructureStr
	if !hasTag {
		mapStructure = nil
	}
	return WrapFieldValidationError(field.Name, mapStructure, err)
}
