package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// applyEnvOverrides 按 env 标签用环境变量覆盖字段
func applyEnvOverrides(v interface{}) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("config instance must be a non-nil pointer, got %T", v)
	}
	return applyEnvToStruct(val.Elem())
}

func applyEnvToStruct(val reflect.Value) error {
	if val.Kind() != reflect.Struct {
		return nil
	}

	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		if envKey := fieldType.Tag.Get("env"); envKey != "" {
			if envVal, ok := os.LookupEnv(envKey); ok && envVal != "" {
				if err := setFieldValue(field, envVal); err != nil {
					return fmt.Errorf("env %s: %w", envKey, err)
				}
			}
		}

		if field.Kind() == reflect.Struct {
			if err := applyEnvToStruct(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		fallthrough
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(intVal)
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	}
	return nil
}
