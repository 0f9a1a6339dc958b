package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MahyaarMaleki/storetrack/internal/domain/model"

	playground "github.com/go-playground/validator/v10"
)

var validate *playground.Validate

func init() {
	validate = playground.New()

	// エラーのフィールド名はJSONの名前で返す
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = validate.RegisterValidation("notblank", validateNotBlank)
	_ = validate.RegisterValidation("product_category", validateCategory)
	_ = validate.RegisterValidation("order_status", validateOrderStatus)
}

// Struct はタグにしたがって検証する。
// 問題がなければnil、あればplayground.ValidationErrors。
func Struct(s any) error {
	return validate.Struct(s)
}

// Messages はエラーをフィールドごとのメッセージにする。
// 違反しているフィールドはすべて返す。
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

// Field はエラーのフィールドパス（items[0].quantity など）
func Field(fe playground.FieldError) string {
	ns := fe.Namespace()
	//先頭の構造体名は落とす
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe playground.FieldError) string {
	field := Field(fe)

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be empty"
	case "email":
		return field + " must be a valid email"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "product_category":
		return field + " must be one of: " + joinCategories()
	case "order_status":
		return field + " must be one of: pending, shipped, cancelled"
	default:
		return field + " is invalid"
	}
}

func joinCategories() string {
	names := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

func validateNotBlank(fl playground.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateCategory(fl playground.FieldLevel) bool {
	return model.Category(fl.Field().String()).Valid()
}

func validateOrderStatus(fl playground.FieldLevel) bool {
	return model.OrderStatus(fl.Field().String()).Valid()
}
