package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Messages 以 "欄位.規則" 對應顯示給使用者的訊息
type Messages map[string]string

// First 回傳第一個未通過規則的訊息，找不到對應時回傳 fallback
func (m Messages) First(err error, fallback string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fallback
	}
	fe := verrs[0]
	if msg, ok := m[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := m[fe.Field()]; ok {
		return msg
	}
	return fallback
}
