// Package validator は入力の形式チェック。
// DBを見るチェック（email重複など）はusecase側で行う。
package validator

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// フィールド名 → メッセージ
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

const (
	MaxNameLen           = 255
	MinPasswordLen       = 8
	MaxSpecialRequestLen = 255
	MaxNotesLen          = 500
	MaxVoucherCodeLen    = 32
	MaxQuantity          = 10
)

var voucherCodeRe = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// メール形式
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	// "Name <a@b>" 形式は受け付けない
	return err == nil && addr.Address == s && strings.Contains(s, ".")
}

// よくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":    {},
		"password123": {},
		"12345678":    {},
		"123456789":   {},
		"1234567890":  {},
		"qwertyuiop":  {},
		"letmein123":  {},
		"admin123":    {},
	}

	_, ok := weak[normalized]
	return ok
}

func ValidateRegister(name, email, password string) Errors {
	errs := Errors{}

	name = strings.TrimSpace(name)
	if name == "" {
		errs.Add("name", "The name field is required.")
	} else if utf8.RuneCountInString(name) > MaxNameLen {
		errs.Add("name", "The name may not be greater than 255 characters.")
	}

	if strings.TrimSpace(email) == "" {
		errs.Add("email", "The email field is required.")
	} else if !IsEmail(email) {
		errs.Add("email", "The email must be a valid email address.")
	}

	switch {
	case password == "":
		errs.Add("password", "The password field is required.")
	case len(password) < MinPasswordLen:
		errs.Add("password", "The password must be at least 8 characters.")
	case isWeakPassword(password):
		errs.Add("password", "The password is too common.")
	}
	return errs
}

func ValidateLogin(email, password string) Errors {
	errs := Errors{}
	if strings.TrimSpace(email) == "" {
		errs.Add("email", "The email field is required.")
	} else if !IsEmail(email) {
		errs.Add("email", "The email must be a valid email address.")
	}
	if password == "" {
		errs.Add("password", "The password field is required.")
	}
	return errs
}

func ValidateAddCart(menuItemID int64, quantity int64, specialRequest string) Errors {
	errs := Errors{}
	if menuItemID <= 0 {
		errs.Add("menu_item_id", "The menu item id field is required.")
	}
	validateQuantity(errs, quantity)
	validateSpecialRequest(errs, specialRequest)
	return errs
}

func ValidateUpdateCart(quantity int64, specialRequest string) Errors {
	errs := Errors{}
	validateQuantity(errs, quantity)
	validateSpecialRequest(errs, specialRequest)
	return errs
}

func validateQuantity(errs Errors, q int64) {
	if q < 1 || q > MaxQuantity {
		errs.Add("quantity", "The quantity must be between 1 and 10.")
	}
}

func validateSpecialRequest(errs Errors, s string) {
	if utf8.RuneCountInString(s) > MaxSpecialRequestLen {
		errs.Add("special_request", "The special request may not be greater than 255 characters.")
	}
}

func ValidateVoucherCode(code string) Errors {
	errs := Errors{}
	code = strings.TrimSpace(code)
	switch {
	case code == "":
		errs.Add("code", "The code field is required.")
	case len(code) > MaxVoucherCodeLen || !voucherCodeRe.MatchString(code):
		errs.Add("code", "The code format is invalid.")
	}
	return errs
}

// payment_method の許可値はmodel.ParsePaymentMethodの結果を受け取る
func ValidateCheckout(paymentMethod, voucherCode, notes string, validMethod bool) Errors {
	errs := Errors{}
	if strings.TrimSpace(paymentMethod) == "" {
		errs.Add("payment_method", "The payment method field is required.")
	} else if !validMethod {
		errs.Add("payment_method", "The selected payment method is invalid.")
	}
	if voucherCode != "" {
		for _, m := range ValidateVoucherCode(voucherCode)["code"] {
			errs.Add("voucher_code", strings.Replace(m, "code", "voucher code", 1))
		}
	}
	if utf8.RuneCountInString(notes) > MaxNotesLen {
		errs.Add("notes", "The notes may not be greater than 500 characters.")
	}
	return errs
}
