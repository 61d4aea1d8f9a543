package usecase

import "github.com/shopspring/decimal"

// レスポンスの金額は小数2桁の文字列
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
