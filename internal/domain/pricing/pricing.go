// Package pricing はカート金額の計算（小計・割引・出店者ごとの按分）をまとめる。
// DBやHTTPには依存しない。
package pricing

import (
	"errors"
	"sort"

	"foodcourt/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 既定のサービス料（RM2.00）
var DefaultServiceFee = decimal.RequireFromString("2.00")

var hundred = decimal.NewFromInt(100)

// 最低利用金額に届いていない
var ErrMinSpendNotMet = errors.New("minimum spend not met")

// カート1明細分の計算材料
type Line struct {
	VendorID  int64
	UnitPrice decimal.Decimal
	Quantity  int64
}

func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// 割引計算に必要な特典の条件
type Voucher struct {
	Type        model.RewardType
	Value       decimal.Decimal
	MinSpend    decimal.Decimal
	MaxDiscount *decimal.Decimal
}

func VoucherFromReward(r model.Reward) Voucher {
	return Voucher{
		Type:        r.Type,
		Value:       r.Value,
		MinSpend:    r.MinSpend,
		MaxDiscount: r.MaxDiscount,
	}
}

// 出店者1件分の按分結果
type VendorShare struct {
	VendorID   int64
	Subtotal   decimal.Decimal
	ServiceFee decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
}

// カート全体と出店者ごとの金額
type Breakdown struct {
	Subtotal   decimal.Decimal
	ServiceFee decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	Vendors    []VendorShare
}

func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// 割引額を計算する。
// voucher: 最低利用金額未満はErrMinSpendNotMet、割引は小計まで
// percentage: 小計×value%、max_discountがあればそこで頭打ち
func Discount(v Voucher, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, nil
	}

	switch v.Type {
	case model.RewardTypeVoucher:
		if subtotal.LessThan(v.MinSpend) {
			return decimal.Zero, ErrMinSpendNotMet
		}
		return decimal.Min(v.Value, subtotal).Round(2), nil

	case model.RewardTypePercentage:
		d := subtotal.Mul(v.Value).Div(hundred).Round(2)
		if v.MaxDiscount != nil && d.GreaterThan(*v.MaxDiscount) {
			d = *v.MaxDiscount
		}
		return decimal.Min(d, subtotal).Round(2), nil
	}

	return decimal.Zero, nil
}

func Total(subtotal, serviceFee, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(serviceFee).Sub(discount)
}

// 合計の小数点以下切り捨て（四捨五入しない）
func LoyaltyPoints(total decimal.Decimal) int64 {
	if total.IsNegative() {
		return 0
	}
	return total.Floor().IntPart()
}

// 明細を出店者ごとにまとめ、サービス料と割引を小計比で按分する。
// 端数は小計が一番大きい出店者に寄せるので、出店者ごとの合計の和はカート合計と一致する。
// 小計0のときは割引なし、サービス料は均等割り。
func Split(lines []Line, serviceFee, discount decimal.Decimal) Breakdown {
	subtotals := map[int64]decimal.Decimal{}
	for _, l := range lines {
		subtotals[l.VendorID] = subtotals[l.VendorID].Add(l.Amount())
	}

	vendorIDs := make([]int64, 0, len(subtotals))
	for id := range subtotals {
		vendorIDs = append(vendorIDs, id)
	}
	sort.Slice(vendorIDs, func(i, j int) bool { return vendorIDs[i] < vendorIDs[j] })

	subtotal := Subtotal(lines)
	if subtotal.IsZero() {
		discount = decimal.Zero
	}

	out := Breakdown{
		Subtotal:   subtotal,
		ServiceFee: serviceFee,
		Discount:   discount,
		Total:      Total(subtotal, serviceFee, discount),
		Vendors:    make([]VendorShare, 0, len(vendorIDs)),
	}
	if len(vendorIDs) == 0 {
		return out
	}

	// 端数を吸収する出店者
	absorber := 0
	for i, id := range vendorIDs {
		if subtotals[id].GreaterThan(subtotals[vendorIDs[absorber]]) {
			absorber = i
		}
	}

	n := decimal.NewFromInt(int64(len(vendorIDs)))
	feeLeft, discountLeft := serviceFee, discount

	for i, id := range vendorIDs {
		vs := VendorShare{VendorID: id, Subtotal: subtotals[id]}
		if i != absorber {
			if subtotal.IsZero() {
				vs.ServiceFee = serviceFee.Div(n).Round(2)
				vs.Discount = decimal.Zero
			} else {
				proportion := vs.Subtotal.Div(subtotal)
				vs.ServiceFee = serviceFee.Mul(proportion).Round(2)
				vs.Discount = discount.Mul(proportion).Round(2)
			}
			feeLeft = feeLeft.Sub(vs.ServiceFee)
			discountLeft = discountLeft.Sub(vs.Discount)
		}
		out.Vendors = append(out.Vendors, vs)
	}

	out.Vendors[absorber].ServiceFee = feeLeft
	out.Vendors[absorber].Discount = discountLeft

	for i := range out.Vendors {
		v := &out.Vendors[i]
		v.Total = Total(v.Subtotal, v.ServiceFee, v.Discount)
	}
	return out
}
