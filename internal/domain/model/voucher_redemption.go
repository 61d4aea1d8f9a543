package model

import "time"

// 交換後の有効期間の既定値
const DefaultVoucherValidity = 30 * 24 * time.Hour

// 特典交換で発行されたバウチャー
// 有効期限は保存しない。RedeemedAtから毎回計算する
type VoucherRedemption struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"not null;index" json:"user_id"`
	RewardID   int64      `gorm:"not null;index" json:"reward_id"`
	Code       string     `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	IsUsed     bool       `gorm:"not null;default:false" json:"is_used"`
	RedeemedAt time.Time  `gorm:"not null" json:"redeemed_at"`
	UsedAt     *time.Time `json:"used_at"`
	CheckoutID *string    `gorm:"type:uuid" json:"checkout_id"`

	Reward *Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
}

func (v VoucherRedemption) ExpiresAt(validity time.Duration) time.Time {
	return v.RedeemedAt.Add(validity)
}

// now == 期限ちょうどはまだ有効
func (v VoucherRedemption) IsExpired(now time.Time, validity time.Duration) bool {
	return now.After(v.ExpiresAt(validity))
}
