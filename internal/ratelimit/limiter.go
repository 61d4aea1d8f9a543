// Package ratelimit は固定ウィンドウのレート制限。
// カウンタの保存先は CounterStore として外から渡す（本番はRedis、テストはメモリ）。
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// カウンタの保存先
type CounterStore interface {
	// 現在のカウント（キーが無ければ0）
	Get(ctx context.Context, key string) (int64, error)
	// +1して新しい値を返す。キーが新規のときだけTTLをwindowにする
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	// 現在値がlimit未満のときだけ+1する（読みと書きを1操作で行う）。
	// 戻り値は操作後のカウントと、+1したかどうか
	IncrBelow(ctx context.Context, key string, limit int64, window time.Duration) (int64, bool, error)
	// 残りTTL（キーが無ければ0）
	TTL(ctx context.Context, key string) (time.Duration, error)
}

type Action string

const (
	ActionCartAdd      Action = "cart_add"
	ActionCartUpdate   Action = "cart_update"
	ActionCartRemove   Action = "cart_remove"
	ActionCartClear    Action = "cart_clear"
	ActionVoucherApply Action = "voucher_apply"
	ActionMenuBrowse   Action = "menu_browse"
	ActionCheckout     Action = "checkout"
	ActionRewardRedeem Action = "reward_redeem"
	ActionAuthLogin    Action = "auth_login"
	ActionAuthRegister Action = "auth_register"
)

// 操作ごとの上限
type Policy struct {
	Action      Action
	MaxAttempts int64
	Window      time.Duration
}

var policies = map[Action]Policy{
	ActionCartAdd:      {ActionCartAdd, 30, time.Minute},
	ActionCartUpdate:   {ActionCartUpdate, 30, time.Minute},
	ActionCartRemove:   {ActionCartRemove, 30, time.Minute},
	ActionCartClear:    {ActionCartClear, 5, time.Hour},
	ActionVoucherApply: {ActionVoucherApply, 10, time.Hour},
	ActionMenuBrowse:   {ActionMenuBrowse, 120, time.Minute},
	ActionCheckout:     {ActionCheckout, 10, time.Minute},
	ActionRewardRedeem: {ActionRewardRedeem, 10, time.Hour},
	ActionAuthLogin:    {ActionAuthLogin, 10, time.Minute},
	ActionAuthRegister: {ActionAuthRegister, 5, time.Hour},
}

// 未登録のActionはpanic（配線ミス）
func PolicyFor(a Action) Policy {
	p, ok := policies[a]
	if !ok {
		panic(fmt.Sprintf("ratelimit: unknown action %q", a))
	}
	return p
}

type Result struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetIn   time.Duration
}

type Limiter struct {
	store CounterStore
}

func NewLimiter(store CounterStore) *Limiter {
	return &Limiter{store: store}
}

// "rl:cart_add:user:42" のようなキー
func Key(a Action, subject string) string {
	return fmt.Sprintf("rl:%s:%s", a, subject)
}

// まだ受け付けられるかを見るだけ（カウントは増やさない）
func (l *Limiter) Check(ctx context.Context, key string, maxAttempts int64, window time.Duration) (Result, error) {
	count, err := l.store.Get(ctx, key)
	if err != nil {
		return Result{}, err
	}

	res := Result{Limit: maxAttempts, Remaining: maxAttempts - count}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	res.Allowed = count < maxAttempts

	if count > 0 {
		ttl, err := l.store.TTL(ctx, key)
		if err != nil {
			return Result{}, err
		}
		res.ResetIn = ttl
		// TTLが取れないときはウィンドウ全体を待たせる
		if !res.Allowed && res.ResetIn <= 0 {
			res.ResetIn = window
		}
	}
	return res, nil
}

// 1回分を記録する。ウィンドウの最初の1回でTTLが付く
func (l *Limiter) Record(ctx context.Context, key string, window time.Duration) error {
	_, err := l.store.Incr(ctx, key, window)
	return err
}

// 上限未満なら1回分を記録して許可する。
// 判定と加算はストア側で一度に行うので、同時に来ても上限は超えない。拒否された試行はカウントしない
func (l *Limiter) Attempt(ctx context.Context, p Policy, subject string) (Result, error) {
	key := Key(p.Action, subject)

	count, ok, err := l.store.IncrBelow(ctx, key, p.MaxAttempts, p.Window)
	if err != nil {
		return Result{}, err
	}

	res := Result{Allowed: ok, Limit: p.MaxAttempts, Remaining: p.MaxAttempts - count}
	if res.Remaining < 0 {
		res.Remaining = 0
	}

	ttl, err := l.store.TTL(ctx, key)
	if err != nil {
		return Result{}, err
	}
	res.ResetIn = ttl
	if res.ResetIn <= 0 {
		res.ResetIn = p.Window
	}
	return res, nil
}

// Retry-After 用（秒、切り上げ、最低1）
func (r Result) RetryAfterSeconds() int64 {
	secs := int64((r.ResetIn + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
