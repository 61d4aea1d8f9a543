package repository

import "errors"

// 見つからない（他人のデータも同じ扱い）
var ErrNotFound = errors.New("not found")

// 一意制約違反など
var ErrConflict = errors.New("conflict")
