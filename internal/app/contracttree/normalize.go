package contracttree

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidParentID = errors.New("invalid parent contract id")

// NormalizeParentID приводит ссылку на родительский договор к *uint.
// Фронтенд присылает её по-разному: числом, строкой "5", строкой "null", null или не присылает вовсе.
// nil, "null" и пустая строка означают корневой договор.
func NormalizeParentID(v interface{}) (*uint, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case *uint:
		if val == nil {
			return nil, nil
		}
		return fromInt64(int64(*val))
	case uint:
		return fromInt64(int64(val))
	case uint32:
		return fromInt64(int64(val))
	case uint64:
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidParentID, val)
		}
		return fromInt64(int64(val))
	case int:
		return fromInt64(int64(val))
	case int32:
		return fromInt64(int64(val))
	case int64:
		return fromInt64(val)
	case float64:
		// encoding/json декодирует все числа во float64
		if val != math.Trunc(val) || math.Abs(val) >= math.MaxInt64 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParentID, val)
		}
		return fromInt64(int64(val))
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidParentID, val.String())
		}
		return fromInt64(n)
	case string:
		s := strings.TrimSpace(val)
		if s == "" || s == "null" || s == "undefined" {
			return nil, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidParentID, val)
		}
		return fromInt64(n)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidParentID, v)
	}
}

func fromInt64(n int64) (*uint, error) {
	if n <= 0 || uint64(n) > uint64(^uint(0)) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidParentID, n)
	}
	id := uint(n)
	return &id, nil
}
