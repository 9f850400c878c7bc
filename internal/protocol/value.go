package protocol

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Convert превращает токен значения в Value по типу сообщения.
//   - array: строки токена
//   - integer: число; нечисловой токен даёт NaN
//   - остальные: первая строка токена
func Convert(token string, kind Kind) Value {
	switch kind {
	case KindArray:
		return Value{Kind: KindArray, Items: strings.Split(token, "\r\n")}
	case KindInteger:
		n, err := cast.ToFloat64E(strings.TrimSpace(firstLine(token)))
		if err != nil {
			n = math.NaN()
		}
		return Value{Kind: KindInteger, Num: n}
	default:
		return Value{Kind: kind, Str: firstLine(token)}
	}
}

// String — текст значения для ответа +<value>.
// Числа в кратчайшей десятичной форме, массивы через запятую.
func (v Value) String() string {
	switch v.Kind {
	case KindArray:
		return strings.Join(v.Items, ",")
	case KindInteger:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return v.Str
	}
}

func firstLine(s string) string {
	if idx := strings.Index(s, "\r\n"); idx >= 0 {
		return s[:idx]
	}
	return s
}
