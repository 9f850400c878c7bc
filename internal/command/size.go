package command

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"lrukv/internal/protocol"
	storage "lrukv/internal/storage/cache"
)

// handleSetMaxLRUSize обрабатывает SET_MAX_LRU_SIZE n.
// Ёмкость меняется, только если n >= 1 и n не меньше числа живых ключей.
// Проверка и запись идут под одной блокировкой кеша.
func handleSetMaxLRUSize(c *Store, req protocol.Request) (protocol.Reply, error) {
	if len(req.Args) != 1 {
		return protocol.Reply{}, wrongArgs("set_max_lru_size")
	}

	n, ok := parseSize(req.Args[0])
	if !ok {
		return protocol.Reply{}, ErrInvalidMaxSize
	}

	err := c.Update(func(tx *storage.Tx[protocol.Value]) error {
		if n < 1 || n < tx.Len() {
			return ErrInvalidMaxSize
		}
		tx.SetMaxSize(n)
		return nil
	})
	if err != nil {
		return protocol.Reply{}, err
	}
	return protocol.OK(), nil
}

// handleDBSize обрабатывает DBSIZE.
func handleDBSize(c *Store, _ protocol.Request) (protocol.Reply, error) {
	return protocol.Integer(int64(c.Len())), nil
}

// parseSize принимает только целые числа в диапазоне int.
// Дробные значения отвергаются: ёмкость вида 2.5 недостижима.
func parseSize(token string) (int, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(token)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
