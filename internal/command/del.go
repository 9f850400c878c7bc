package command

import (
	"lrukv/internal/protocol"
	storage "lrukv/internal/storage/cache"
)

// handleDel обрабатывает команду DEL key [key ...].
// Отсутствующий ключ не ошибка, он просто не попадает в счётчик.
func handleDel(c *Store, req protocol.Request) (protocol.Reply, error) {
	if len(req.Args) < 1 {
		return protocol.Reply{}, wrongArgs("del")
	}

	var deleted int64
	err := c.Update(func(tx *storage.Tx[protocol.Value]) error {
		for _, key := range req.Args {
			if tx.Remove(key) {
				deleted++
			}
		}
		return nil
	})
	if err != nil {
		return protocol.Reply{}, err
	}
	return protocol.Integer(deleted), nil
}
