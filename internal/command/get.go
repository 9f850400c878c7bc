package command

import (
	"fmt"

	"lrukv/internal/protocol"
)

// handleGet обрабатывает команду GET key.
func handleGet(c *Store, req protocol.Request) (protocol.Reply, error) {
	if len(req.Args) != 1 {
		return protocol.Reply{}, wrongArgs("get")
	}

	key := req.Args[0]
	value, found := c.Get(key)
	if !found {
		return protocol.Reply{}, fmt.Errorf("%w '%s'", ErrUnknownKey, key)
	}
	return protocol.Status(value.String()), nil
}
