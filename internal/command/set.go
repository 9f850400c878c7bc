package command

import "lrukv/internal/protocol"

// handleSet обрабатывает команду SET key value.
// Значение приводится к типу по маркеру сообщения.
func handleSet(c *Store, req protocol.Request) (protocol.Reply, error) {
	if len(req.Args) != 2 {
		return protocol.Reply{}, wrongArgs("set")
	}

	c.Set(req.Args[0], protocol.Convert(req.Args[1], req.Kind))
	return protocol.OK(), nil
}
