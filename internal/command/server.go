package command

import "lrukv/internal/protocol"

// === Server Commands ===
// Лишние аргументы игнорируются.

func handleInfo(_ *Store, _ protocol.Request) (protocol.Reply, error) {
	return protocol.OK(), nil
}

func handlePing(_ *Store, _ protocol.Request) (protocol.Reply, error) {
	return protocol.Status("PONG"), nil
}

func handleFlushDB(c *Store, _ protocol.Request) (protocol.Reply, error) {
	c.Flush()
	return protocol.OK(), nil
}

// handleQuit отвечает OK и просит транспорт закрыть соединение.
func handleQuit(_ *Store, _ protocol.Request) (protocol.Reply, error) {
	reply := protocol.OK()
	reply.Close = true
	return reply, nil
}
