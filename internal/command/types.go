package command

import (
	"errors"

	"lrukv/internal/protocol"
	storage "lrukv/internal/storage/cache"
)

// Store — общий кеш, с которым работают все соединения.
type Store = storage.Cache[protocol.Value]

// Handler — обработчик одной команды.
// Ошибка превращается в -ERR строку в Dispatch.
type Handler func(c *Store, req protocol.Request) (protocol.Reply, error)

// Handlers — реестр команд. Ключи в нижнем регистре.
var Handlers = map[string]Handler{
	"info":             handleInfo,
	"ping":             handlePing,
	"set":              handleSet,
	"get":              handleGet,
	"del":              handleDel,
	"set_max_lru_size": handleSetMaxLRUSize,
	"flushdb":          handleFlushDB,
	"dbsize":           handleDBSize,
	"quit":             handleQuit,
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownKey     = errors.New("unknown key")
	ErrInvalidMaxSize = errors.New("invalid max size")
	ErrWrongArgs      = errors.New("wrong number of arguments")
)
