// Package command сопоставляет команды протокола операциям кеша.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"lrukv/internal/protocol"
)

// Dispatcher выполняет команды над общим кешем.
// Своего состояния между вызовами не хранит.
type Dispatcher struct {
	cache    *Store
	handlers map[string]Handler
	log      zerolog.Logger
}

// Option — функциональная опция диспетчера.
type Option func(*Dispatcher)

// WithLogger задаёт логгер для отладочных записей о командах.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// New создаёт диспетчер с реестром Handlers.
func New(cache *Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cache:    cache,
		handlers: Handlers,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cache возвращает кеш диспетчера.
func (d *Dispatcher) Cache() *Store {
	return d.cache
}

// Dispatch выполняет разобранную команду. Имя сравнивается без учёта регистра.
func (d *Dispatcher) Dispatch(req protocol.Request) protocol.Reply {
	h, ok := d.handlers[strings.ToLower(req.Name)]
	if !ok {
		return ReplyFor(fmt.Errorf("%w '%s'", ErrUnknownCommand, req.Name))
	}

	reply, err := h(d.cache, req)
	if err != nil {
		d.log.Debug().Err(err).Str("cmd", req.Name).Msg("command failed")
		return ReplyFor(err)
	}
	return reply
}

// Execute разбирает сырое сообщение и выполняет его.
// false — сообщение пустое, отвечать не нужно.
// Битое сообщение даёт ошибку unknown command, а не обрыв соединения.
func (d *Dispatcher) Execute(raw []byte) (protocol.Reply, bool) {
	req, err := protocol.Decode(raw)
	if errors.Is(err, protocol.ErrEmpty) {
		return protocol.Reply{}, false
	}
	if err != nil {
		d.log.Debug().Err(err).Int("bytes", len(raw)).Msg("decode failed")
		return ReplyFor(fmt.Errorf("%w '%s'", ErrUnknownCommand, protocol.CommandToken(raw))), true
	}
	return d.Dispatch(req), true
}

// ReplyFor превращает ошибку в строку -ERR.
func ReplyFor(err error) protocol.Reply {
	return protocol.Error(err.Error())
}

func wrongArgs(name string) error {
	return fmt.Errorf("%w for '%s' command", ErrWrongArgs, name)
}
