// Package lrukv предоставляет встраиваемый LRU-кеш с RESP-совместимым TCP-сервером.
//
// Использование без сети (embedded):
//
//	db, err := lrukv.Open(lrukv.Options{MaxSize: 1000})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	db.Set("key", "value")
//	val, ok := db.Get("key")
//
// Использование с TCP-сервером:
//
//	db, _ := lrukv.Open(lrukv.Options{})
//	defer db.Close()
//	db.ListenAndServe(ctx, ":6379")
package lrukv

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lrukv/internal/command"
	"lrukv/internal/protocol"
	"lrukv/internal/server"
	storage "lrukv/internal/storage/cache"
)

// DefaultMaxSize — ёмкость, если Options.MaxSize не задан.
const DefaultMaxSize = 100

var (
	ErrClosed         = errors.New("lrukv: db is closed")
	ErrServerRunning  = errors.New("lrukv: server already running")
	ErrInvalidMaxSize = command.ErrInvalidMaxSize
	ErrEmptyCommand   = errors.New("lrukv: empty command")
)

// Options содержит опциональные настройки.
type Options struct {
	// MaxSize — максимальное кол-во ключей. 0 = DefaultMaxSize.
	MaxSize int

	// Logger для сервера и вытеснений. Пустой логгер пишет в никуда.
	Logger *zerolog.Logger

	// Настройки TCP-сервера, 0 = значение по умолчанию.
	IdleTimeout    time.Duration
	ReadBufferSize int
	MaxClients     int
}

// Stats — счётчики кеша с момента Open.
type Stats = storage.Stats

// DB — встраиваемый кеш. Создаётся через Open().
type DB struct {
	cache      *command.Store
	dispatcher *command.Dispatcher
	log        zerolog.Logger
	opts       Options

	mu     sync.Mutex
	srv    *server.Server
	closed bool
}

// Open создаёт кеш. Отрицательный MaxSize — ошибка.
func Open(opts Options) (*DB, error) {
	if opts.MaxSize < 0 {
		return nil, ErrInvalidMaxSize
	}
	if opts.MaxSize == 0 {
		opts.MaxSize = DefaultMaxSize
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	cache := storage.New(opts.MaxSize, storage.WithEvictHandler(func(key string, _ protocol.Value) {
		log.Debug().Str("key", key).Msg("evicted")
	}))

	return &DB{
		cache:      cache,
		dispatcher: command.New(cache, command.WithLogger(log)),
		log:        log,
		opts:       opts,
	}, nil
}

// ─── Core Operations ────────────────────────────────────────────────

// Set сохраняет строковое значение и делает ключ самым свежим.
func (db *DB) Set(key, value string) {
	db.cache.Set(key, protocol.Value{Kind: protocol.KindUnknown, Str: value})
}

// Get возвращает значение в том виде, в каком его вернул бы GET по сети.
//
//	val, ok := db.Get("user:1")
func (db *DB) Get(key string) (string, bool) {
	v, ok := db.cache.Get(key)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// Del удаляет ключи и возвращает число удалённых.
//
//	n := db.Del("key1", "key2", "key3")
func (db *DB) Del(keys ...string) int {
	n := 0
	for _, key := range keys {
		if db.cache.Remove(key) {
			n++
		}
	}
	return n
}

// Len возвращает количество ключей в кеше.
func (db *DB) Len() int {
	return db.cache.Len()
}

// MaxSize возвращает текущую ёмкость.
func (db *DB) MaxSize() int {
	return db.cache.MaxSize()
}

// SetMaxSize меняет ёмкость. n < 1 или n < Len() — ErrInvalidMaxSize.
func (db *DB) SetMaxSize(n int) error {
	return db.cache.Update(func(tx *storage.Tx[protocol.Value]) error {
		if n < 1 || n < tx.Len() {
			return ErrInvalidMaxSize
		}
		tx.SetMaxSize(n)
		return nil
	})
}

// Keys возвращает ключи от самого свежего к самому старому.
func (db *DB) Keys() []string {
	return db.cache.Keys()
}

// Stats возвращает счётчики кеша.
func (db *DB) Stats() Stats {
	return db.cache.Stats()
}

// FlushAll удаляет все ключи.
func (db *DB) FlushAll() {
	db.cache.Flush()
}

// Exec выполняет команду протокола так же, как для сетевого клиента.
// Ответ -ERR возвращается как error, :n — как десятичная строка.
//
//	db.Exec("set_max_lru_size", "2")
func (db *DB) Exec(args ...string) (string, error) {
	if len(args) == 0 {
		return "", ErrEmptyCommand
	}

	reply := db.dispatcher.Dispatch(protocol.Request{Name: args[0], Args: args[1:]})
	switch reply.Kind {
	case protocol.ReplyError:
		return "", errors.New(reply.Text)
	case protocol.ReplyInteger:
		return strconv.FormatInt(reply.Int, 10), nil
	default:
		return reply.Text, nil
	}
}

// ─── TCP Server ─────────────────────────────────────────────────────

// ListenAndServe запускает TCP-сервер (RESP протокол).
// Блокирующий вызов — слушает до отмены ctx или Close.
//
//	go db.ListenAndServe(ctx, ":6379")
func (db *DB) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return db.Serve(ctx, ln)
}

// Serve обслуживает клиентов на уже открытом listener.
func (db *DB) Serve(ctx context.Context, ln net.Listener) error {
	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		ln.Close()
		return ErrClosed
	}
	if db.srv != nil {
		db.mu.Unlock()
		ln.Close()
		return ErrServerRunning
	}
	srv := server.New(ln.Addr().String(), db.dispatcher, db.serverOptions()...)
	db.srv = srv
	db.mu.Unlock()

	err := srv.Serve(ctx, ln)

	db.mu.Lock()
	if db.srv == srv {
		db.srv = nil
	}
	db.mu.Unlock()
	return err
}

// Addr возвращает адрес запущенного сервера или nil.
func (db *DB) Addr() net.Addr {
	db.mu.Lock()
	srv := db.srv
	db.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Addr()
}

// serverOptions переводит Options в опции сервера.
// Нулевые значения не передаются: у сервера свои значения по умолчанию.
func (db *DB) serverOptions() []server.Option {
	opts := []server.Option{
		server.WithLogger(db.log.With().Str("component", "server").Logger()),
		server.WithReadBufferSize(db.opts.ReadBufferSize),
		server.WithMaxClients(db.opts.MaxClients),
	}
	if db.opts.IdleTimeout > 0 {
		opts = append(opts, server.WithIdleTimeout(db.opts.IdleTimeout))
	}
	return opts
}

// ─── Lifecycle ──────────────────────────────────────────────────────

// Close останавливает сервер, если он запущен. Данные в памяти остаются
// доступны через методы DB, новый сервер запустить уже нельзя.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true
	if db.srv != nil {
		db.srv.Shutdown()
	}
	return nil
}
