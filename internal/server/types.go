package server

import (
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"lrukv/internal/command"
)

const (
	defaultIdleTimeout = 300 * time.Second
	defaultReadBuffer  = 64 * 1024
)

// Server — TCP-сервер LRUKV (RESP-совместимый).
type Server struct {
	addr        string
	dispatcher  *command.Dispatcher
	log         zerolog.Logger
	idleTimeout time.Duration       // 0 = без таймаута
	readBuffer  int                 // одно чтение = одно сообщение
	clients     *semaphore.Weighted // nil = без лимита клиентов

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Option — функциональная опция сервера.
type Option func(*Server)
