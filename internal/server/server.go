package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"lrukv/internal/command"
	"lrukv/internal/protocol"
)

var errMaxClients = errors.New("max number of clients reached")

// New создаёт новый TCP-сервер.
func New(addr string, d *command.Dispatcher, opts ...Option) *Server {
	s := &Server{
		addr:        addr,
		dispatcher:  d,
		log:         zerolog.Nop(),
		idleTimeout: defaultIdleTimeout,
		readBuffer:  defaultReadBuffer,
		conns:       make(map[net.Conn]struct{}),
		stopCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithLogger задаёт логгер сервера.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithIdleTimeout закрывает соединения, молчащие дольше d. 0 отключает таймаут.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = d
	}
}

// WithReadBufferSize задаёт размер буфера чтения, он же предел размера сообщения.
func WithReadBufferSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.readBuffer = n
		}
	}
}

// WithMaxClients ограничивает число одновременных соединений. 0 — без лимита.
func WithMaxClients(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.clients = semaphore.NewWeighted(int64(n))
		} else {
			s.clients = nil
		}
	}
}

// Listen открывает TCP-порт и обслуживает клиентов до Shutdown или отмены ctx.
func (s *Server) Listen(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает соединения с уже открытого listener.
// Возвращает nil после Shutdown; к этому моменту все соединения закрыты.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	select {
	case <-s.stopCh:
		s.mu.Unlock()
		ln.Close()
		return nil
	default:
	}
	s.listener = ln
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.Shutdown()
		case <-s.stopCh:
		}
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("LRUKV server listening (RESP protocol)")

	defer s.wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				s.Shutdown()
				return nil
			}
			s.log.Warn().Err(err).Msg("accept error")
			continue
		}

		if s.clients != nil && !s.clients.TryAcquire(1) {
			s.reject(conn)
			continue
		}

		if !s.track(conn) {
			conn.Close()
			s.release()
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.release()
			defer s.untrack(conn)
			s.handleConnection(conn)
		}()
	}
}

// Shutdown останавливает приём и закрывает открытые соединения.
// Повторный вызов безопасен.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		close(s.stopCh)
		if s.listener != nil {
			s.listener.Close()
		}
		for conn := range s.conns {
			conn.Close()
		}
		s.log.Info().Int("clients", len(s.conns)).Msg("server stopped")
	})
}

// Addr возвращает адрес listener или nil, если сервер ещё не запущен.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// reject отвечает ошибкой клиенту сверх лимита и закрывает соединение.
func (s *Server) reject(conn net.Conn) {
	defer conn.Close()
	s.log.Warn().Str("remote", conn.RemoteAddr().String()).Msg("client rejected: max clients reached")
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	conn.Write(protocol.Encode(command.ReplyFor(errMaxClients)))
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.stopCh:
		return false
	default:
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) release() {
	if s.clients != nil {
		s.clients.Release(1)
	}
}
