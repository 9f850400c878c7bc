package server

import (
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/google/uuid"

	"lrukv/internal/protocol"
)

// handleConnection обслуживает одно клиентское соединение.
// Каждое чтение из сокета считается одним целым сообщением:
// клиент шлёт команду и ждёт ответа до следующей.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	log := s.log.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()
	log.Debug().Msg("client connected")

	buf := make([]byte, s.readBuffer)
	for {
		if s.idleTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		}

		n, err := conn.Read(buf)
		if n > 0 {
			reply, ok := s.dispatcher.Execute(buf[:n])
			if ok {
				if _, werr := conn.Write(protocol.Encode(reply)); werr != nil {
					log.Debug().Err(werr).Msg("write failed")
					return
				}
				if reply.Close {
					log.Debug().Msg("client quit")
					return
				}
			}
		}

		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
				log.Debug().Msg("client disconnected")
			case errors.Is(err, os.ErrDeadlineExceeded):
				log.Debug().Dur("idle", s.idleTimeout).Msg("idle timeout")
			default:
				log.Debug().Err(err).Msg("read failed")
			}
			return
		}
	}
}
