package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const pingRequest = "*1\r\n$4\r\nPING\r\n"

func newPingCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Send PING to a running server and print the reply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPing(cmd.Context(), addr, timeout, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:6379", "server address")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "dial and read timeout")
	return cmd
}

// runPing печатает ответ сервера без \r\n. Ответ -ERR — ошибка.
func runPing(ctx context.Context, addr string, timeout time.Duration, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	if timeout > 0 {
		conn.SetDeadline(time.Now().Add(timeout))
	}
	if _, err := io.WriteString(conn, pingRequest); err != nil {
		return fmt.Errorf("failed to send PING: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read reply: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")

	if strings.HasPrefix(line, "-") {
		return errors.New(strings.TrimPrefix(line, "-"))
	}
	fmt.Fprintln(w, line)
	return nil
}
