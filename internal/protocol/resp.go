package protocol

import (
	"bytes"
	"strconv"
	"strings"
)

// Decode разбирает одно целое сообщение.
// Поддерживает:
//   - Multibulk: *3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$5\r\nvalue\r\n (redis-cli)
//   - Inline: SET key value\r\n (для telnet)
//
// Сообщение, разрезанное на несколько чтений, не собирается.
func Decode(raw []byte) (Request, error) {
	if len(raw) == 0 {
		return Request{}, ErrEmpty
	}

	var (
		args []string
		err  error
	)
	if raw[0] == respArray {
		args, err = decodeMultibulk(raw)
	} else {
		args = decodeInline(raw)
	}
	if err != nil {
		return Request{}, err
	}
	if len(args) == 0 {
		return Request{}, ErrEmpty
	}

	return Request{
		Name: args[0],
		Args: args[1:],
		Kind: KindOf(raw[0]),
	}, nil
}

// CommandToken — лучшая догадка об имени команды в сообщении,
// которое не удалось разобрать. Нужна только для текста ошибки.
func CommandToken(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == respArray {
		// *N, $len, name
		parts := strings.SplitN(string(raw), "\r\n", 4)
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	}
	if fields := decodeInline(raw); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// frame — курсор по байтам сообщения.
type frame struct {
	buf []byte
	pos int
}

// line возвращает строку до \r\n или \n без терминатора.
func (f *frame) line() ([]byte, error) {
	if f.pos >= len(f.buf) {
		return nil, ErrMalformed
	}
	idx := bytes.IndexByte(f.buf[f.pos:], '\n')
	if idx < 0 {
		return nil, ErrMalformed
	}
	line := f.buf[f.pos : f.pos+idx]
	f.pos += idx + 1
	return bytes.TrimSuffix(line, []byte{'\r'}), nil
}

// bulk читает size байт данных и следующий за ними терминатор.
func (f *frame) bulk(size int) ([]byte, error) {
	if size > len(f.buf)-f.pos {
		return nil, ErrMalformed
	}
	end := f.pos + size
	data := f.buf[f.pos:end]

	switch {
	case bytes.HasPrefix(f.buf[end:], []byte("\r\n")):
		f.pos = end + 2
	case bytes.HasPrefix(f.buf[end:], []byte("\n")):
		f.pos = end + 1
	default:
		return nil, ErrMalformed
	}
	return data, nil
}

// decodeMultibulk парсит RESP multibulk: *N\r\n($len\r\ndata\r\n)*N
func decodeMultibulk(raw []byte) ([]string, error) {
	f := &frame{buf: raw}

	header, err := f.line()
	if err != nil {
		return nil, err
	}
	count, err := strconv.Atoi(string(header[1:]))
	if err != nil || count < 0 {
		return nil, ErrMalformed
	}
	// Каждый элемент занимает минимум 4 байта ($0\r\n), больше не влезет
	if count > len(raw) {
		return nil, ErrMalformed
	}
	if count == 0 {
		return nil, nil
	}

	args := make([]string, 0, count)
	for i := 0; i < count; i++ {
		line, err := f.line()
		if err != nil {
			return nil, err
		}
		if len(line) < 2 || line[0] != respBulkString {
			return nil, ErrMalformed
		}
		size, err := strconv.Atoi(string(line[1:]))
		if err != nil || size < 0 {
			return nil, ErrMalformed
		}
		data, err := f.bulk(size)
		if err != nil {
			return nil, err
		}
		args = append(args, string(data))
	}
	return args, nil
}

// decodeInline берёт первую строку сообщения и режет её по пробелам.
func decodeInline(raw []byte) []string {
	line := raw
	if idx := bytes.IndexByte(raw, '\n'); idx >= 0 {
		line = raw[:idx]
	}
	return strings.Fields(string(line))
}
