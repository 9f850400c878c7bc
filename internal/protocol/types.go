// Package protocol — кодек RESP-подобного протокола:
// разбор одного сообщения в Request и сборка ответа Reply.
package protocol

import "errors"

// RESP type markers
const (
	respSimpleString = '+'
	respError        = '-'
	respInteger      = ':'
	respBulkString   = '$'
	respArray        = '*'
)

var (
	// ErrEmpty — сообщение без команды (пустая строка, *0).
	ErrEmpty = errors.New("empty request")
	// ErrMalformed — битый заголовок, длина или обрезанный фрейм.
	ErrMalformed = errors.New("malformed request")
)

// Kind — тип по ведущему маркеру сообщения.
// Определяет, во что превращается значение в SET.
type Kind byte

const (
	KindUnknown Kind = iota
	KindArray
	KindBulkString
	KindInteger
	KindSimpleString
	KindError
)

// KindOf возвращает тип по первому байту сообщения.
func KindOf(marker byte) Kind {
	switch marker {
	case respArray:
		return KindArray
	case respBulkString:
		return KindBulkString
	case respInteger:
		return KindInteger
	case respSimpleString:
		return KindSimpleString
	case respError:
		return KindError
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindBulkString:
		return "bulk_string"
	case KindInteger:
		return "integer"
	case KindSimpleString:
		return "simple_string"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Request — разобранная команда.
type Request struct {
	Name string   // имя команды как пришло, без нормализации регистра
	Args []string // аргументы после имени
	Kind Kind     // тип по ведущему маркеру сообщения
}

// ReplyKind — вид однострочного ответа.
type ReplyKind byte

const (
	ReplyStatus  ReplyKind = iota // +text
	ReplyInteger                  // :n
	ReplyError                    // -ERR text
)

// Reply — ответ команды.
// Close просит транспорт закрыть соединение после отправки (QUIT).
type Reply struct {
	Kind  ReplyKind
	Text  string
	Int   int64
	Close bool
}

// Value — значение, сохранённое командой SET.
type Value struct {
	Kind  Kind
	Str   string
	Num   float64
	Items []string
}
