package protocol

import (
	"strconv"
	"strings"
)

// === Reply Builders ===

// OK возвращает +OK
func OK() Reply {
	return Reply{Kind: ReplyStatus, Text: "OK"}
}

// Status возвращает +text
func Status(text string) Reply {
	return Reply{Kind: ReplyStatus, Text: text}
}

// Integer возвращает :n
func Integer(n int64) Reply {
	return Reply{Kind: ReplyInteger, Int: n}
}

// Error возвращает -ERR msg
func Error(msg string) Reply {
	return Reply{Kind: ReplyError, Text: msg}
}

// lineBreaks заменяет переводы строк в тексте ответа: ответ всегда одна строка,
// даже если в нём эхом вернулся ключ из бинарной bulk-строки.
var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// Encode собирает строку ответа с \r\n в конце.
func Encode(r Reply) []byte {
	text := lineBreaks.Replace(r.Text)
	switch r.Kind {
	case ReplyInteger:
		s := strconv.FormatInt(r.Int, 10)
		buf := make([]byte, 0, 1+len(s)+2)
		buf = append(buf, respInteger)
		buf = append(buf, s...)
		return append(buf, '\r', '\n')
	case ReplyError:
		buf := make([]byte, 0, 5+len(text)+2)
		buf = append(buf, "-ERR "...)
		buf = append(buf, text...)
		return append(buf, '\r', '\n')
	default:
		buf := make([]byte, 0, 1+len(text)+2)
		buf = append(buf, respSimpleString)
		buf = append(buf, text...)
		return append(buf, '\r', '\n')
	}
}
