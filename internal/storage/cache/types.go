package storage

import "sync"

// none — отсутствие ссылки в списке (head, tail, prev, next).
const none = -1

// entry — слот арены: пара ключ/значение и соседи по списку давности.
// prev/next — индексы слотов, а не указатели.
type entry[V any] struct {
	key   string
	value V
	prev  int
	next  int
}

// Stats — счётчики с момента создания кеша. Flush их не сбрасывает.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Sets      uint64
	Removes   uint64
	Evictions uint64
}

// Option — функциональная опция кеша.
type Option[V any] func(*Cache[V])

// Cache — LRU-кеш фиксированной ёмкости.
// Записи лежат в арене slots, index отображает ключ в номер слота,
// head — самый свежий слот, tail — самый старый.
// Все операции идут под одним mutex: Get тоже двигает список.
type Cache[V any] struct {
	mu      sync.Mutex
	maxSize int
	index   map[string]int
	slots   []entry[V]
	free    []int // освобождённые слоты для повторного использования
	head    int
	tail    int
	stats   Stats
	onEvict func(key string, value V)
}

// Tx — доступ к кешу под уже взятой блокировкой, см. Cache.Update.
// Нельзя сохранять Tx после возврата из функции Update.
type Tx[V any] struct {
	c *Cache[V]
}
