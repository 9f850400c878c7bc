package storage

// New создаёт кеш ёмкостью maxSize записей.
// Проверка maxSize >= 1 — забота вызывающего.
func New[V any](maxSize int, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		maxSize: maxSize,
		index:   make(map[string]int),
		head:    none,
		tail:    none,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithEvictHandler вызывает fn для каждой записи, вытесненной по ёмкости.
// fn выполняется под блокировкой кеша и не должна обращаться к нему.
func WithEvictHandler[V any](fn func(key string, value V)) Option[V] {
	return func(c *Cache[V]) {
		c.onEvict = fn
	}
}

// Get возвращает значение и делает запись самой свежей.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

// Peek возвращает значение без изменения порядка давности.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peek(key)
}

// Set записывает значение. Новый ключ при полном кеше вытесняет tail.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// Remove удаляет ключ. Возвращает false, если ключа не было.
func (c *Cache[V]) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(key)
}

// Flush удаляет все записи.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flush()
}

// SetMaxSize меняет ёмкость без проверок.
// Уменьшение ниже Len() оставляет кеш переполненным до следующих удалений,
// поэтому вызывающий обязан проверить n >= 1 и n >= Len().
func (c *Cache[V]) SetMaxSize(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.maxSize = n
}

// MaxSize возвращает текущую ёмкость.
func (c *Cache[V]) MaxSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxSize
}

// Len возвращает число живых записей.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Keys возвращает ключи от самого свежего к самому старому.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys()
}

// Stats возвращает копию счётчиков.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Update выполняет fn под блокировкой кеша.
// Нужен, когда проверка и изменение должны быть атомарными,
// например сравнение новой ёмкости с Len().
func (c *Cache[V]) Update(fn func(tx *Tx[V]) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(&Tx[V]{c: c})
}

func (c *Cache[V]) get(key string) (V, bool) {
	i, ok := c.index[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.stats.Hits++
	c.moveToFront(i)
	return c.slots[i].value, true
}

func (c *Cache[V]) peek(key string) (V, bool) {
	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.slots[i].value, true
}

func (c *Cache[V]) set(key string, value V) {
	c.stats.Sets++

	if i, ok := c.index[key]; ok {
		c.slots[i].value = value
		c.moveToFront(i)
		return
	}

	if len(c.index) >= c.maxSize {
		c.evictTail()
	}

	i := c.alloc(key, value)
	c.index[key] = i
	c.pushFront(i)
}

func (c *Cache[V]) remove(key string) bool {
	i, ok := c.index[key]
	if !ok {
		return false
	}

	c.unlink(i)
	delete(c.index, key)
	c.release(i)
	c.stats.Removes++
	return true
}

func (c *Cache[V]) flush() {
	c.index = make(map[string]int)
	c.slots = nil
	c.free = nil
	c.head = none
	c.tail = none
}

func (c *Cache[V]) keys() []string {
	out := make([]string, 0, len(c.index))
	for i := c.head; i != none; i = c.slots[i].next {
		out = append(out, c.slots[i].key)
	}
	return out
}
