package storage

// Методы Tx повторяют методы Cache, но не берут блокировку:
// она уже удерживается Cache.Update.

func (tx *Tx[V]) Get(key string) (V, bool) { return tx.c.get(key) }

func (tx *Tx[V]) Peek(key string) (V, bool) { return tx.c.peek(key) }

func (tx *Tx[V]) Set(key string, value V) { tx.c.set(key, value) }

func (tx *Tx[V]) Remove(key string) bool { return tx.c.remove(key) }

func (tx *Tx[V]) Flush() { tx.c.flush() }

// SetMaxSize — без проверок, как Cache.SetMaxSize.
func (tx *Tx[V]) SetMaxSize(n int) { tx.c.maxSize = n }

func (tx *Tx[V]) MaxSize() int { return tx.c.maxSize }

func (tx *Tx[V]) Len() int { return len(tx.c.index) }
