package storage

// Операции над двусвязным списком давности.
// Все функции ниже вызываются только под c.mu.

// alloc кладёт запись в свободный слот или в конец арены.
func (c *Cache[V]) alloc(key string, value V) int {
	e := entry[V]{key: key, value: value, prev: none, next: none}

	if n := len(c.free); n > 0 {
		i := c.free[n-1]
		c.free = c.free[:n-1]
		c.slots[i] = e
		return i
	}

	c.slots = append(c.slots, e)
	return len(c.slots) - 1
}

// release обнуляет слот, чтобы не держать значение, и отдаёт его в free.
func (c *Cache[V]) release(i int) {
	c.slots[i] = entry[V]{prev: none, next: none}
	c.free = append(c.free, i)
}

// pushFront вставляет отвязанный слот в голову списка.
func (c *Cache[V]) pushFront(i int) {
	e := &c.slots[i]
	e.prev = none
	e.next = c.head

	if c.head != none {
		c.slots[c.head].prev = i
	}
	c.head = i

	if c.tail == none {
		c.tail = i
	}
}

// unlink вынимает слот из списка и сшивает соседей.
func (c *Cache[V]) unlink(i int) {
	e := &c.slots[i]

	if e.prev != none {
		c.slots[e.prev].next = e.next
	} else {
		c.head = e.next
	}

	if e.next != none {
		c.slots[e.next].prev = e.prev
	} else {
		c.tail = e.prev
	}

	e.prev = none
	e.next = none
}

func (c *Cache[V]) moveToFront(i int) {
	if c.head == i {
		return
	}
	c.unlink(i)
	c.pushFront(i)
}

// evictTail вытесняет самую старую запись. На пустом кеше ничего не делает.
func (c *Cache[V]) evictTail() {
	i := c.tail
	if i == none {
		return
	}

	victim := c.slots[i]
	c.unlink(i)
	delete(c.index, victim.key)
	c.release(i)
	c.stats.Evictions++

	if c.onEvict != nil {
		c.onEvict(victim.key, victim.value)
	}
}
