package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// TTLCache 는 만료 시간과 최대 크기를 가진 LRU 캐시다.
// 요청 제한 카운터와 대시보드 집계 결과 캐시에 쓰인다.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	now     func() time.Time
	order   *list.List
	items   map[K]*list.Element
}

// NewTTLCache 는 만료 시간과 최대 크기를 갖는 TTLCache 를 생성한다.
func NewTTLCache[K comparable, V any](maxSize int, ttl time.Duration) *TTLCache[K, V] {
	if maxSize <= 0 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return &TTLCache[K, V]{
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
		order:   list.New(),
		items:   make(map[K]*list.Element, maxSize),
	}
}

// WithClock 는 만료 판정에 쓸 시계를 바꾼다. 테스트 용도다.
func (c *TTLCache[K, V]) WithClock(now func() time.Time) *TTLCache[K, V] {
	if now != nil {
		c.mu.Lock()
		c.now = now
		c.mu.Unlock()
	}
	return c
}

func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.lookup(key)
	if !ok {
		return zero, false
	}
	c.order.MoveToFront(element)
	return element.Value.(*entry[K, V]).value, true
}

func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, value)
}

// GetOrCreate 는 살아 있는 값을 반환하고, 없으면 create 결과를 저장해 반환한다.
// 조회와 생성이 한 잠금 안에서 이뤄지고, 접근할 때마다 만료 시각이 연장된다.
func (c *TTLCache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.lookup(key); ok {
		ent := element.Value.(*entry[K, V])
		ent.expiresAt = c.now().Add(c.ttl)
		c.order.MoveToFront(element)
		return ent.value
	}

	value := create()
	c.store(key, value)
	return value
}

func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.items[key]
	if !ok {
		return
	}
	c.removeElement(element)
}

func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// lookup 은 만료된 항목을 제거하고 살아 있는 항목만 돌려준다. 호출자가 잠금을 잡고 있어야 한다.
func (c *TTLCache[K, V]) lookup(key K) (*list.Element, bool) {
	element, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(element.Value.(*entry[K, V]).expiresAt) {
		c.removeElement(element)
		return nil, false
	}
	return element, true
}

func (c *TTLCache[K, V]) store(key K, value V) {
	expiresAt := c.now().Add(c.ttl)
	if element, ok := c.items[key]; ok {
		ent := element.Value.(*entry[K, V])
		ent.value = value
		ent.expiresAt = expiresAt
		c.order.MoveToFront(element)
		return
	}

	element := c.order.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = element
	c.evictIfNeeded()
}

func (c *TTLCache[K, V]) evictIfNeeded() {
	for len(c.items) > c.maxSize {
		element := c.order.Back()
		if element == nil {
			return
		}
		c.removeElement(element)
	}
}

func (c *TTLCache[K, V]) removeElement(element *list.Element) {
	c.order.Remove(element)
	ent := element.Value.(*entry[K, V])
	delete(c.items, ent.key)
}
