package utils

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"
)

// Pool is a typed sync.Pool. The recycle hook resets an item and reports
// whether it is worth keeping.
type Pool[T any] struct {
	pool    sync.Pool
	recycle func(T) bool
}

func NewPool[T any](newFn func() T, recycle func(T) bool) *Pool[T] {
	return &Pool[T]{
		pool:    sync.Pool{New: func() any { return newFn() }},
		recycle: recycle,
	}
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put hands an item back unless it grew past MaxBufferSize.
func (p *Pool[T]) Put(v T) {
	if p.recycle(v) {
		p.pool.Put(v)
	}
}

// NewBufferPool pools bytes.Buffer values.
func NewBufferPool() *Pool[*bytes.Buffer] {
	return NewPool(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) bool {
			if b.Cap() > MaxBufferSize {
				return false
			}
			b.Reset()
			return true
		},
	)
}

// NewStringBuilderPool pools strings.Builder values.
func NewStringBuilderPool() *Pool[*strings.Builder] {
	return NewPool(
		func() *strings.Builder {
			sb := new(strings.Builder)
			sb.Grow(256)
			return sb
		},
		func(sb *strings.Builder) bool {
			if sb.Cap() > MaxBufferSize {
				return false
			}
			sb.Reset()
			return true
		},
	)
}

// BufioWriterPool hands out bufio.Writers bound to a target writer.
type BufioWriterPool struct {
	pool sync.Pool
}

func NewBufioWriterPool() *BufioWriterPool {
	return &BufioWriterPool{}
}

// Get retrieves a writer from the pool, reset onto w
func (p *BufioWriterPool) Get(w io.Writer) *bufio.Writer {
	if bw, ok := p.pool.Get().(*bufio.Writer); ok {
		bw.Reset(w)
		return bw
	}
	return bufio.NewWriterSize(w, MaxBufferSize)
}

// Put detaches the writer from its target before pooling it.
func (p *BufioWriterPool) Put(bw *bufio.Writer) {
	bw.Reset(io.Discard)
	p.pool.Put(bw)
}

var (
	SharedBufferPool        = NewBufferPool()
	SharedStringBuilderPool = NewStringBuilderPool()
	SharedBufioWriterPool   = NewBufioWriterPool()
)
