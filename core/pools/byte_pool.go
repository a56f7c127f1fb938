package pools

import "sync"

// BytePool is a multi-tiered byte slice pool for different size classes.
// The connection engine's recv buffer growth (up to Config.RecvBytesMax)
// goes through this rather than raw make([]byte, ...), so a burst of large
// requests doesn't leave the allocator thrashing once they've passed.
type BytePool struct {
	pools []*sync.Pool
	sizes []int
}

// defaultSizes are the size tiers sized around typical HTTP header block
// and small-body sizes, with one tier near request_bytes_max-scale traffic.
var defaultSizes = []int{
	512,
	2048,
	8192,
	32768,
	131072,
}

// NewBytePool creates a byte pool with the standard size tiers.
func NewBytePool() *BytePool {
	return NewBytePoolWithSizes(defaultSizes)
}

// NewBytePoolWithSizes creates a byte pool with custom size tiers.
func NewBytePoolWithSizes(sizes []int) *BytePool {
	bp := &BytePool{
		pools: make([]*sync.Pool, len(sizes)),
		sizes: sizes,
	}
	for i, size := range sizes {
		sz := size
		bp.pools[i] = &sync.Pool{
			New: func() any {
				buf := make([]byte, sz)
				return &buf
			},
		}
	}
	return bp
}

// Get returns a byte slice of exactly the requested length, backed by a
// buffer from the smallest tier that fits.
func (bp *BytePool) Get(size int) []byte {
	for i, poolSize := range bp.sizes {
		if size <= poolSize {
			bufPtr := bp.pools[i].Get().(*[]byte)
			buf := *bufPtr
			return buf[:size]
		}
	}
	return make([]byte, size)
}

// Put returns buf to the pool whose tier matches its capacity. A buffer
// that didn't come from this pool (capacity doesn't match any tier) is
// dropped for the GC to reclaim.
func (bp *BytePool) Put(buf []byte) {
	capacity := cap(buf)
	for i, poolSize := range bp.sizes {
		if capacity == poolSize {
			buf = buf[:capacity]
			bp.pools[i].Put(&buf)
			return
		}
	}
}

// Grow returns a buffer of at least newSize, copying over buf's existing
// contents and returning the old buffer to the pool. Used by the recv path
// when a single read fills the current buffer before a full header block
// has arrived.
func (bp *BytePool) Grow(buf []byte, newSize int) []byte {
	if cap(buf) >= newSize {
		return buf
	}
	next := bp.Get(newSize)
	copy(next, buf)
	bp.Put(buf)
	return next[:len(buf)]
}
