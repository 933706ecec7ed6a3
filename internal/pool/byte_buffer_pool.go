package pool

import (
	"sync"
)

// KeyBlockBufferDefaultSize is the default size of the ByteBuffer obtained from the pool.
const (
	KeyBlockBufferDefaultSize     = 1024 * 16       // 16KiB
	KeyBlockBufferMaxThreshold    = 1024 * 128      // 128KiB
	RecordBlockBufferDefaultSize  = 1024 * 1024     // 1MiB
	RecordBlockBufferMaxThreshold = 1024 * 1024 * 8 // 8MiB
)

type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes() returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without reallocating.
// If the buffer has sufficient capacity, Grow does nothing.
//
// The growth strategy is as follows:
//   - For small buffers (capacity up to 4*KeyBlockBufferDefaultSize, 64KiB), grow by KeyBlockBufferDefaultSize to minimize reallocations.
//   - For larger buffers, grow by 25% of current capacity to balance memory usage and reallocation cost.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return // Sufficient capacity
	}

	// Calculate growth size based on current buffer size
	growBy := KeyBlockBufferDefaultSize
	if cap(bb.B) > 4*KeyBlockBufferDefaultSize {
		// For larger buffers, grow by 25% to balance memory and reallocation cost
		growBy = cap(bb.B) / 4
	}

	// Ensure we grow enough for at least the required bytes
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	// Allocate new buffer with increased capacity
	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers.
// The pool can be configured with a maximum size threshold to avoid retaining
// overly large buffers that could lead to memory bloat.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int // Optional maximum size threshold for buffers
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	keyBlockDefaultPool    = NewByteBufferPool(KeyBlockBufferDefaultSize, KeyBlockBufferMaxThreshold)
	recordBlockDefaultPool = NewByteBufferPool(RecordBlockBufferDefaultSize, RecordBlockBufferMaxThreshold)
)

// GetKeyBlockBuffer retrieves a ByteBuffer from the default key-block pool.
func GetKeyBlockBuffer() *ByteBuffer {
	return keyBlockDefaultPool.Get()
}

// PutKeyBlockBuffer returns a ByteBuffer to the default key-block pool.
func PutKeyBlockBuffer(bb *ByteBuffer) {
	keyBlockDefaultPool.Put(bb)
}

// GetRecordBlockBuffer retrieves a ByteBuffer from the default record-block pool.
func GetRecordBlockBuffer() *ByteBuffer {
	return recordBlockDefaultPool.Get()
}

// PutRecordBlockBuffer returns a ByteBuffer to the default record-block pool.
func PutRecordBlockBuffer(bb *ByteBuffer) {
	recordBlockDefaultPool.Put(bb)
}
