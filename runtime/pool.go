package cbor

import "sync"

// pooledCap is the largest buffer PutEncoder keeps; bigger ones are left to the GC.
const pooledCap = 64 << 10

var encoderPool = sync.Pool{New: func() any { return &Encoder{b: make([]byte, 0, 1024)} }}

// GetEncoder obtains an empty Encoder from a pool. Return it with PutEncoder
// once its Buffer has been copied out.
func GetEncoder() *Encoder {
	e := encoderPool.Get().(*Encoder)
	e.Reset()
	return e
}

// PutEncoder returns e to the pool. e must not be used afterwards.
func PutEncoder(e *Encoder) {
	if cap(e.b) > pooledCap {
		return
	}
	e.Reset()
	encoderPool.Put(e)
}
