package sim

import "sync"

// FieldPool recycles scratch fields of a fixed size. Safe for concurrent
// use, so an ensemble can share one.
type FieldPool struct {
	pool sync.Pool
	size int
}

func NewFieldPool(size int) *FieldPool {
	return &FieldPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				f := make([]float64, size)
				return &f
			},
		},
	}
}

func (p *FieldPool) Get() []float64 {
	return *p.pool.Get().(*[]float64)
}

func (p *FieldPool) Put(f []float64) {
	if len(f) == p.size {
		clear(f)
		p.pool.Put(&f)
	}
}

func (p *FieldPool) GetAndCopy(src []float64) []float64 {
	dst := p.Get()
	copy(dst, src)
	return dst
}
