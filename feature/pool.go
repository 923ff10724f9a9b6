package feature

import "sync"

// Scratch is a reusable float64 work buffer handed out by a [Pool].
type Scratch struct {
	data []float64
}

// Values returns the buffer contents.
func (s *Scratch) Values() []float64 {
	return s.data
}

func (s *Scratch) resize(n int) {
	if n < 0 {
		n = 0
	}
	if cap(s.data) >= n {
		s.data = s.data[:n]
		return
	}
	s.data = make([]float64, n)
}

// Pool provides sync.Pool-based scratch reuse for channel-plane copies.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Scratch{}
			},
		},
	}
}

// Get returns a Scratch with the requested length. Contents are unspecified;
// callers overwrite before reading. Return it via Put when done.
func (p *Pool) Get(length int) *Scratch {
	s := p.pool.Get().(*Scratch)
	s.resize(length)
	return s
}

// Put returns s to the pool. The caller must not use s afterwards.
func (p *Pool) Put(s *Scratch) {
	if s == nil {
		return
	}
	p.pool.Put(s)
}

// SnapshotChannels copies the planes of the given channels of t into one
// scratch buffer, plane i at offset i*rows*cols.
func (p *Pool) SnapshotChannels(t *Tensor, channels []int) *Scratch {
	n := t.rows * t.cols
	s := p.Get(n * len(channels))
	for i, c := range channels {
		copy(s.data[i*n:(i+1)*n], t.Channel(c))
	}
	return s
}
