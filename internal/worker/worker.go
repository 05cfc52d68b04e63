package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped 在 Stop 之後仍呼叫 Submit 時回傳
var ErrStopped = errors.New("worker pool stopped")

// Task represents a unit of work executed by the pool.
type Task func()

// Pool 限制同時執行的 CPU 密集工作數量（例如 bcrypt）
type Pool interface {
	Submit(ctx context.Context, t Task) error
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{
		jobs: make(chan Task),
		quit: make(chan struct{}),
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.loop()
	}
	return p
}

type pool struct {
	jobs     chan Task
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func (p *pool) loop() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			if job != nil {
				job()
			}
		case <-p.quit:
			return
		}
	}
}

// Submit 阻塞直到有 worker 接手、ctx 結束或 pool 已停止
func (p *pool) Submit(ctx context.Context, t Task) error {
	select {
	case <-p.quit:
		return ErrStopped
	default:
	}
	select {
	case p.jobs <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return ErrStopped
	}
}

// Stop 等待執行中的工作結束；可重複呼叫
func (p *pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}
