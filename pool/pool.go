// ABOUTME: Simple worker pool for parallelizing batch tasks
// ABOUTME: Provides submit-and-wait pattern used for media probing fan-out

package pool

import (
	"runtime"
	"sync"
)

// WorkerPool runs submitted tasks across a fixed set of goroutines.
// Probing a project's asset folder is I/O bound per file, so the pool is
// sized to the CPU count and callers submit one task per file.
type WorkerPool struct {
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutine lifetime
	taskWg   sync.WaitGroup // tracks submitted task completion
}

// NewWorkerPool creates a worker pool sized to available CPUs.
// bufferSize determines how many tasks can queue before Submit blocks.
func NewWorkerPool(bufferSize int) *WorkerPool {
	if bufferSize < 0 {
		bufferSize = 0
	}

	p := &WorkerPool{
		taskChan: make(chan func(), bufferSize),
	}

	for n := 0; n < runtime.NumCPU(); n++ {
		p.workerWg.Add(1)

		go func() {
			defer p.workerWg.Done()

			for task := range p.taskChan {
				task()
				p.taskWg.Done()
			}
		}()
	}

	return p
}

// Submit adds a task to the pool, blocking if the queue is full
func (p *WorkerPool) Submit(task func()) {
	p.taskWg.Add(1)
	p.taskChan <- task
}

// Wait blocks until every submitted task has completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close shuts down the pool and waits for all workers to exit.
// Submit must not be called after Close.
func (p *WorkerPool) Close() {
	close(p.taskChan)
	p.workerWg.Wait()
}
