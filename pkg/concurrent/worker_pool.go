package concurrent

import (
	"sync"
)

type JobFunc[J any, R any] func(job J) R

// WorkerPool runs a fixed number of goroutines over a job queue. results arrive in completion order.
type WorkerPool[J any, R any] struct {
	numWorkers int
	jobQueue   chan J
	results    chan R
	wg         sync.WaitGroup
}

func NewWorkerPool[J any, R any](numWorkers, jobQueueSize int) *WorkerPool[J, R] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[J, R]{
		numWorkers: numWorkers,
		jobQueue:   make(chan J, jobQueueSize),
		results:    make(chan R, jobQueueSize),
	}
}

func (wp *WorkerPool[J, R]) worker(jobFunc JobFunc[J, R]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[J, R]) Start(jobFunc JobFunc[J, R]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

// Wait blocks until every worker returned, then closes the results channel. call Close first.
func (wp *WorkerPool[J, R]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[J, R]) AddJob(job J) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[J, R]) CollectResults() <-chan R {
	return wp.results
}

// Close stops accepting jobs.
func (wp *WorkerPool[J, R]) Close() {
	close(wp.jobQueue)
}

// Run feeds every job through jobFunc on numWorkers goroutines and returns the results in job order.
func Run[J any, R any](numWorkers int, jobs []J, jobFunc JobFunc[J, R]) []R {
	type indexed struct {
		i   int
		res R
	}

	wp := NewWorkerPool[int, indexed](numWorkers, len(jobs))
	wp.Start(func(i int) indexed {
		return indexed{i: i, res: jobFunc(jobs[i])}
	})
	for i := range jobs {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	out := make([]R, len(jobs))
	for r := range wp.CollectResults() {
		out[r.i] = r.res
	}
	return out
}
