package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/tessera/engine/core"
)

/** @brief A unit of work run by the job system. */
type Job struct {
	/** @brief The work itself. Runs on a worker goroutine. */
	Run func() error
	/** @brief Called on the worker after Run succeeds. */
	OnComplete func()
	/** @brief Called on the worker with the error returned by Run. */
	OnFailure func(err error)
}

func (j Job) execute() {
	if err := j.Run(); err != nil {
		core.LogDebug("job failed: %s", err)
		if j.OnFailure != nil {
			j.OnFailure(err)
		}
		return
	}
	if j.OnComplete != nil {
		j.OnComplete()
	}
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan Job
	wg         sync.WaitGroup
	mutex      sync.RWMutex
	closed     bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = fmt.Errorf("job system is shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job, channelSize),
	}

	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				job.execute()
			}
		}()
	}
}

/**
 * @brief Shuts the job system down once every submitted job has run.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if !js.closed {
		js.closed = true
		close(js.jobQueue)
	}
	js.mutex.Unlock()
	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while the queue is full.
 * @param job The job to be executed.
 * @return ErrJobSystemClosed after Shutdown; the job is not run.
 */
func (js *JobSystem) Submit(job Job) error {
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.closed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- job
	return nil
}
