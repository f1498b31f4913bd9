package anywork

import (
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/joshyorko/btmgr/common"
)

var (
	group       WorkGroup
	pipeline    WorkQueue
	failpipe    Failures
	errcount    Counters
	headcount   uint64
	WorkerCount int
)

type Work func()
type WorkQueue chan Work
type Failures chan string
type Counters chan uint64

// WorkGroup counts queued work which has not finished yet.
type WorkGroup interface {
	add()
	done()
	Wait()
}

type waitgroup struct {
	sync.WaitGroup
}

func (it *waitgroup) add() {
	it.Add(1)
}

func (it *waitgroup) done() {
	it.Done()
}

func NewGroup() WorkGroup {
	return &waitgroup{}
}

func catcher(title string, identity uint64) {
	catch := recover()
	if catch != nil {
		failpipe <- fmt.Sprintf("Recovering %q #%d: %v", title, identity, catch)
	}
}

func process(fun Work, identity uint64) {
	defer catcher("process", identity)
	fun()
}

func member(identity uint64) {
	defer catcher("member", identity)
	for {
		work, ok := <-pipeline
		if !ok {
			break
		}
		process(work, identity)
		group.done()
	}
}

func watcher(failures Failures, counters Counters) {
	counter := uint64(0)
	for {
		select {
		case fail := <-failures:
			counter += 1
			common.Log("%s", fail)
		case counters <- counter:
			counter = 0
		}
	}
}

func init() {
	group = NewGroup()
	pipeline = make(WorkQueue, 1000)
	failpipe = make(Failures)
	errcount = make(Counters)
	headcount = 0
	AutoScale()
	go watcher(failpipe, errcount)
}

func Scale() uint64 {
	return headcount
}

// AutoScale starts workers up to WorkerCount, or two per CPU when unset.
// Probes mostly wait on the system, not on the CPU.
func AutoScale() {
	limit := uint64(2 * runtime.NumCPU())
	if WorkerCount > 1 {
		limit = uint64(WorkerCount)
	}
	for headcount < limit {
		go member(headcount)
		headcount += 1
	}
}

func Backlog(todo Work) {
	if todo != nil {
		group.add()
		pipeline <- todo
	}
}

func Sync() error {
	trials := int(Scale())
	for retries := 0; retries < trials; retries++ {
		runtime.Gosched()
	}
	group.Wait()
	count := <-errcount
	if count > 0 {
		return fmt.Errorf("There has been %d failures. See messages above.", count)
	}
	return nil
}

func OnErrPanicCloseAll(err error, closers ...io.Closer) {
	if err != nil {
		for _, closer := range closers {
			if closer != nil {
				closer.Close()
			}
		}
		panic(err)
	}
}
