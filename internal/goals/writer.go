package goals

import (
	"gorm.io/gorm"
)

// writer owns the database's write path. All mutating store operations are
// submitted as closures and executed one at a time inside a transaction, so
// a validate-then-write sequence for an account cannot interleave with a
// concurrent writer and break the percentage-sum invariant.
type writer struct {
	db       *gorm.DB
	requests chan writeRequest
}

type writeRequest struct {
	fn     func(tx *gorm.DB) error
	result chan error
}

func newWriter(db *gorm.DB) *writer {
	w := &writer{
		db:       db,
		requests: make(chan writeRequest),
	}

	go w.run()
	return w
}

func (w *writer) run() {
	for request := range w.requests {
		request.result <- w.db.Transaction(request.fn)
	}
}

// exec submits a closure to the writer and waits for its result.
func (w *writer) exec(fn func(tx *gorm.DB) error) error {
	result := make(chan error, 1)
	w.requests <- writeRequest{fn: fn, result: result}
	return <-result
}

// close stops the writer goroutine. Pending requests are executed first.
func (w *writer) close() {
	close(w.requests)
}
