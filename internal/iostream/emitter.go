// Package iostream runs the annotation resolution pipeline for one
// request: cursor consumption, batching, bulk annotation resolution,
// filtering, blob fetches and formatted emission to the response
// stream.
package iostream

import (
	"fmt"
	"io"

	"github.com/mganno/mganno/pkg/annotate"
)

// flusher is satisfied by response writers that can push buffered
// bytes to the client between batches.
type flusher interface {
	Flush()
}

// emitter owns the output stream. It is the pipeline's terminal
// resource: once Streaming, failures can only be reported inline, and
// the absence of the trailer line is the caller's incompleteness
// signal.
type emitter struct {
	w     io.Writer
	plan  *annotate.Plan
	state annotate.StreamState
	rows  int
}

func newEmitter(w io.Writer, plan *annotate.Plan) *emitter {
	return &emitter{w: w, plan: plan, state: annotate.StateValidating}
}

// begin commits the stream: after the header no structured error
// response is possible.
func (e *emitter) begin() error {
	e.state = annotate.StateStreaming
	if h := annotate.Header(e.plan); h != "" {
		if _, err := io.WriteString(e.w, h+"\n"); err != nil {
			e.state = annotate.StateAborted
			return err
		}
	}
	return nil
}

// emit writes one output record and counts it.
func (e *emitter) emit(line string) error {
	if _, err := io.WriteString(e.w, line+"\n"); err != nil {
		// Write failure means the client is gone; no inline marker
		// can reach it.
		e.state = annotate.StateAborted
		return err
	}
	e.rows++
	return nil
}

// abort reports a mid-stream failure inline and moves the emitter to
// its terminal aborted state. The partial output already flushed stays
// visible; no trailer follows.
func (e *emitter) abort(cause error) {
	if e.state == annotate.StateAborted {
		return
	}
	e.state = annotate.StateAborted
	fmt.Fprintf(e.w, "\nERROR: download incomplete: %v\n", cause)
	e.flush()
}

// finish writes the trailer (non-fasta streams only) and completes.
func (e *emitter) finish() error {
	if e.plan.Trailer() {
		line := annotate.Trailer(e.rows)
		if _, err := io.WriteString(e.w, line+"\n"); err != nil {
			e.state = annotate.StateAborted
			return err
		}
	}
	e.state = annotate.StateCompleted
	e.flush()
	return nil
}

// flush pushes buffered output to the client when the sink supports it.
func (e *emitter) flush() {
	if f, ok := e.w.(flusher); ok {
		f.Flush()
	}
}
