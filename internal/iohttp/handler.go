package iohttp

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/mganno/mganno/internal/iostream"
	"github.com/mganno/mganno/pkg/annotate"
	"github.com/mganno/mganno/pkg/schema"
)

// Handler serves the annotation endpoints.
type Handler struct {
	Jobs     annotate.JobStore
	Pipeline *iostream.Pipeline
	Log      *slog.Logger
}

// Register mounts the annotation routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /annotation/{target}/{accession}", h.annotation)
	mux.HandleFunc("POST /annotation/{target}/{accession}", h.annotation)
}

// annotation handles both sequence and similarity streams.
//
// Every failure before the first output byte produces a structured
// {"ERROR": ...} response; afterwards failures are reported inline in
// the already-open body.
func (h *Handler) annotation(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	log := h.Log.With("request_id", reqID)

	var kind annotate.SchemaKind
	switch r.PathValue("target") {
	case "sequence":
		kind = annotate.SchemaSequence
	case "similarity":
		kind = annotate.SchemaSimilarity
	default:
		writeError(w, annotate.ErrBadRequest(
			"invalid target %s - valid targets are: sequence, similarity",
			r.PathValue("target")))
		return
	}

	params, err := parseParams(r, kind, r.PathValue("accession"))
	if err != nil {
		writeError(w, err)
		return
	}

	plan, err := annotate.Resolve(params)
	if err != nil {
		writeError(w, err)
		return
	}

	job, err := h.Jobs.ByAccession(r.Context(), plan.Accession)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := authorize(r, job); err != nil {
		writeError(w, err)
		return
	}

	log.Info("annotation request",
		"accession", plan.Accession,
		"target", string(plan.Schema),
		"type", string(plan.Type),
		"source", plan.Source.Name,
		"format", string(plan.Format),
		"md5s", len(plan.Md5s),
	)

	h.streamResponse(w, r, job, plan, log)
}

// streamResponse commits the response and runs the pipeline. The
// pipeline's pre-stream failures (filter set, blob open, cursor open)
// still arrive as RequestErrors before any byte is written.
func (h *Handler) streamResponse(
	w http.ResponseWriter,
	r *http.Request,
	job *schema.Job,
	plan *annotate.Plan,
	log *slog.Logger,
) {
	out := newStreamWriter(w, plan)

	res, err := h.Pipeline.Run(r.Context(), job, plan, out)
	if err != nil {
		if res.State == annotate.StateValidating {
			// Nothing was written; a structured error is possible.
			writeError(w, err)
			return
		}
		// Mid-stream: the inline marker is already in the body.
		out.Close()
		return
	}

	if err := out.Close(); err != nil {
		log.Warn("response close failed", "error", err)
	}
	log.Info("annotation complete",
		"accession", job.Accession, "rows", res.Rows)
}

// authorize enforces the per-job visibility boundary: private jobs are
// readable only with the owner's token in the auth header.
func authorize(r *http.Request, job *schema.Job) error {
	if job.Public {
		return nil
	}
	token := r.Header.Get("auth")
	if token == "" {
		return annotate.ErrUnauthorized(
			"metagenome %s requires authentication", job.Accession)
	}
	if token != job.Owner {
		return annotate.ErrUnauthorized(
			"insufficient permissions for metagenome %s", job.Accession)
	}
	return nil
}

// writeError sends the structured pre-stream error object.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if reqErr, ok := err.(*annotate.RequestError); ok {
		status = reqErr.Status
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"ERROR": err.Error(),
	})
}

// streamWriter is the response sink handed to the pipeline: plain
// chunked text, optionally gzip-compressed. Flush propagates through
// the gzip layer so rows reach the client between batches.
//
// Headers are committed on the first body write, not at construction:
// until then the pipeline can still fail its pre-stream checks, and
// writeError must be free to send the JSON error without a stale
// Content-Encoding header attached.
type streamWriter struct {
	http.ResponseWriter
	compress bool
	started  bool
	gz       *gzip.Writer
}

func newStreamWriter(w http.ResponseWriter, plan *annotate.Plan) *streamWriter {
	return &streamWriter{ResponseWriter: w, compress: plan.Compress}
}

func (sw *streamWriter) Write(p []byte) (int, error) {
	if !sw.started {
		sw.started = true
		sw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if sw.compress {
			sw.Header().Set("Content-Encoding", "gzip")
			sw.gz = gzip.NewWriter(sw.ResponseWriter)
		}
	}
	if sw.gz != nil {
		return sw.gz.Write(p)
	}
	return sw.ResponseWriter.Write(p)
}

func (sw *streamWriter) Flush() {
	if sw.gz != nil {
		_ = sw.gz.Flush()
	}
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sw *streamWriter) Close() error {
	if sw.gz != nil {
		return sw.gz.Close()
	}
	return nil
}
