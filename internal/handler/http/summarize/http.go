package summarize

import (
	"errors"
	"io"
	"net/http"

	"url-summarizer/internal/domain/entity"
)

// ServeHTTP adapts Handle to net/http. Only POST and OPTIONS are accepted;
// other methods get 405 with the usual CORS headers.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var resp Response
	switch r.Method {
	case http.MethodPost, http.MethodOptions:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				resp = h.json(http.StatusRequestEntityTooLarge, entity.ErrorResult{Error: MsgBodyTooLarge})
				break
			}
			resp = h.json(http.StatusBadRequest, entity.ErrorResult{Error: MsgURLMissing})
			break
		}
		resp = h.Handle(r.Context(), Request{Method: r.Method, Body: string(body)})
	default:
		resp = h.json(http.StatusMethodNotAllowed, entity.ErrorResult{Error: MsgMethodNotAllow})
		w.Header().Set("Allow", "POST, OPTIONS")
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = io.WriteString(w, resp.Body)
	}
}
