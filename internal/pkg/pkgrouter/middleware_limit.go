package pkgrouter

import "net/http"

// BodyLimit caps the request body at limit bytes. Reads past the cap fail with
// *http.MaxBytesError, which handlers translate into their own error.
func BodyLimit(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
