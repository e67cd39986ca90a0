package middleware

import (
	"net/http"

	dErrors "medgate/pkg/domain-errors"
	"medgate/pkg/platform/httputil"
	"medgate/pkg/platform/secrets"
)

// OwnerKeyHeader carries the plaintext authority key on owner-only routes.
const OwnerKeyHeader = "X-Owner-Key"

// OwnerKey verifies the authority key against its bcrypt hash. It protects
// routes that change configuration or the admin registry; the caller must
// still authenticate normally so the service layer sees their account.
func OwnerKey(keyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(OwnerKeyHeader)
			if key == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authority key"))
				return
			}
			if err := secrets.Verify(key, keyHash); err != nil {
				httputil.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
