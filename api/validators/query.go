package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/tradekart/tradekart-backend/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter. An absent or blank
// value yields defaultVal; anything present must parse and land in [min, max].
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(key, "must be an integer")
	}
	if value < min || value > max {
		return 0, queryError(key, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return value, nil
}

func queryError(key, reason string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("query parameter %q %s", key, reason)).
		WithDetails(map[string]any{"field": key})
}
