package drivetelemetry

import (
	"strconv"
	"strings"
)

type QueryError struct{ Msg string }

func (e *QueryError) Error() string { return e.Msg }

func parsePositiveInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return 0, &QueryError{Msg: "Numeric parameter must be a positive integer."}
	}
	return v, nil
}
