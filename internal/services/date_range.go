package services

import (
	"waiter/internal/models"
)

const (
	MsgDatesRequired     = "start_date and end_date are required."
	MsgInvalidDateFormat = "Invalid date format. Please provide dates in the format: YYYY-MM-DD."
)

// ParseDateRange validates the raw start_date and end_date values of a
// report request. The values come straight from the decoded JSON body, so
// any JSON type may show up here.
func ParseDateRange(start, end any) (models.DateRange, error) {
	if isBlank(start) || isBlank(end) {
		return models.DateRange{}, &ValidationError{Message: MsgDatesRequired}
	}

	startStr, ok := start.(string)
	if !ok {
		return models.DateRange{}, &ValidationError{Message: MsgInvalidDateFormat}
	}
	endStr, ok := end.(string)
	if !ok {
		return models.DateRange{}, &ValidationError{Message: MsgInvalidDateFormat}
	}

	startDate, err := models.ParseDate(startStr)
	if err != nil {
		return models.DateRange{}, &ValidationError{Message: MsgInvalidDateFormat}
	}
	endDate, err := models.ParseDate(endStr)
	if err != nil {
		return models.DateRange{}, &ValidationError{Message: MsgInvalidDateFormat}
	}

	return models.DateRange{Start: startDate, End: endDate}, nil
}

// isBlank reports whether a decoded JSON value counts as "not provided":
// absent, null, empty string, zero, false or an empty array/object.
func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case bool:
		return !val
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
