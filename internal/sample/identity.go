package sample

import (
	"fmt"
	"math"
)

// FormatRespondentID renders a RESP_FINAL value as the 4-digit zero-padded
// identifier used throughout the measurement datasets. The raw field arrives
// as a float from loosely typed exports (1001.0 means respondent 1001).
func FormatRespondentID(respFinal float64) (string, error) {
	if math.IsNaN(respFinal) || math.IsInf(respFinal, 0) || respFinal < 0 {
		return "", fmt.Errorf("invalid RESP_FINAL value %v", respFinal)
	}
	id := int(respFinal)
	if id > 9999 {
		return "", fmt.Errorf("RESP_FINAL value %d does not fit a 4-digit identifier", id)
	}
	return fmt.Sprintf("%04d", id), nil
}

// FormatShadeName renders a VIDEOS value as its shade name, dropping the
// decimal point the exports carry (77.0 becomes "77").
func FormatShadeName(videos float64) (string, error) {
	if math.IsNaN(videos) || math.IsInf(videos, 0) {
		return "", fmt.Errorf("invalid VIDEOS value %v", videos)
	}
	return fmt.Sprintf("%d", int(videos)), nil
}
