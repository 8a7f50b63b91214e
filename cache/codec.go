// Package cache provides specslope.ResultStore backends: a directory of
// files, process memory, and S3-compatible object storage.
//
// All backends share one record format, a gob-encoded specslope.SlopeSeries
// stored under "<key>.specslope.gob". Gob is used rather than JSON because
// RSquared legitimately carries NaN for degenerate windows, which
// encoding/json cannot represent.
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/teresajurado/specslope/specslope"
)

// recordSuffix names stored records after their storage key.
const recordSuffix = ".specslope.gob"

func encodeSeries(series *specslope.SlopeSeries) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(series); err != nil {
		return nil, fmt.Errorf("encoding slope series: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeSeries(data []byte) (*specslope.SlopeSeries, error) {
	var series specslope.SlopeSeries
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&series); err != nil {
		return nil, fmt.Errorf("decoding slope series: %w", err)
	}
	return &series, nil
}
