package ledger

import (
	"encoding/json"
	"fmt"

	"kazanc/internal/core"
)

// DecodeDayRecord parses the stored value of one day. A value that
// exists but does not parse means storage corruption, reported as
// core.ErrMalformedRecord. Absence is the caller's business: the store
// signals it before decoding ever happens.
func DecodeDayRecord(raw string) (core.DayRecord, error) {
	var r core.DayRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return core.DayRecord{}, fmt.Errorf("%w: %v", core.ErrMalformedRecord, err)
	}
	return r, nil
}

// EncodeDayRecord serializes a record for storage. Field names are
// part of the on-disk format and must not change between versions.
func EncodeDayRecord(r core.DayRecord) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode day record: %w", err)
	}
	return string(b), nil
}
