package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainProgram = "tally/program/v1"
	DomainOp      = "tally/op/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ID computes the content-addressed identity of a program.
// Stable across processes given the same name and steps; the description
// is excluded (documentation, not behavior).
func (p *Program) ID() (string, error) {
	canonical, err := MarshalCanonical(p.canonicalMap())
	if err != nil {
		return "", fmt.Errorf("program ID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}

// MustID is like ID but panics on error.
// Use only in tests or when the program is known to be valid.
func (p *Program) MustID() string {
	id, err := p.ID()
	if err != nil {
		panic(err)
	}
	return id
}

// OpRecordID computes the content-addressed ID for an executed step.
//
// DESIGN DECISION: the run token is intentionally EXCLUDED. OpRecordID
// represents "what happened" (logical identity), not "which run did it".
// Re-executing the same program therefore produces identical record IDs,
// which is what makes replay verification a record-for-record comparison.
// The run token is still stored on the OpRecord for trace grouping.
func OpRecordID(programID string, op Op, args map[string]any, seq int64) (string, error) {
	obj := map[string]any{
		"program_id": programID,
		"op":         string(op),
		"args":       args,
		"seq":        seq,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("OpRecordID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainOp, canonical), nil
}

// MustOpRecordID is like OpRecordID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustOpRecordID(programID string, op Op, args map[string]any, seq int64) string {
	id, err := OpRecordID(programID, op, args, seq)
	if err != nil {
		panic(err)
	}
	return id
}
