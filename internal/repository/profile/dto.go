package profile

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/langprint/internal/domain/bigram"
	"github.com/kailas-cloud/langprint/internal/domain/fingerprint"
	"github.com/kailas-cloud/langprint/internal/domain/language"
)

// profileToHash converts a LanguageProfile to a map for HSET.
func profileToHash(p fingerprint.LanguageProfile) map[string]string {
	return map[string]string{
		"tag":           p.Tag().String(),
		"source":        p.Source(),
		"sample_length": strconv.Itoa(p.SampleLength()),
		"run_id":        p.RunID(),
		"created_at":    strconv.FormatInt(p.CreatedAt(), 10),
		"vector":        encodeVector(p.Profile()),
	}
}

// profileFromHash hydrates a LanguageProfile from an HGETALL result map.
func profileFromHash(m map[string]string) (fingerprint.LanguageProfile, error) {
	tag, err := language.NewTag(m["tag"])
	if err != nil {
		return fingerprint.LanguageProfile{}, fmt.Errorf("invalid tag: %w", err)
	}

	sampleLength, err := strconv.Atoi(m["sample_length"])
	if err != nil {
		return fingerprint.LanguageProfile{}, fmt.Errorf("invalid sample_length: %w", err)
	}

	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return fingerprint.LanguageProfile{}, fmt.Errorf("invalid created_at: %w", err)
	}

	vec, err := decodeVector(m["vector"])
	if err != nil {
		return fingerprint.LanguageProfile{}, err
	}

	return fingerprint.Reconstruct(tag, vec, m["source"], sampleLength, m["run_id"], createdAt), nil
}

// encodeVector packs the profile as little-endian float64s, base64 encoded.
func encodeVector(p bigram.Profile) string {
	buf := make([]byte, len(p)*8)
	for i, f := range p {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func decodeVector(s string) (bigram.Profile, error) {
	var p bigram.Profile
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return p, fmt.Errorf("decode vector: %w", err)
	}
	if len(data) != bigram.Slots*8 {
		return p, fmt.Errorf("invalid vector data: len=%d, want %d", len(data), bigram.Slots*8)
	}
	for i := range p {
		p[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return p, nil
}
