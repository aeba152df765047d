package report

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/jd-matcher/internal/schemas"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	// MaxShareJDChars caps the JD text carried in a scorecard.
	MaxShareJDChars = 2000
	// MaxSharePrioritized caps the prioritized keywords carried in a scorecard.
	MaxSharePrioritized = 18
)

// ErrInvalidScorecard is returned when a share payload cannot be decoded or fails validation
var ErrInvalidScorecard = errors.New("invalid scorecard")

// decoders are tried in order; encoding uses the first.
var decoders = []*base64.Encoding{
	base64.RawURLEncoding,
	base64.URLEncoding,
	base64.StdEncoding,
	base64.RawStdEncoding,
}

// EncodeScorecard trims card to the share limits and returns it as
// URL-safe base64 JSON.
func EncodeScorecard(card types.Scorecard) (string, error) {
	if r := []rune(card.JD); len(r) > MaxShareJDChars {
		card.JD = string(r[:MaxShareJDChars])
	}
	if len(card.Prioritized) > MaxSharePrioritized {
		card.Prioritized = card.Prioritized[:MaxSharePrioritized]
	}
	if card.Buckets == nil {
		card.Buckets = []types.BucketStat{}
	}
	if card.Prioritized == nil {
		card.Prioritized = []string{}
	}

	data, err := json.Marshal(card)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scorecard: %w", err)
	}
	return decoders[0].EncodeToString(data), nil
}

// DecodeScorecard reverses EncodeScorecard. Percent-escaped payloads are
// unescaped first, and payloads that are not base64 are read as raw JSON.
func DecodeScorecard(payload string) (types.Scorecard, error) {
	payload = strings.TrimSpace(payload)
	if strings.Contains(payload, "%") {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return types.Scorecard{}, fmt.Errorf("%w: %w", ErrInvalidScorecard, err)
		}
		payload = unescaped
	}
	if payload == "" {
		return types.Scorecard{}, fmt.Errorf("%w: empty payload", ErrInvalidScorecard)
	}

	data := []byte(payload)
	for _, enc := range decoders {
		if decoded, err := enc.DecodeString(payload); err == nil {
			data = decoded
			break
		}
	}

	if err := schemas.Validate(schemas.Scorecard, data); err != nil {
		return types.Scorecard{}, fmt.Errorf("%w: %w", ErrInvalidScorecard, err)
	}
	var card types.Scorecard
	if err := json.Unmarshal(data, &card); err != nil {
		return types.Scorecard{}, fmt.Errorf("%w: %w", ErrInvalidScorecard, err)
	}
	return card, nil
}

// ShareURL joins base and the encoded payload into a share link.
func ShareURL(base, payload string) string {
	return strings.TrimRight(base, "/") + "/share/" + payload
}

// NewScorecard snapshots report input for sharing.
func NewScorecard(in Input, jd string) types.Scorecard {
	return types.Scorecard{
		Score:       in.Score,
		Target:      in.Target,
		Buckets:     in.Coverage,
		Prioritized: in.Plan.Prioritized,
		JD:          jd,
	}
}
