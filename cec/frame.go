package cec

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseFrame parses the colon-separated hex text form of a wire payload,
// e.g. "10:36" or "4f:82:10:00", into a Message. Each group must be
// exactly two hex digits.
func ParseFrame(s string) (*Message, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("cec: empty frame")
	}

	groups := strings.Split(s, ":")
	if len(groups) > MaxMessageSize {
		return nil, fmt.Errorf("cec: frame exceeds %d bytes", MaxMessageSize)
	}

	payload := make([]byte, 0, len(groups))
	for _, g := range groups {
		if len(g) != 2 {
			return nil, fmt.Errorf("cec: malformed frame byte %q", g)
		}
		b, err := hex.DecodeString(g)
		if err != nil {
			return nil, fmt.Errorf("cec: malformed frame byte %q", g)
		}
		payload = append(payload, b[0])
	}

	return DecodeMessage(payload), nil
}

// FrameString renders the message's wire payload as colon-separated hex,
// the inverse of ParseFrame. It returns an empty string if the message
// does not encode.
func (m *Message) FrameString() string {
	payload, err := m.Encode()
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for i, b := range payload {
		if i > 0 {
			sb.WriteByte(':')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
