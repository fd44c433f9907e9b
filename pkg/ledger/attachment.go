package ledger

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// DecodeAttachment decodes a transaction attachment into the target-chain
// destination address it carries. The node serves attachments base58-encoded;
// an absent attachment decodes to the empty string.
func DecodeAttachment(attachment string) (string, error) {
	if attachment == "" {
		return "", nil
	}
	raw, err := base58.Decode(attachment)
	if err != nil {
		return "", fmt.Errorf("failed to decode attachment: %w", err)
	}
	return string(raw), nil
}
