package payload

import (
	"encoding/base64"
	"fmt"
	"lecturebot/internal/models"
	"lecturebot/internal/providers"
	"strings"

	"github.com/zeebo/blake3"
)

// MaxWireLength is Telegram's limit on callback data, in bytes.
const MaxWireLength = 64

const (
	tokenKind     = "t"
	tokenLength   = 16
	tokenCacheKey = "payload:"
)

type CodecInterface interface {
	Encode(p Payload) (string, error)
	Decode(data string) (Payload, error)
}

// Codec encodes payloads for buttons. Payloads that do not fit in
// MaxWireLength are kept in the token cache and the button carries
// "t|<token>" instead.
type Codec struct {
	tokens providers.TokenCacheInterface
}

func NewCodec(tokens providers.TokenCacheInterface) CodecInterface {
	return &Codec{tokens: tokens}
}

// Encode fails only when a long payload cannot be kept in the token cache;
// a button carrying that token would never resolve.
func (c *Codec) Encode(p Payload) (string, error) {
	wire := Encode(p)
	if len(wire) <= MaxWireLength {
		return wire, nil
	}
	token := Token(wire)
	if err := c.tokens.Set(tokenCacheKey+token, []byte(wire)); err != nil {
		return "", fmt.Errorf("store button token: %w", err)
	}
	return tokenKind + string(delimiter) + token, nil
}

func (c *Codec) Decode(data string) (Payload, error) {
	if token, ok := strings.CutPrefix(data, tokenKind+string(delimiter)); ok {
		wire, found := c.tokens.Get(tokenCacheKey + token)
		if !found {
			return nil, fmt.Errorf("button expired: %w", models.ErrMalformedPayload)
		}
		data = string(wire)
	}
	return Decode(data)
}

// Token is a stable short digest of a wire payload.
func Token(wire string) string {
	sum := blake3.Sum256([]byte(wire))
	return base64.RawURLEncoding.EncodeToString(sum[:])[:tokenLength]
}
