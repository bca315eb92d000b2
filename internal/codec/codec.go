// Package codec converts catalogs to and from the two external
// representations: the URL fragment of a shareable link and the string
// kept in persistent storage.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/decohome/internal/domain"
	"github.com/fjod/decohome/internal/metrics"
	"go.uber.org/zap"
)

var ErrDecode = errors.New("catalog decode failed")

// Location is the read/clear access to the fragment of the current page URL.
type Location interface {
	Fragment() string
	ClearFragment()
}

type Codec struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Codec {
	return &Codec{logger: logger}
}

// Encode returns the URL-fragment form of products. It returns "" if the
// catalog cannot be serialized.
func (c *Codec) Encode(products []domain.Product) string {
	data, err := marshal(products)
	if err != nil {
		c.logger.Error("encode catalog for link", zap.Error(err))
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a URL fragment. The second result is false when the
// fragment is empty, malformed or does not hold a list of products.
func (c *Codec) Decode(fragment string) ([]domain.Product, bool) {
	products, err := decodeFragment(fragment)
	if err != nil {
		if !errors.Is(err, errEmpty) {
			metrics.DecodeFailures.WithLabelValues("link").Inc()
			c.logger.Warn("decode catalog from link", zap.Error(err))
		}
		return nil, false
	}
	return products, true
}

// DecodeLocation decodes the fragment of loc and clears it when it holds
// something that cannot be decoded, so the next load does not fail again.
func (c *Codec) DecodeLocation(loc Location) ([]domain.Product, bool) {
	fragment := loc.Fragment()
	products, ok := c.Decode(fragment)
	if !ok && strings.TrimPrefix(strings.TrimSpace(fragment), "#") != "" {
		loc.ClearFragment()
	}
	return products, ok
}

func (c *Codec) PersistEncode(products []domain.Product) (string, error) {
	data, err := marshal(products)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Codec) PersistDecode(value string) ([]domain.Product, bool) {
	if strings.TrimSpace(value) == "" {
		return nil, false
	}
	products, err := unmarshal([]byte(value))
	if err != nil {
		metrics.DecodeFailures.WithLabelValues("storage").Inc()
		c.logger.Warn("decode catalog from storage", zap.Error(err))
		return nil, false
	}
	return products, true
}

var errEmpty = errors.New("empty fragment")

func decodeFragment(fragment string) ([]domain.Product, error) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if fragment == "" {
		return nil, errEmpty
	}

	data, err := decodeBase64(fragment)
	if err != nil {
		return nil, err
	}
	return unmarshal(data)
}

// decodeBase64 accepts URL-safe and standard alphabets, padded or not.
func decodeBase64(s string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	}
	for _, enc := range encodings {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: fragment is not base64", ErrDecode)
}

func marshal(products []domain.Product) ([]byte, error) {
	if products == nil {
		products = []domain.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return data, nil
}

func unmarshal(data []byte) ([]domain.Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: payload is not a list", ErrDecode)
	}

	products := []domain.Product{}
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return products, nil
}
