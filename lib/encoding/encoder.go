// Package encoding seals values for storage outside the process. Values
// are packed with msgpack and then either signed (readable but tamper
// evident) or encrypted with AES-256-GCM (opaque).
package encoding

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Sentinel errors returned by Open.
var (
	ErrInvalidFormat    = errors.New("encoding: invalid format")
	ErrSignatureInvalid = errors.New("encoding: signature verification failed")
	ErrDecryptFailed    = errors.New("encoding: decryption failed")
)

const (
	signedPrefix    = "s."
	encryptedPrefix = "e."
)

// Encoder seals and opens values with one key.
type Encoder struct {
	key []byte
	gcm cipher.AEAD
}

// NewEncoder creates an encoder. Keys shorter than 32 bytes are stretched
// with SHA-256.
func NewEncoder(key []byte) (*Encoder, error) {
	if len(key) < 32 {
		h := sha256.Sum256(key)
		key = h[:]
	}
	block, err := aes.NewCipher(key[:32])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Encoder{key: key, gcm: gcm}, nil
}

// Seal packs v and returns the sealed text. With encrypt the payload is
// encrypted, otherwise it is signed.
func (e *Encoder) Seal(v any, encrypt bool) (string, error) {
	packed, err := msgpack.Marshal(v)
	if err != nil {
		return "", err
	}
	if encrypt {
		return encryptedPrefix + e.encrypt(packed), nil
	}
	return signedPrefix + e.sign(packed), nil
}

// Open verifies or decrypts sealed text produced by Seal and unpacks it
// into v. The mode is read from the sealed text itself.
func (e *Encoder) Open(sealed string, v any) error {
	sealed = strings.TrimSpace(sealed)
	var packed []byte
	var err error
	switch {
	case strings.HasPrefix(sealed, signedPrefix):
		packed, err = e.verify(strings.TrimPrefix(sealed, signedPrefix))
	case strings.HasPrefix(sealed, encryptedPrefix):
		packed, err = e.decrypt(strings.TrimPrefix(sealed, encryptedPrefix))
	default:
		return ErrInvalidFormat
	}
	if err != nil {
		return err
	}
	if err := msgpack.Unmarshal(packed, v); err != nil {
		return errors.Join(ErrInvalidFormat, err)
	}
	return nil
}

// sign returns base64(data) "." base64(hmac)
func (e *Encoder) sign(data []byte) string {
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	return base64.RawURLEncoding.EncodeToString(data) + "." +
		base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (e *Encoder) verify(encoded string) ([]byte, error) {
	body, sigText, ok := strings.Cut(encoded, ".")
	if !ok {
		return nil, ErrInvalidFormat
	}
	data, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigText)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	mac := hmac.New(sha256.New, e.key)
	mac.Write(data)
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return nil, ErrSignatureInvalid
	}
	return data, nil
}

func (e *Encoder) encrypt(data []byte) string {
	nonce := make([]byte, e.gcm.NonceSize())
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(nonce)
	return base64.RawURLEncoding.EncodeToString(e.gcm.Seal(nonce, nonce, data, nil))
}

func (e *Encoder) decrypt(encoded string) ([]byte, error) {
	ciphertext, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if len(ciphertext) < e.gcm.NonceSize() {
		return nil, ErrInvalidFormat
	}
	nonce := ciphertext[:e.gcm.NonceSize()]
	out, err := e.gcm.Open(nil, nonce, ciphertext[e.gcm.NonceSize():], nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return out, nil
}
