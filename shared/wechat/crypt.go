package wechat

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"

	"github.com/vasapolrittideah/minishop-api/shared/apperror"
)

// Profile is the decrypted user profile delivered by the provider. It exists
// only for the duration of a login request and is never persisted verbatim.
type Profile struct {
	OpenID    string `json:"openId"`
	NickName  string `json:"nickName"`
	Gender    int    `json:"gender"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	AvatarURL string `json:"avatarUrl"`
	Watermark struct {
		AppID     string `json:"appid"`
		Timestamp int64  `json:"timestamp"`
	} `json:"watermark"`
}

// illegalBuffer is the single error class for every decryption failure. The
// provider protocol does not distinguish tampering from corruption, so neither
// do we.
func illegalBuffer(err error) error {
	e := apperror.NewInput("illegal buffer")
	e.Err = err
	return e
}

// Decrypter decrypts provider-encrypted profile payloads for one app id.
type Decrypter struct {
	appID string
}

// NewDecrypter creates a Decrypter bound to the process's app id.
func NewDecrypter(appID string) *Decrypter {
	return &Decrypter{appID: appID}
}

// DecryptProfile recovers a Profile from the provider-encrypted payload using
// the session key obtained by the code exchange. The key, iv and ciphertext
// arrive base64-encoded; decryption is AES-128-CBC with PKCS#7 padding. A
// payload whose embedded watermark does not carry this app's id is treated as
// tampered.
func (d *Decrypter) DecryptProfile(sessionKey, iv, encryptedData string) (*Profile, error) {
	key, err := base64.StdEncoding.DecodeString(sessionKey)
	if err != nil {
		return nil, illegalBuffer(err)
	}

	ivBytes, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return nil, illegalBuffer(err)
	}

	cipherText, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, illegalBuffer(err)
	}

	plain, err := decryptCBC(key, ivBytes, cipherText)
	if err != nil {
		return nil, illegalBuffer(err)
	}

	var profile Profile
	if err := json.Unmarshal(plain, &profile); err != nil {
		return nil, illegalBuffer(err)
	}

	if profile.Watermark.AppID != d.appID {
		return nil, illegalBuffer(nil)
	}

	return &profile, nil
}

func decryptCBC(key, iv, cipherText []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	if len(iv) != block.BlockSize() {
		return nil, aes.KeySizeError(len(iv))
	}

	if len(cipherText) == 0 || len(cipherText)%block.BlockSize() != 0 {
		return nil, errInvalidLength
	}

	plain := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, cipherText)

	return pkcs7Unpad(plain, block.BlockSize())
}

var (
	errInvalidLength  = errorString("ciphertext is not a multiple of the block size")
	errInvalidPadding = errorString("invalid padding")
)

type errorString string

func (e errorString) Error() string { return string(e) }

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errInvalidPadding
	}

	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, errInvalidPadding
	}

	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errInvalidPadding
		}
	}

	return data[:len(data)-padding], nil
}
