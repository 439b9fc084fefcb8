package api

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Reserved parameter names written by the signer on every request.
const (
	ParamKey    = "key"
	ParamTime   = "time"
	ParamNonce  = "nonce"
	ParamIP     = "ip"
	ParamAPIKey = "apikey"
	ParamABCID  = "abcid"
)

// ReservedParams lists the authentication keys in the order they are applied.
var ReservedParams = []string{ParamKey, ParamTime, ParamNonce, ParamIP, ParamAPIKey, ParamABCID}

// Credentials identify the API consumer. Key is sent in the clear; Secret
// only ever enters the signature.
type Credentials struct {
	Key    string `validate:"required"`
	Secret string `validate:"required"`
}

// AuthFields are the authentication parameters of one request.
type AuthFields struct {
	Key    string
	Time   int64
	Nonce  string
	IP     string
	APIKey string
	ABCID  string
}

// Apply writes the fields into p, replacing any caller supplied values.
func (a AuthFields) Apply(p *Params) {
	p.SetString(ParamKey, a.Key)
	p.Set(ParamTime, Int(a.Time))
	p.SetString(ParamNonce, a.Nonce)
	p.SetString(ParamIP, a.IP)
	p.SetString(ParamAPIKey, a.APIKey)
	p.SetString(ParamABCID, a.ABCID)
}

// Signer produces AuthFields for outgoing requests.
type Signer struct {
	creds Credentials
	now   func() time.Time
	nonce func() string
}

// NewSigner returns a signer. Nil now or nonce fall back to time.Now and NewNonce.
func NewSigner(creds Credentials, now func() time.Time, nonce func() string) *Signer {
	if now == nil {
		now = time.Now
	}
	if nonce == nil {
		nonce = NewNonce
	}
	return &Signer{creds: creds, now: now, nonce: nonce}
}

// Sign returns fresh authentication fields for one request.
func (s *Signer) Sign(ip, abcid string) AuthFields {
	ts := s.now().Unix()
	nonce := s.nonce()
	return AuthFields{
		Key:    s.creds.Key,
		Time:   ts,
		Nonce:  nonce,
		IP:     ip,
		APIKey: Signature(s.creds, ts, nonce),
		ABCID:  abcid,
	}
}

// Signature computes the apikey field: hex HMAC-SHA1 keyed by the public key
// over secret || time || nonce. The server expects exactly this role
// assignment, do not swap key and message.
func Signature(creds Credentials, ts int64, nonce string) string {
	mac := hmac.New(sha1.New, []byte(creds.Key))
	mac.Write([]byte(creds.Secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte(nonce))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewNonce returns 32 lowercase hex characters drawn from a random UUID.
func NewNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
