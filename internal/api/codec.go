package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// FormContentType is the Content-Type sent with POST bodies.
const FormContentType = "application/x-www-form-urlencoded"

// EncodeQuery renders p as a URL query string. List and map values repeat
// the bare key once per element: tags=a&tags=b.
func EncodeQuery(p *Params) (string, error) {
	var b strings.Builder
	for _, key := range p.Keys() {
		v, _ := p.Get(key)
		values, err := flatten(key, v)
		if err != nil {
			return "", err
		}
		for _, val := range values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(val))
		}
	}
	return b.String(), nil
}

// EncodeForm renders p as a form body. List elements are keyed by index and
// map entries by their key: tags[0]=a&tags[1]=b, opt[color]=red.
func EncodeForm(p *Params) (string, error) {
	var b strings.Builder
	for _, key := range p.Keys() {
		v, _ := p.Get(key)
		switch v.Kind() {
		case KindScalar:
			writeFormPair(&b, url.QueryEscape(key), v.Scalar())
		case KindList:
			for i, item := range v.list {
				writeFormPair(&b, bracketKey(key, strconv.Itoa(i)), item)
			}
		case KindMap:
			for _, e := range v.entries {
				writeFormPair(&b, bracketKey(key, e.Key), e.Value)
			}
		default:
			return "", &EncodingError{Key: key, Reason: "value has no shape"}
		}
	}
	return b.String(), nil
}

// Encode renders p for the given HTTP method and returns the query string
// (GET) or the body (POST).
func Encode(method string, p *Params) (query, body string, err error) {
	switch method {
	case http.MethodGet:
		query, err = EncodeQuery(p)
		return query, "", err
	case http.MethodPost:
		body, err = EncodeForm(p)
		return "", body, err
	default:
		return "", "", &EncodingError{Reason: fmt.Sprintf("unsupported method %q", method)}
	}
}

func flatten(key string, v Value) ([]string, error) {
	if v.Kind() == kindInvalid {
		return nil, &EncodingError{Key: key, Reason: "value has no shape"}
	}
	return v.Values(), nil
}

func bracketKey(key, sub string) string {
	return url.QueryEscape(key) + "[" + url.QueryEscape(sub) + "]"
}

func writeFormPair(b *strings.Builder, escapedKey, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(escapedKey)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}

// rewriteOrderOptions expands the "opt" list of an order into the keys the
// orders endpoint expects. Several options become opt[<id>]=<id>; a single
// option becomes opt[]=<id>. An empty list is still sent as opt[]=.
func rewriteOrderOptions(p *Params) {
	v, ok := p.Get("opt")
	if !ok {
		return
	}
	p.Delete("opt")

	options := v.Values()
	switch {
	case len(options) > 1:
		for _, opt := range options {
			p.SetString("opt["+opt+"]", opt)
		}
	case len(options) == 1:
		p.SetString("opt[]", options[0])
	default:
		p.SetString("opt[]", "")
	}
}

// productsPath picks the products endpoint for the given ids. A single
// numeric id is addressed by path; anything else goes into productid.
func productsPath(p *Params, ids []string) string {
	if len(ids) == 1 && isNumeric(ids[0]) {
		id := strings.TrimLeft(ids[0], numericSpace)
		return "/products/" + url.PathEscape(id) + ".json"
	}
	if len(ids) > 0 {
		p.SetString("productid", strings.Join(ids, " "))
	}
	return "/products.json"
}

// numericSpace is the leading whitespace a numeric string may carry.
const numericSpace = " \t\n\r\v\f"

func isNumeric(s string) bool {
	s = strings.TrimLeft(s, numericSpace)
	if s == "" || strings.ContainsRune(s, '_') {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return false
	}
	// ParseFloat accepts these but they are not numeric strings
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	return !strings.HasPrefix(lower, "inf") && !strings.HasPrefix(lower, "nan") && !strings.HasPrefix(lower, "0x")
}
