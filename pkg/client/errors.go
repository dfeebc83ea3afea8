package client

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"servicehub/internal/domain"

	"github.com/tidwall/gjson"
)

var (
	// ErrInternal covers failures before a response was received.
	ErrInternal = errors.New("servicehub client: internal error")
	// ErrInvalidResponse is returned when a success response cannot be decoded.
	ErrInvalidResponse = errors.New("servicehub client: invalid response")
)

// DecodeError turns a non-2xx response into a *domain.Error. It accepts every
// error shape the API and its proxies produce:
//
//	{"success":false,"error":{"code":"...","message":"...","details":{...}}}
//	{"error":"..."}
//	{"message":"...","code":"..."}
//	{"details":"..."}
//
// The kind comes from the machine-readable code when there is one and from
// the status otherwise.
func DecodeError(status int, body []byte) *domain.Error {
	var code, message string

	if doc := gjson.ParseBytes(body); gjson.ValidBytes(body) && doc.IsObject() {
		code, message = doc.Get("code").String(), doc.Get("message").String()
		switch e := doc.Get("error"); {
		case e.IsObject():
			code = firstNonEmpty(e.Get("code").String(), code)
			message = firstNonEmpty(e.Get("message").String(), message, detailsText(e.Get("details")))
		case e.Type == gjson.String:
			message = firstNonEmpty(message, e.String())
		}
		message = firstNonEmpty(message, detailsText(doc.Get("details")))
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
		message = text
	}

	kind, ok := kindForCode(code)
	if !ok {
		kind = kindForStatus(status)
	}
	if message == "" {
		message = strings.ToLower(http.StatusText(status))
		if message == "" {
			message = fmt.Sprintf("unexpected status %d", status)
		}
	}
	return &domain.Error{Kind: kind, Message: message}
}

var codeKinds = map[string]domain.ErrorKind{
	"VALIDATION_ERROR":           domain.KindValidation,
	"INVALID_TRANSITION":         domain.KindInvalidTransition,
	"FORBIDDEN":                  domain.KindForbidden,
	"NOT_FOUND":                  domain.KindNotFound,
	"INACTIVE":                   domain.KindInactive,
	"EXPIRED":                    domain.KindExpired,
	"NOT_APPLICABLE_TO_USER":     domain.KindNotApplicableToUser,
	"NOT_APPLICABLE_TO_PROPERTY": domain.KindNotApplicableToProperty,
	"INVALID_RATE_CONFIGURATION": domain.KindInvalidRateConfiguration,
	"CONFLICT":                   domain.KindConflict,
	"UNAUTHORIZED":               domain.KindUnauthorized,
	"ACCESS_DENIED":              domain.KindAccessDenied,
	"LIMIT_REACHED":              domain.KindLimitReached,
	"INTERNAL_ERROR":             domain.KindInternal,
}

func kindForCode(code string) (domain.ErrorKind, bool) {
	k, ok := codeKinds[strings.ToUpper(strings.TrimSpace(code))]
	return k, ok
}

func kindForStatus(status int) domain.ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return domain.KindValidation
	case http.StatusUnauthorized:
		return domain.KindUnauthorized
	case http.StatusForbidden:
		return domain.KindForbidden
	case http.StatusNotFound:
		return domain.KindNotFound
	case http.StatusConflict:
		return domain.KindConflict
	case http.StatusUnprocessableEntity:
		return domain.KindValidation
	}
	return domain.KindInternal
}

// detailsText renders details that are a plain string or a field->message
// map, the two shapes validation errors use.
func detailsText(r gjson.Result) string {
	switch {
	case r.Type == gjson.String:
		return r.String()
	case r.IsObject():
		var parts []string
		r.ForEach(func(k, v gjson.Result) bool {
			parts = append(parts, k.String()+": "+v.String())
			return true
		})
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
