package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"sparql-flatten/internal/model"
)

// Parse decodes exactly one JSON document from data. Syntax errors, empty
// input, trailing data, invalid UTF-8 and unpaired surrogate escapes are
// all reported as malformed input.
func Parse(data []byte) (Value, error) {
	if !utf8.Valid(data) {
		return Value{}, model.Malformed("decode", errors.New("invalid UTF-8"))
	}
	if off := loneSurrogate(data); off >= 0 {
		return Value{}, model.Malformed("decode", fmt.Errorf("unpaired surrogate escape at offset %d", off))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, model.Malformed("decode", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("trailing data after document")
		}
		return Value{}, model.Malformed("decode", err)
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// parseObject reads members up to the closing brace. A repeated key keeps
// its first position and takes the last value.
func parseObject(dec *json.Decoder) (Value, error) {
	members := NewMembers()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		members.Set(key, val)
	}
	if err := closing(dec, '}'); err != nil {
		return Value{}, err
	}
	return ObjectValue(members), nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	items := make([]Value, 0)
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, val)
	}
	if err := closing(dec, ']'); err != nil {
		return Value{}, err
	}
	return ArrayValue(items), nil
}

func closing(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// loneSurrogate returns the offset of the first \uXXXX escape that encodes
// half of a surrogate pair without its other half, or -1. encoding/json
// would silently turn such an escape into U+FFFD.
func loneSurrogate(data []byte) int {
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			continue
		}
		r, ok := escapedRune(data, i)
		if !ok {
			i++ // skip the escaped character, e.g. the second \ of \\
			continue
		}
		switch {
		case utf16.IsSurrogate(r) && r < 0xdc00:
			low, ok := escapedRune(data, i+6)
			if !ok || low < 0xdc00 || low > 0xdfff {
				return i
			}
			i += 11
		case utf16.IsSurrogate(r):
			return i
		default:
			i += 5
		}
	}
	return -1
}

// escapedRune decodes a \uXXXX escape starting at data[i].
func escapedRune(data []byte, i int) (rune, bool) {
	if i+6 > len(data) || data[i] != '\\' || data[i+1] != 'u' {
		return 0, false
	}
	var r rune
	for _, c := range data[i+2 : i+6] {
		switch {
		case '0' <= c && c <= '9':
			c -= '0'
		case 'a' <= c && c <= 'f':
			c = c - 'a' + 10
		case 'A' <= c && c <= 'F':
			c = c - 'A' + 10
		default:
			return 0, false
		}
		r = r<<4 | rune(c)
	}
	return r, true
}
