package plutus

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

const (
	majorUnsigned byte = 0
	majorNegative byte = 1
	majorBytes    byte = 2
	majorArray    byte = 4
	majorMap      byte = 5
	majorTag      byte = 6

	emptyArray      byte = 0x80
	indefiniteArray byte = 0x9f
	indefiniteBytes byte = 0x5f
	breakByte       byte = 0xff

	// byte strings longer than this are split into chunks
	maxByteChunk = 64

	// constructors 0-6 use tags 121-127, 7-127 use tags 1280-1400, anything else tag 102
	tagConstrCompactBase  uint64 = 121
	tagConstrCompactMax   uint64 = 127
	tagConstrExtendedBase uint64 = 1280
	tagConstrExtendedMax  uint64 = 1400
	tagConstrGeneral      uint64 = 102
	tagPositiveBignum     uint64 = 2
	tagNegativeBignum     uint64 = 3
)

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.EncOptions{BigIntConvert: cbor.BigIntConvertShortest}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("plutus: invalid CBOR encoding options: %v", err))
	}
	return em
}

// Marshal encodes a data value as CBOR using the ledger's Plutus data conventions
func Marshal(d Data) ([]byte, error) {
	return appendData(nil, d)
}

// Unmarshal decodes a single CBOR encoded data value
func Unmarshal(data []byte) (Data, error) {
	d, rest, err := decodeFirst(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, malformed("datum", fmt.Sprintf("%d trailing bytes", len(rest)))
	}
	return d, nil
}

func appendData(buf []byte, d Data) ([]byte, error) {
	switch v := d.(type) {
	case Constr:
		return appendConstr(buf, v)
	case Int:
		if v.Value == nil {
			return nil, malformed("integer", "missing")
		}
		b, err := encMode.Marshal(v.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode integer: %w", err)
		}
		return append(buf, b...), nil
	case Bytes:
		return appendBytes(buf, v)
	case List:
		return appendList(buf, v)
	case Map:
		buf = appendHead(buf, majorMap, uint64(len(v)))
		var err error
		for _, p := range v {
			if buf, err = appendData(buf, p.Key); err != nil {
				return nil, err
			}
			if buf, err = appendData(buf, p.Value); err != nil {
				return nil, err
			}
		}
		return buf, nil
	default:
		return nil, malformed("data", fmt.Sprintf("unsupported variant %T", d))
	}
}

func appendConstr(buf []byte, c Constr) ([]byte, error) {
	fields, err := appendList(nil, c.Fields)
	if err != nil {
		return nil, err
	}

	switch {
	case c.Tag <= tagConstrCompactMax-tagConstrCompactBase:
		return appendTag(buf, tagConstrCompactBase+c.Tag, fields)
	case c.Tag <= 127:
		return appendTag(buf, tagConstrExtendedBase+c.Tag-7, fields)
	default:
		index, err := encMode.Marshal(c.Tag)
		if err != nil {
			return nil, fmt.Errorf("failed to encode constructor index: %w", err)
		}
		content := appendHead(nil, majorArray, 2)
		content = append(content, index...)
		content = append(content, fields...)
		return appendTag(buf, tagConstrGeneral, content)
	}
}

func appendTag(buf []byte, number uint64, content []byte) ([]byte, error) {
	b, err := encMode.Marshal(cbor.RawTag{Number: number, Content: content})
	if err != nil {
		return nil, fmt.Errorf("failed to encode tag %d: %w", number, err)
	}
	return append(buf, b...), nil
}

func appendBytes(buf []byte, b Bytes) ([]byte, error) {
	if len(b) <= maxByteChunk {
		enc, err := encMode.Marshal([]byte(b))
		if err != nil {
			return nil, fmt.Errorf("failed to encode bytes: %w", err)
		}
		return append(buf, enc...), nil
	}

	buf = append(buf, indefiniteBytes)
	for start := 0; start < len(b); start += maxByteChunk {
		end := min(start+maxByteChunk, len(b))
		enc, err := encMode.Marshal([]byte(b[start:end]))
		if err != nil {
			return nil, fmt.Errorf("failed to encode bytes chunk: %w", err)
		}
		buf = append(buf, enc...)
	}
	return append(buf, breakByte), nil
}

func appendList(buf []byte, items []Data) ([]byte, error) {
	if len(items) == 0 {
		return append(buf, emptyArray), nil
	}

	buf = append(buf, indefiniteArray)
	var err error
	for _, item := range items {
		if buf, err = appendData(buf, item); err != nil {
			return nil, err
		}
	}
	return append(buf, breakByte), nil
}

// appendHead writes a definite-length CBOR head
func appendHead(buf []byte, major byte, n uint64) []byte {
	m := major << 5
	switch {
	case n < 24:
		return append(buf, m|byte(n))
	case n <= math.MaxUint8:
		return append(buf, m|24, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(buf, m|25), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(buf, m|26), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(buf, m|27), n)
	}
}

// readHead reads a CBOR head, returning the argument, whether the item is
// indefinite-length, and the bytes following the head
func readHead(data []byte) (uint64, bool, []byte, error) {
	if len(data) == 0 {
		return 0, false, nil, malformed("datum", "unexpected end of input")
	}
	info := data[0] & 0x1f
	rest := data[1:]
	switch {
	case info < 24:
		return uint64(info), false, rest, nil
	case info == 24 && len(rest) >= 1:
		return uint64(rest[0]), false, rest[1:], nil
	case info == 25 && len(rest) >= 2:
		return uint64(binary.BigEndian.Uint16(rest)), false, rest[2:], nil
	case info == 26 && len(rest) >= 4:
		return uint64(binary.BigEndian.Uint32(rest)), false, rest[4:], nil
	case info == 27 && len(rest) >= 8:
		return binary.BigEndian.Uint64(rest), false, rest[8:], nil
	case info == 31:
		return 0, true, rest, nil
	default:
		return 0, false, nil, malformed("datum", "truncated head")
	}
}

func decodeFirst(data []byte) (Data, []byte, error) {
	if len(data) == 0 {
		return nil, nil, malformed("datum", "unexpected end of input")
	}
	var raw cbor.RawMessage
	rest, err := cbor.UnmarshalFirst(data, &raw)
	if err != nil {
		return nil, nil, malformed("datum", err.Error())
	}
	d, err := decodeItem(raw)
	if err != nil {
		return nil, nil, err
	}
	return d, rest, nil
}

func decodeItem(raw cbor.RawMessage) (Data, error) {
	if len(raw) == 0 {
		return nil, malformed("datum", "empty item")
	}

	switch raw[0] >> 5 {
	case majorUnsigned, majorNegative:
		return decodeInt(raw)
	case majorBytes:
		var b []byte
		if err := cbor.Unmarshal(raw, &b); err != nil {
			return nil, malformed("bytes", err.Error())
		}
		return Bytes(b), nil
	case majorArray:
		var items []cbor.RawMessage
		if err := cbor.Unmarshal(raw, &items); err != nil {
			return nil, malformed("list", err.Error())
		}
		list := make(List, 0, len(items))
		for _, item := range items {
			d, err := decodeItem(item)
			if err != nil {
				return nil, err
			}
			list = append(list, d)
		}
		return list, nil
	case majorMap:
		return decodeMap(raw)
	case majorTag:
		return decodeTag(raw)
	default:
		return nil, malformed("datum", fmt.Sprintf("unsupported CBOR major type %d", raw[0]>>5))
	}
}

func decodeInt(raw cbor.RawMessage) (Data, error) {
	v := new(big.Int)
	if err := cbor.Unmarshal(raw, v); err != nil {
		return nil, malformed("integer", err.Error())
	}
	return Int{Value: v}, nil
}

func decodeMap(raw cbor.RawMessage) (Data, error) {
	n, indefinite, body, err := readHead(raw)
	if err != nil {
		return nil, err
	}

	m := Map{}
	for i := uint64(0); indefinite || i < n; i++ {
		if indefinite {
			if len(body) == 0 {
				return nil, malformed("map", "missing break")
			}
			if body[0] == breakByte {
				break
			}
		}
		key, rest, err := decodeFirst(body)
		if err != nil {
			return nil, err
		}
		val, rest, err := decodeFirst(rest)
		if err != nil {
			return nil, err
		}
		m = append(m, Pair{Key: key, Value: val})
		body = rest
	}
	return m, nil
}

func decodeTag(raw cbor.RawMessage) (Data, error) {
	var tag cbor.RawTag
	if err := cbor.Unmarshal(raw, &tag); err != nil {
		return nil, malformed("tag", err.Error())
	}

	switch {
	case tag.Number == tagPositiveBignum || tag.Number == tagNegativeBignum:
		return decodeInt(raw)
	case tag.Number >= tagConstrCompactBase && tag.Number <= tagConstrCompactMax:
		fields, err := decodeFields(tag.Content)
		if err != nil {
			return nil, err
		}
		return Constr{Tag: tag.Number - tagConstrCompactBase, Fields: fields}, nil
	case tag.Number >= tagConstrExtendedBase && tag.Number <= tagConstrExtendedMax:
		fields, err := decodeFields(tag.Content)
		if err != nil {
			return nil, err
		}
		return Constr{Tag: tag.Number - tagConstrExtendedBase + 7, Fields: fields}, nil
	case tag.Number == tagConstrGeneral:
		var parts []cbor.RawMessage
		if err := cbor.Unmarshal(tag.Content, &parts); err != nil {
			return nil, malformed("constructor", err.Error())
		}
		if len(parts) != 2 {
			return nil, malformed("constructor", fmt.Sprintf("expected [index, fields], got %d items", len(parts)))
		}
		var index uint64
		if err := cbor.Unmarshal(parts[0], &index); err != nil {
			return nil, malformed("constructor index", err.Error())
		}
		fields, err := decodeFields(parts[1])
		if err != nil {
			return nil, err
		}
		return Constr{Tag: index, Fields: fields}, nil
	default:
		return nil, malformed("tag", fmt.Sprintf("unsupported CBOR tag %d", tag.Number))
	}
}

func decodeFields(content cbor.RawMessage) ([]Data, error) {
	d, err := decodeItem(content)
	if err != nil {
		return nil, err
	}
	list, ok := d.(List)
	if !ok {
		return nil, malformed("constructor", "fields are not a list")
	}
	return []Data(list), nil
}

func malformed(field string, reason string) error {
	return domain.NewMalformedRecordError(field, reason)
}
