package util

import (
	"time"
)

// Binary encoding of the network transaction schema. Integers are little
// endian, strings and arrays are prefixed by their varint32 length.

func PutBool(b bool, data *[]byte) {
	if b {
		*data = append(*data, 1)
	} else {
		*data = append(*data, 0)
	}
}

func PutByte(b byte, data *[]byte) {
	*data = append(*data, b)
}

func PutUint16(v uint16, data *[]byte) {
	*data = append(*data, byte(v), byte(v>>8))
}

func PutInt16(v int16, data *[]byte) {
	PutUint16(uint16(v), data)
}

func PutUint32(v uint32, data *[]byte) {
	b := make([]byte, 4)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	*data = append(*data, b...)
}

func PutUint64(v uint64, data *[]byte) {
	b := make([]byte, 8)
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
	*data = append(*data, b...)
}

func PutInt64(v int64, data *[]byte) {
	PutUint64(uint64(v), data)
}

// PutVarint32 appends v as an unsigned LEB128 varint (at most 5 bytes).
func PutVarint32(v uint32, data *[]byte) {
	for v >= 0x80 {
		*data = append(*data, byte(v)|0x80)
		v >>= 7
	}
	*data = append(*data, byte(v))
}

// PutTime appends the unix seconds of value as uint32.
func PutTime(value time.Time, data *[]byte) {
	PutUint32(uint32(value.Unix()), data)
}

func PutByteArray(b []byte, data *[]byte) {
	PutVarint32(uint32(len(b)), data)
	*data = append(*data, b...)
}

func PutString(value string, data *[]byte) {
	PutByteArray([]byte(value), data)
}

func PutStringArray(values []string, data *[]byte) {
	PutVarint32(uint32(len(values)), data)
	for _, value := range values {
		PutString(value, data)
	}
}

// PutFixedString appends value truncated or zero padded to size bytes.
func PutFixedString(value string, size int, data *[]byte) {
	b := make([]byte, size)
	copy(b, value)
	*data = append(*data, b...)
}

func ParseBool(data []byte, position int) (bool, int) {
	if position >= len(data) {
		return false, position + 1
	}
	return data[position] != 0, position + 1
}

func ParseByte(data []byte, position int) (byte, int) {
	if position >= len(data) {
		return 0, position + 1
	}
	return data[position], position + 1
}

func ParseUint16(data []byte, position int) (uint16, int) {
	if position+1 >= len(data) {
		return 0, position + 2
	}
	value := uint16(data[position+0]) |
		uint16(data[position+1])<<8
	return value, position + 2
}

func ParseUint32(data []byte, position int) (uint32, int) {
	if position+3 >= len(data) {
		return 0, position + 4
	}
	value := uint32(data[position+0]) |
		uint32(data[position+1])<<8 |
		uint32(data[position+2])<<16 |
		uint32(data[position+3])<<24
	return value, position + 4
}

func ParseUint64(data []byte, position int) (uint64, int) {
	if position+7 >= len(data) {
		return 0, position + 8
	}
	value := uint64(data[position+0]) |
		uint64(data[position+1])<<8 |
		uint64(data[position+2])<<16 |
		uint64(data[position+3])<<24 |
		uint64(data[position+4])<<32 |
		uint64(data[position+5])<<40 |
		uint64(data[position+6])<<48 |
		uint64(data[position+7])<<56
	return value, position + 8
}

// ParseVarint32 returns position past the end of data on a truncated or
// overlong varint.
func ParseVarint32(data []byte, position int) (uint32, int) {
	var value uint32
	for shift := 0; shift < 35; shift += 7 {
		if position >= len(data) {
			return 0, len(data) + 1
		}
		b := data[position]
		position++
		value |= uint32(b&0x7f) << shift
		if b < 0x80 {
			return value, position
		}
	}
	return 0, len(data) + 1
}

func ParseTime(data []byte, position int) (time.Time, int) {
	seconds, newPosition := ParseUint32(data, position)
	return time.Unix(int64(seconds), 0).UTC(), newPosition
}

func ParseByteArray(data []byte, position int) ([]byte, int) {
	size, position := ParseVarint32(data, position)
	if position > len(data) || position+int(size) > len(data) {
		return nil, len(data) + 1
	}
	return data[position : position+int(size)], position + int(size)
}

func ParseString(data []byte, position int) (string, int) {
	bytes, newPosition := ParseByteArray(data, position)
	if bytes != nil {
		return string(bytes), newPosition
	} else {
		return "", newPosition
	}
}
