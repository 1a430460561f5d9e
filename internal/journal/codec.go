// Package journal is the append-only audit sink: a binary record codec, a
// segmented file writer fed by a bounded queue, a sequential reader, and an
// optional Postgres sink. The decision core only writes; nothing here feeds
// back into trading.
package journal

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"

	"main/internal/schema"
)

const (
	recordHeaderSize   = 40
	recordChecksumSize = 4

	orderPayloadSize = 28
	pricePayloadSize = 10
	bookPayloadSize  = 2 + 8 + 4*schema.Depth*8 + 8 + 8
)

var (
	recordMagic = [4]byte{'J', 'R', 'N', '1'}
	crcTable    = crc32.MakeTable(crc32.Castagnoli)
)

var (
	ErrInvalidMagic            = errors.New("journal invalid magic")
	ErrUnsupportedRecordVer    = errors.New("journal unsupported record version")
	ErrInvalidRecordHeaderSize = errors.New("journal invalid header size")
	ErrInvalidPayload          = errors.New("journal invalid payload")
)

func encodeHeader(dst []byte, header schema.RecordHeader, payloadLen int) {
	_ = dst[recordHeaderSize-1]
	copy(dst[0:4], recordMagic[:])
	binary.LittleEndian.PutUint16(dst[4:6], header.Version)
	binary.LittleEndian.PutUint16(dst[6:8], uint16(recordHeaderSize))
	binary.LittleEndian.PutUint16(dst[8:10], uint16(header.Type))
	binary.LittleEndian.PutUint16(dst[10:12], 0)
	binary.LittleEndian.PutUint32(dst[12:16], uint32(payloadLen))
	binary.LittleEndian.PutUint64(dst[16:24], header.Seq)
	binary.LittleEndian.PutUint64(dst[24:32], math.Float64bits(header.Time))
	binary.LittleEndian.PutUint64(dst[32:40], uint64(header.TsRecv))
}

func checksum(header []byte, payload []byte) uint32 {
	crc := crc32.Update(0, crcTable, header)
	return crc32.Update(crc, crcTable, payload)
}

func decodeRecordHeader(src []byte) (schema.RecordHeader, uint32, error) {
	if len(src) < recordHeaderSize {
		return schema.RecordHeader{}, 0, ErrInvalidRecordHeaderSize
	}
	if !bytes.Equal(src[0:4], recordMagic[:]) {
		return schema.RecordHeader{}, 0, ErrInvalidMagic
	}
	if ver := binary.LittleEndian.Uint16(src[4:6]); ver != schema.JournalVersion {
		return schema.RecordHeader{}, 0, ErrUnsupportedRecordVer
	}
	if headerSize := binary.LittleEndian.Uint16(src[6:8]); headerSize != recordHeaderSize {
		return schema.RecordHeader{}, 0, ErrInvalidRecordHeaderSize
	}
	payloadLen := binary.LittleEndian.Uint32(src[12:16])
	h := schema.RecordHeader{
		Type:    schema.RecordType(binary.LittleEndian.Uint16(src[8:10])),
		Version: binary.LittleEndian.Uint16(src[4:6]),
		Seq:     binary.LittleEndian.Uint64(src[16:24]),
		Time:    math.Float64frombits(binary.LittleEndian.Uint64(src[24:32])),
		TsRecv:  int64(binary.LittleEndian.Uint64(src[32:40])),
	}
	return h, payloadLen, nil
}

// EncodeOrder serializes an order record payload.
func EncodeOrder(rec schema.OrderRecord) []byte {
	buf := make([]byte, orderPayloadSize)
	binary.LittleEndian.PutUint64(buf[0:8], rec.OrderID)
	binary.LittleEndian.PutUint16(buf[8:10], uint16(rec.Instrument))
	binary.LittleEndian.PutUint16(buf[10:12], uint16(rec.Side))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(rec.Volume))
	binary.LittleEndian.PutUint64(buf[20:28], uint64(rec.Price))
	return buf
}

// DecodeOrder deserializes an order record payload.
func DecodeOrder(src []byte) (schema.OrderRecord, error) {
	if len(src) != orderPayloadSize {
		return schema.OrderRecord{}, ErrInvalidPayload
	}
	return schema.OrderRecord{
		OrderID:    binary.LittleEndian.Uint64(src[0:8]),
		Instrument: schema.Instrument(binary.LittleEndian.Uint16(src[8:10])),
		Side:       schema.Side(binary.LittleEndian.Uint16(src[10:12])),
		Volume:     schema.Volume(binary.LittleEndian.Uint64(src[12:20])),
		Price:      schema.Price(binary.LittleEndian.Uint64(src[20:28])),
	}, nil
}

// EncodePrice serializes a fair value price payload.
func EncodePrice(rec schema.PriceRecord) []byte {
	buf := make([]byte, pricePayloadSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(rec.Instrument))
	binary.LittleEndian.PutUint64(buf[2:10], uint64(rec.Mid))
	return buf
}

// DecodePrice deserializes a fair value price payload.
func DecodePrice(src []byte) (schema.PriceRecord, error) {
	if len(src) != pricePayloadSize {
		return schema.PriceRecord{}, ErrInvalidPayload
	}
	return schema.PriceRecord{
		Instrument: schema.Instrument(binary.LittleEndian.Uint16(src[0:2])),
		Mid:        schema.Price(binary.LittleEndian.Uint64(src[2:10])),
	}, nil
}

// EncodeBook serializes a book or trade tick payload.
func EncodeBook(rec schema.BookRecord) []byte {
	buf := make([]byte, bookPayloadSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(rec.Snapshot.Instrument))
	binary.LittleEndian.PutUint64(buf[2:10], rec.Snapshot.Sequence)
	off := 10
	for i := 0; i < schema.Depth; i++ {
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(rec.Snapshot.AskPrices[i]))
		off += 8
	}
	for i := 0; i < schema.Depth; i++ {
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(rec.Snapshot.AskVolumes[i]))
		off += 8
	}
	for i := 0; i < schema.Depth; i++ {
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(rec.Snapshot.BidPrices[i]))
		off += 8
	}
	for i := 0; i < schema.Depth; i++ {
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(rec.Snapshot.BidVolumes[i]))
		off += 8
	}
	binary.LittleEndian.PutUint64(buf[off:off+8], uint64(rec.FairValue))
	binary.LittleEndian.PutUint64(buf[off+8:off+16], uint64(rec.Spread))
	return buf
}

// DecodeBook deserializes a book or trade tick payload.
func DecodeBook(src []byte) (schema.BookRecord, error) {
	if len(src) != bookPayloadSize {
		return schema.BookRecord{}, ErrInvalidPayload
	}
	var rec schema.BookRecord
	rec.Snapshot.Instrument = schema.Instrument(binary.LittleEndian.Uint16(src[0:2]))
	rec.Snapshot.Sequence = binary.LittleEndian.Uint64(src[2:10])
	off := 10
	for i := 0; i < schema.Depth; i++ {
		rec.Snapshot.AskPrices[i] = schema.Price(binary.LittleEndian.Uint64(src[off : off+8]))
		off += 8
	}
	for i := 0; i < schema.Depth; i++ {
		rec.Snapshot.AskVolumes[i] = schema.Volume(binary.LittleEndian.Uint64(src[off : off+8]))
		off += 8
	}
	for i := 0; i < schema.Depth; i++ {
		rec.Snapshot.BidPrices[i] = schema.Price(binary.LittleEndian.Uint64(src[off : off+8]))
		off += 8
	}
	for i := 0; i < schema.Depth; i++ {
		rec.Snapshot.BidVolumes[i] = schema.Volume(binary.LittleEndian.Uint64(src[off : off+8]))
		off += 8
	}
	rec.FairValue = schema.Price(binary.LittleEndian.Uint64(src[off : off+8]))
	rec.Spread = schema.Price(binary.LittleEndian.Uint64(src[off+8 : off+16]))
	return rec, nil
}

// EncodeSignal serializes a signal payload.
func EncodeSignal(rec schema.SignalRecord) []byte {
	buf := make([]byte, 0, 4+len(rec.Name)+len(rec.Value))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(rec.Name)))
	buf = append(buf, rec.Name...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(rec.Value)))
	buf = append(buf, rec.Value...)
	return buf
}

// DecodeSignal deserializes a signal payload.
func DecodeSignal(src []byte) (schema.SignalRecord, error) {
	if len(src) < 2 {
		return schema.SignalRecord{}, ErrInvalidPayload
	}
	nameLen := int(binary.LittleEndian.Uint16(src[0:2]))
	if len(src) < 2+nameLen+2 {
		return schema.SignalRecord{}, ErrInvalidPayload
	}
	name := string(src[2 : 2+nameLen])
	valueLen := int(binary.LittleEndian.Uint16(src[2+nameLen : 4+nameLen]))
	if len(src) != 4+nameLen+valueLen {
		return schema.SignalRecord{}, ErrInvalidPayload
	}
	return schema.SignalRecord{
		Name:  name,
		Value: string(src[4+nameLen:]),
	}, nil
}
