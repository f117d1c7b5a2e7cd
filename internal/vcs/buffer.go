package vcs

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/woozymasta/kv3-tool/internal/kv3"
)

// ErrBadBlock is returned for records whose header fields are inconsistent.
var ErrBadBlock = errors.New("vcs: malformed block")

// AttributeTypeVersion is the first file version whose buffer params carry an attribute type.
const AttributeTypeVersion = 65

// Producer is implemented by decoded records that can be viewed as a KV3 tree.
type Producer interface {
	KVObject() *kv3.Object
}

// BufferParam is one member of a constant buffer.
type BufferParam struct {
	Name          string
	BufferIndex   int32
	ArraySize     int32
	Size          int32
	AttributeType int32 // zero before AttributeTypeVersion
}

// BufferBlock is a constant buffer description.
type BufferBlock struct {
	Name     string
	Size     int32
	Arg0     int32
	Params   []BufferParam
	BlockCRC uint32
	Offset   int // start of the record in the source data
	Version  int // file version the record was decoded with
}

// paramSize returns the encoded size of one param for a file version.
func paramSize(version int) int {
	if version >= AttributeTypeVersion {
		return nameSize + 16
	}

	return nameSize + 12
}

// DecodeBufferBlock decodes one buffer block at offset.
func DecodeBufferBlock(data []byte, offset, version int) (*BufferBlock, error) {
	r := NewReader(data)
	if err := r.Seek(offset); err != nil {
		return nil, err
	}

	return readBufferBlock(r, version)
}

// DecodeBufferBlocks decodes count consecutive buffer blocks starting at offset.
func DecodeBufferBlocks(data []byte, offset, version, count int) ([]*BufferBlock, error) {
	r := NewReader(data)
	if err := r.Seek(offset); err != nil {
		return nil, err
	}

	out := make([]*BufferBlock, 0, count)
	for i := range count {
		b, err := readBufferBlock(r, version)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		out = append(out, b)
	}

	return out, nil
}

// readBufferBlock decodes a block at the reader position.
func readBufferBlock(r *Reader, version int) (*BufferBlock, error) {
	b := &BufferBlock{Offset: r.Pos(), Version: version}

	var err error
	if b.Name, err = r.ReadName(); err != nil {
		return nil, err
	}
	if b.Size, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if b.Arg0, err = r.ReadI32(); err != nil {
		return nil, err
	}

	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if count < 0 || int(count)*paramSize(version) > r.Len() {
		return nil, fmt.Errorf("%w: %q at %d declares %d params", ErrBadBlock, b.Name, b.Offset, count)
	}

	b.Params = make([]BufferParam, 0, count)
	for range count {
		p, err := readBufferParam(r, version)
		if err != nil {
			return nil, err
		}
		b.Params = append(b.Params, p)
	}

	if b.BlockCRC, err = r.ReadU32(); err != nil {
		return nil, err
	}

	return b, nil
}

// readBufferParam decodes one param.
func readBufferParam(r *Reader, version int) (BufferParam, error) {
	var (
		p   BufferParam
		err error
	)

	if p.Name, err = r.ReadName(); err != nil {
		return p, err
	}
	if p.BufferIndex, err = r.ReadI32(); err != nil {
		return p, err
	}
	if p.ArraySize, err = r.ReadI32(); err != nil {
		return p, err
	}
	if p.Size, err = r.ReadI32(); err != nil {
		return p, err
	}
	if version >= AttributeTypeVersion {
		if p.AttributeType, err = r.ReadI32(); err != nil {
			return p, err
		}
	}

	return p, nil
}

// KVObject returns the block as a KV3 tree keyed by field name.
func (b *BufferBlock) KVObject() *kv3.Object {
	o := kv3.NewObject(b.Name)
	o.AddProperty("name", kv3.String(b.Name))
	o.AddProperty("size", kv3.Int32(b.Size))
	o.AddProperty("arg0", kv3.Int32(b.Arg0))
	o.AddProperty("paramCount", kv3.Int32(int32(len(b.Params))))

	params := kv3.NewArray("params")
	for i, p := range b.Params {
		po := kv3.NewObject(strconv.Itoa(i))
		po.AddProperty("name", kv3.String(p.Name))
		po.AddProperty("bufferIndex", kv3.Int32(p.BufferIndex))
		po.AddProperty("arraySize", kv3.Int32(p.ArraySize))
		po.AddProperty("size", kv3.Int32(p.Size))
		if b.Version >= AttributeTypeVersion {
			po.AddProperty("attributeType", kv3.Int32(p.AttributeType))
		}
		params.Append(kv3.ObjectValue(po))
	}
	o.AddProperty("params", kv3.ObjectValue(params))
	o.AddProperty("blockCrc", kv3.UInt32(b.BlockCRC))

	return o
}

// MarshalBinary encodes the block in the layout of b.Version.
func (b *BufferBlock) MarshalBinary() ([]byte, error) {
	out := make([]byte, nameSize+12+len(b.Params)*paramSize(b.Version)+4)
	if err := putName(out, b.Name); err != nil {
		return nil, err
	}

	pos := nameSize
	for _, v := range []int32{b.Size, b.Arg0, int32(len(b.Params))} {
		putU32(out[pos:], uint32(v))
		pos += 4
	}

	for _, p := range b.Params {
		if err := putName(out[pos:], p.Name); err != nil {
			return nil, err
		}
		pos += nameSize

		fields := []int32{p.BufferIndex, p.ArraySize, p.Size}
		if b.Version >= AttributeTypeVersion {
			fields = append(fields, p.AttributeType)
		}
		for _, v := range fields {
			putU32(out[pos:], uint32(v))
			pos += 4
		}
	}

	putU32(out[pos:], b.BlockCRC)

	return out, nil
}
