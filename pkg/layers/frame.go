/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/


package layers

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"jinr.ru/greenlab/go-marx/pkg/log"
)

const (
	HostAddr   = 1
	DeviceAddr = 0xfefe
)

func init() {
	initUnknownFrameTypes()
	initActualFrameTypes()
}

const (
	// FrameLayerNum identifies the layer
	FrameLayerNum = 2099
	// FrameSync is a magic number that appears in the beginning of each frame
	FrameSync = 0x4d58
	// FrameHeaderSize is the size of the frame header in bytes
	FrameHeaderSize = 12
	// FrameMaxSize is the max size of a frame including header and CRC
	FrameMaxSize = 1400
	// FrameMaxPayloadSize is the max size of a frame payload:
	// 12 bytes header and 4 bytes CRC
	FrameMaxPayloadSize = FrameMaxSize - FrameHeaderSize - 4
)

type FrameType uint16

const (
	FrameTypeWriteRequest FrameType = 0x0201
	FrameTypeAck          FrameType = 0x0202
)

type errorDecoderForFrameType int

func (e *errorDecoderForFrameType) Decode(data []byte, p gopacket.PacketBuilder) error {
	return e
}

func (e *errorDecoderForFrameType) Error() string {
	return fmt.Sprintf("Unable to decode frame type 0x%04x", int(*e))
}

var errorDecodersForFrameType [65536]errorDecoderForFrameType
var FrameMetadata [65536]layers.EnumMetadata

func initUnknownFrameTypes() {
	for i := 0; i < 65536; i++ {
		errorDecodersForFrameType[i] = errorDecoderForFrameType(i)
		FrameMetadata[i] = layers.EnumMetadata{
			DecodeWith: &errorDecodersForFrameType[i],
			Name:       "UnknownFrameType",
		}
	}
}

func initActualFrameTypes() {
	FrameMetadata[FrameTypeWriteRequest] = layers.EnumMetadata{DecodeWith: gopacket.DecodeFunc(DecodeWriteLayer), Name: "Write", LayerType: WriteLayerType}
	FrameMetadata[FrameTypeAck] = layers.EnumMetadata{DecodeWith: gopacket.DecodeFunc(DecodeAckLayer), Name: "Ack", LayerType: AckLayerType}
}

// LayerType returns FrameMetadata.LayerType
func (t FrameType) LayerType() gopacket.LayerType {
	return FrameMetadata[t].LayerType
}

// Decode calls FrameMetadata.DecodeWith's decoder
func (t FrameType) Decode(data []byte, p gopacket.PacketBuilder) error {
	return FrameMetadata[t].DecodeWith.Decode(data, p)
}

// String returns FrameMetadata.Name
func (t FrameType) String() string {
	return FrameMetadata[t].Name
}

type FrameHeader struct {
	Type FrameType
	Sync uint16
	Seq  uint16
	Len  uint16 // length of the frame including header, payload and CRC in 4-byte words NOT in bytes
	Src  uint16
	Dst  uint16
}

// FrameLayer wraps every request and response exchanged with a remote
// register agent. The last word of a frame is crc32 of header and payload.
type FrameLayer struct {
	layers.BaseLayer
	FrameHeader
	Crc uint32
}

var FrameLayerType = gopacket.RegisterLayerType(FrameLayerNum,
	gopacket.LayerTypeMetadata{Name: "FrameLayerType", Decoder: gopacket.DecodeFunc(decodeFrameLayer)})

func (f *FrameLayer) LayerType() gopacket.LayerType {
	return FrameLayerType
}

// SerializeHeader serializes only the frame header to a buffer
func (f *FrameLayer) SerializeHeader(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(f.Type))
	binary.LittleEndian.PutUint16(buf[2:4], f.Sync)
	binary.LittleEndian.PutUint16(buf[4:6], f.Seq)
	binary.LittleEndian.PutUint16(buf[6:8], f.Len)
	binary.LittleEndian.PutUint16(buf[8:10], f.Src)
	binary.LittleEndian.PutUint16(buf[10:12], f.Dst)
}

// SerializeTo prepends the header to the already serialized payload and
// appends the CRC. With opts.FixLengths the Len field is computed.
func (f *FrameLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	payloadLen := len(b.Bytes())
	if payloadLen > FrameMaxPayloadSize {
		return fmt.Errorf("Frame payload too long: %d bytes", payloadLen)
	}
	if opts.FixLengths {
		f.Len = uint16((FrameHeaderSize + payloadLen + 4) / 4)
	}
	headerBytes, err := b.PrependBytes(FrameHeaderSize)
	if err != nil {
		return err
	}
	f.SerializeHeader(headerBytes)
	f.Crc = crc32.ChecksumIEEE(b.Bytes())

	tailBytes, err := b.AppendBytes(4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(tailBytes[0:4], f.Crc)
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a frame
func (f *FrameLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < FrameHeaderSize+4 {
		df.SetTruncated()
		return fmt.Errorf("Frame too short: %d bytes", len(data))
	}
	if sync := binary.LittleEndian.Uint16(data[2:4]); sync != FrameSync {
		return fmt.Errorf("Wrong frame sync 0x%04x. Must be 0x%04x", sync, FrameSync)
	}

	f.BaseLayer = layers.BaseLayer{
		Contents: data[0:FrameHeaderSize],
		Payload:  data[FrameHeaderSize : len(data)-4],
	}

	f.Type = FrameType(binary.LittleEndian.Uint16(data[0:2]))
	f.Sync = binary.LittleEndian.Uint16(data[2:4])
	f.Seq = binary.LittleEndian.Uint16(data[4:6])
	f.Len = binary.LittleEndian.Uint16(data[6:8])
	f.Src = binary.LittleEndian.Uint16(data[8:10])
	f.Dst = binary.LittleEndian.Uint16(data[10:12])
	f.Crc = binary.LittleEndian.Uint32(data[len(data)-4:])

	if int(f.Len)*4 != len(data) {
		return fmt.Errorf("Frame length %d words does not match %d bytes received", f.Len, len(data))
	}
	if crc := crc32.ChecksumIEEE(data[:len(data)-4]); crc != f.Crc {
		return fmt.Errorf("Wrong frame CRC 0x%08x. Must be 0x%08x", f.Crc, crc)
	}
	return nil
}

func (f *FrameLayer) NextLayerType() gopacket.LayerType {
	return f.Type.LayerType()
}

func decodeFrameLayer(data []byte, p gopacket.PacketBuilder) error {
	f := &FrameLayer{}
	err := f.DecodeFromBytes(data, p)
	if err != nil {
		log.Debug("Error while decoding frame layer: %s", err)
		return err
	}
	p.AddLayer(f)
	return p.NextDecoder(f.Type)
}

// NewFrame returns a frame header of given type addressed from src to dst.
func NewFrame(t FrameType, seq uint16, src, dst uint16) *FrameLayer {
	f := &FrameLayer{}
	f.Type = t
	f.Sync = FrameSync
	f.Seq = seq
	f.Src = src
	f.Dst = dst
	return f
}

// Serialize serializes a frame with its payload layer.
func Serialize(frame *FrameLayer, payload gopacket.SerializableLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, frame, payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
