package protocol

// RawPacket is the record produced for frames no specific handler
// claimed. It carries the first three header bytes and the frame
// itself; nothing is name-resolved and no sequence number is read,
// as the catch-all handler has no tables.
type RawPacket struct {
	PacketInfo
	PacketLength  byte   `json:"packet_length"`
	PacketType    byte   `json:"packet_type"`
	PacketSubtype byte   `json:"packet_subtype"`
	Packet        []byte `json:"packet"`
}

// RawHandler accepts any frame without validation. Registered last in
// the registry it guarantees that every frame read from the
// transceiver still produces a record.
type RawHandler struct{}

// CanHandle always returns true.
func (h *RawHandler) CanHandle(data []byte) bool {
	return true
}

// Load reads the header bytes directly instead of going through the
// shared header parser, so even frames that fail the length rules are
// captured as-is.
func (h *RawHandler) Load(data []byte) (Packet, error) {
	info := NewPacketInfo(data)

	return &RawPacket{
		PacketInfo:    info,
		PacketLength:  data[0],
		PacketType:    data[1],
		PacketSubtype: data[2],
		Packet:        info.Raw,
	}, nil
}
