package protocol

// Header is the four-byte header every RFXtrx frame starts with.
type Header struct {
	PacketLength      byte   `json:"packet_length"`
	PacketType        byte   `json:"packet_type"`
	PacketTypeName    string `json:"packet_type_name,omitempty"`
	PacketSubtype     byte   `json:"packet_subtype"`
	PacketSubtypeName string `json:"packet_subtype_name,omitempty"`
	SequenceNumber    byte   `json:"sequence_number"`
}

// Family returns the resolved packet type name.
func (h Header) Family() string {
	return h.PacketTypeName
}

// ParseHeader extracts the common header from the frame. The frame
// must have been validated first: the first four bytes are read
// unconditionally. Codes missing from the tables resolve to an empty
// name, which is informational only and never an error.
func (d *Decoder) ParseHeader(data []byte) Header {
	return Header{
		PacketLength:      data[0],
		PacketType:        data[1],
		PacketTypeName:    d.Types[data[1]],
		PacketSubtype:     data[2],
		PacketSubtypeName: d.Subtypes[data[2]],
		SequenceNumber:    data[3],
	}
}
