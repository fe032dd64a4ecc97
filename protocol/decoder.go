package protocol

// Decoder implements the validation and header parsing shared by all
// packet handlers. Family handlers embed it with their type and
// subtype tables; the tables are fixed at construction and read-only
// afterwards, so a handler can be shared between goroutines.
type Decoder struct {
	Types    TypeTable
	Subtypes TypeTable
}

// Validate checks the frame against the protocol rules in order,
// stopping at the first violation:
//
//   - the length byte must equal the number of remaining bytes
//   - the total length must have room for the common header
//   - the type byte must be in the type table (unless the table is
//     empty, which accepts any type)
//   - likewise for the subtype byte
//
// The frame must be at least one byte, the length byte is read
// unconditionally.
func (d *Decoder) Validate(data []byte) error {
	// The first byte encodes the number of bytes following it, hence
	// the +1 for the length byte itself.
	expected := int(data[0]) + 1

	if len(data) != expected {
		return &InvalidPacketLengthError{
			Expected: expected,
			Actual:   len(data),
		}
	}

	// Checked against the declared length, which at this point equals
	// the actual length.
	if expected < HeaderLength {
		return &MalformedPacketError{Length: expected}
	}

	if len(d.Types) != 0 {
		if _, ok := d.Types[data[1]]; !ok {
			return &UnknownPacketTypeError{
				Type:     data[1],
				Accepted: d.Types.codes(),
			}
		}
	}

	if len(d.Subtypes) != 0 {
		if _, ok := d.Subtypes[data[2]]; !ok {
			return &UnknownPacketSubtypeError{
				Subtype:  data[2],
				Accepted: d.Subtypes.codes(),
			}
		}
	}

	return nil
}

// CanHandle reports whether the frame passes validation. Errors from
// the protocol taxonomy mean the frame is meant for a different
// handler and yield false; any other failure is a handler bug and
// panics instead of being mistaken for a rejected frame.
func (d *Decoder) CanHandle(data []byte) bool {
	err := d.Validate(data)
	if err == nil {
		return true
	}
	if !IsProtocolError(err) {
		panic(err)
	}
	return false
}

func (t TypeTable) codes() []byte {
	out := make([]byte, 0, len(t))
	for c := range t {
		out = append(out, c)
	}
	return out
}
