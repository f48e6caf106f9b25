package inbox

// UnpackShortMessage expands a packed short message, as delivered by
// winmm's MIM_DATA (status in the low byte, then data1, data2), into the
// bytes that make up the message on the wire.
func UnpackShortMessage(packed uint32) []byte {
	status := byte(packed & 0xFF)
	data1 := byte((packed >> 8) & 0xFF)
	data2 := byte((packed >> 16) & 0xFF)

	switch MessageLen(status) {
	case 1:
		return []byte{status}
	case 2:
		return []byte{status, data1}
	default:
		return []byte{status, data1, data2}
	}
}

// MessageLen is the length in bytes of a short message starting with status.
func MessageLen(status byte) int {
	if status < 0xF0 {
		switch status & 0xF0 {
		case 0xC0, 0xD0: // program change, channel pressure
			return 2
		default:
			return 3
		}
	}

	switch status {
	case 0xF1, 0xF3: // time code quarter frame, song select
		return 2
	case 0xF2: // song position pointer
		return 3
	default:
		return 1
	}
}
