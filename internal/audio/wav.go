package audio

import "encoding/binary"

// WAVDuration reads the duration in seconds from a RIFF/WAVE byte stream by
// walking its chunks. Returns false for anything that is not a parseable WAV.
func WAVDuration(data []byte) (float64, bool) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, false
	}

	var byteRate uint32
	var dataSize uint32
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := binary.LittleEndian.Uint32(data[off+4 : off+8])
		body := off + 8
		switch id {
		case "fmt ":
			if body+16 > len(data) {
				return 0, false
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
		case "data":
			dataSize = size
		}
		off = body + int(size)
		if size%2 == 1 {
			off++
		}
	}

	if byteRate == 0 || dataSize == 0 {
		return 0, false
	}
	return float64(dataSize) / float64(byteRate), true
}
