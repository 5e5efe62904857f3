package led

// Each data bit becomes three SPI bits, MSB first: 1 -> 110 (long high), 0 -> 100 (short high).
// At 2.4 MHz one SPI bit is ~417ns, which lands both pulse widths inside the WS2812 tolerances.
const (
	bitOne  = 0b110
	bitZero = 0b100

	// EncodedByteSize is the SPI payload produced for one data byte.
	EncodedByteSize = 3
)

var lut = buildLUT()

func buildLUT() (t [256][EncodedByteSize]byte) {
	for v := 0; v < 256; v++ {
		out := uint32(0)
		for i := 7; i >= 0; i-- {
			tri := uint32(bitZero)
			if (v>>i)&1 == 1 {
				tri = bitOne
			}
			out = (out << 3) | tri
		}
		t[v][0] = byte(out >> 16)
		t[v][1] = byte(out >> 8)
		t[v][2] = byte(out)
	}
	return t
}

// EncodedLen returns the SPI payload length for n data bytes.
func EncodedLen(n int) int { return n * EncodedByteSize }

// Encode expands src into dst using the pulse-width encoding. dst must hold EncodedLen(len(src)) bytes.
func Encode(dst, src []byte) int {
	off := 0
	for _, v := range src {
		e := lut[v]
		dst[off+0], dst[off+1], dst[off+2] = e[0], e[1], e[2]
		off += EncodedByteSize
	}
	return off
}

// resetBytes returns how many zero bytes hold the line low for resetUs at speedHz.
func resetBytes(speedHz, resetUs int) int {
	bits := int64(speedHz) * int64(resetUs)
	n := (bits + 8_000_000 - 1) / 8_000_000
	return int(n)
}
