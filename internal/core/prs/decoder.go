package prs

// decoder reconstructs a PRS stream. Its control register mirrors the
// reference decompressor: a single byte refilled from the input whenever
// its eight bits have all been shifted out.
//
// The prologue's first byte (0x03) is itself the first control byte, so
// the register is preloaded from src[0] and the read cursor starts at 1 -
// the decode loop below never special-cases the two verbatim prologue
// bytes, it just so happens that the first two control bits it reads are
// the two 1s baked into 0x03.
type decoder struct {
	src    []byte
	srcPos int

	controlByte byte
	bitsLeft    int

	dst        []byte
	pos        int
	sizeOnly   bool
	targetSize int
}

func newDecoder(src []byte, targetSize int, sizeOnly bool) (*decoder, error) {
	if len(src) == 0 {
		return nil, wrapf("empty input")
	}

	d := &decoder{
		src:         src,
		srcPos:      1,
		controlByte: src[0],
		bitsLeft:    8,
		sizeOnly:    sizeOnly,
		targetSize:  targetSize,
	}
	if !sizeOnly {
		d.dst = make([]byte, 0, targetSize)
	}
	return d, nil
}

// run decodes tokens until the target size is reached (normal case) or a
// valid End token is read (early terminator, or the unbounded size-only scan
// used by DecompressSize).
func (d *decoder) run() error {
	for d.sizeOnly || d.pos < d.targetSize {
		bit, err := d.nextBit()
		if err != nil {
			return err
		}
		for bit == 1 {
			b, err := d.nextByte()
			if err != nil {
				return err
			}
			d.emit(b)

			if !d.sizeOnly && d.pos >= d.targetSize {
				return nil
			}
			if bit, err = d.nextBit(); err != nil {
				return err
			}
		}

		long, err := d.nextBit()
		if err != nil {
			return err
		}

		var offset, size int
		if long == 1 {
			lo, err := d.nextByte()
			if err != nil {
				return err
			}
			hi, err := d.nextByte()
			if err != nil {
				return err
			}

			w := int(lo) | int(hi)<<8
			if w == 0 {
				return nil
			}

			sizeBits := w & 7
			offset = (w >> 3) - longRefOffsetLimit
			if sizeBits == 0 {
				extra, err := d.nextByte()
				if err != nil {
					return err
				}
				size = int(extra) + 10
			} else {
				size = sizeBits + 2
			}
		} else {
			s1, err := d.nextBit()
			if err != nil {
				return err
			}
			s0, err := d.nextBit()
			if err != nil {
				return err
			}
			size = int(s1)<<1 | int(s0)
			size += 2

			p, err := d.nextByte()
			if err != nil {
				return err
			}
			offset = int(p) - shortRefOffsetLimit
		}

		if err := d.copyRef(offset, size); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) nextByte() (byte, error) {
	if d.srcPos >= len(d.src) {
		return 0, wrapf("read past end of input at byte %d", d.srcPos)
	}
	b := d.src[d.srcPos]
	d.srcPos++
	return b, nil
}

func (d *decoder) nextBit() (byte, error) {
	if d.bitsLeft == 0 {
		b, err := d.nextByte()
		if err != nil {
			return 0, err
		}
		d.controlByte = b
		d.bitsLeft = 8
	}
	bit := d.controlByte & 1
	d.controlByte >>= 1
	d.bitsLeft--
	return bit, nil
}

func (d *decoder) emit(b byte) {
	if !d.sizeOnly {
		d.dst = append(d.dst, b)
	}
	d.pos++
}

// copyRef replicates size bytes from offset (always negative, relative to
// the current write position) onto the output tail. The copy proceeds one
// byte at a time so that overlapping ranges - the common case for run-length
// patterns - expand correctly, e.g. offset=-1 replicates the prior byte.
func (d *decoder) copyRef(offset, size int) error {
	if -offset > d.pos {
		return wrapf("back-reference offset %d reaches before output start (position %d)", offset, d.pos)
	}
	for i := 0; i < size; i++ {
		if !d.sizeOnly {
			d.dst = append(d.dst, d.dst[len(d.dst)+offset])
		}
		d.pos++
	}
	return nil
}
