package gnssgo

/* frontend.go : raw-IF sources (file / serial / USB) ------------------------
*
* Implements spec.md *6's IF-data sources. FileSource/SerialSource wrap the
* teacher's own file-read and tarm/goserial-backed serial read (stream.go's
* OpenSerial/serial.Config/serial.OpenPort), generalized from Stream's
* multi-role (rov/base/corr) wiring to a single raw-sample producer.
* USBSource is a documented stub: the MAX2771/MAX2769B vendor protocol is
* named but out of core scope per spec.md *1 ("opaque to the core").
*-----------------------------------------------------------------------------*/

import (
	"errors"
	"io"
	"os"
	"time"

	serial "github.com/tarm/goserial"
)

/* ErrNotImplemented is returned by front ends named in spec.md *6 but
 * whose vendor protocol this build does not implement. */
var ErrNotImplemented = errors.New("gnssgo: front end not implemented")

/* IFSource is the producer-thread's raw-byte source (spec.md *4.6 step 1):
 * USB bulk read or file read. */
type IFSource interface {
	Read(buf []uint8) int
	Close()
}

/* FileSource replays an IF-sample file at tscale*real_time, per spec.md
 * *6's tag-file-driven replay. Grounded on stream.go's STR_FILE handling
 * (file-read pacing via the configured time-scale). */
type FileSource struct {
	f      *os.File
	tscale float64
	last   time.Time
	period time.Duration /* nominal wall-clock time for one read() of len(buf) bytes, at tscale=1 */
}

func NewFileSource(path string, tscale float64, bytesPerCycle int, cycle time.Duration) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if tscale <= 0 {
		tscale = 1
	}
	return &FileSource{f: f, tscale: tscale, period: cycle, last: time.Now()}, nil
}

func (s *FileSource) Read(buf []uint8) int {
	wait := time.Duration(float64(s.period) / s.tscale)
	elapsed := time.Since(s.last)
	if elapsed < wait {
		time.Sleep(wait - elapsed)
	}
	s.last = time.Now()

	n, err := io.ReadFull(s.f, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return 0
	}
	return n
}

func (s *FileSource) Close() { s.f.Close() }

/* SerialSource reads raw IF bytes from a serial-attached front end, an
 * alternate producer to the USB bulk-transfer path (SPEC_FULL.md *3's
 * tarm/goserial wiring). */
type SerialSource struct {
	port io.ReadWriteCloser
}

func NewSerialSource(device string, baud int) (*SerialSource, error) {
	cfg := &serial.Config{Name: device, Baud: baud}
	port, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	return &SerialSource{port: port}, nil
}

func (s *SerialSource) Read(buf []uint8) int {
	n, err := s.port.Read(buf)
	if err != nil {
		return 0
	}
	return n
}

func (s *SerialSource) Close() { s.port.Close() }

/* USBSource is named by spec.md *6 (vendor requests STAT/REG_READ/
 * REG_WRITE/START/STOP/RESET/SAVE on a MAX2771/MAX2769B-based front end,
 * bulk endpoint 0x86) but not implemented: the protocol is opaque to the
 * core per spec.md *1's scope, and no USB stack appears anywhere in the
 * retrieval pack. NewUSBSource always returns ErrNotImplemented, so no
 * usable USBSource is ever constructed; Read returns 0 bytes. */
type USBSource struct{}

func NewUSBSource(vendorID, productID uint16) (*USBSource, error) {
	return nil, ErrNotImplemented
}

func (s *USBSource) Read(buf []uint8) int { return 0 }
func (s *USBSource) Close()               {}
