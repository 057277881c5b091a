package roomba

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/roombridge/pkg/link"
	"github.com/urmzd/roombridge/pkg/oi"
	"github.com/urmzd/roombridge/pkg/vacuum"
)

const readChunkSize = 256

// Connection is a byte stream to the vacuum, serial or WebSocket.
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// WakeLine drives the vacuum's BRC wake pin.
type WakeLine interface {
	SetWake(asserted bool) error
}

// Options tunes wake timing and the streamed sensor set.
type Options struct {
	WakePulse   time.Duration
	WakeSettle  time.Duration
	SetupSettle time.Duration
	Sensors     []byte

	// Sleep replaces time.Sleep, mainly for tests.
	Sleep func(time.Duration)
}

// DefaultOptions returns the stock wake timings.
func DefaultOptions() Options {
	return Options{
		WakePulse:   200 * time.Millisecond,
		WakeSettle:  200 * time.Millisecond,
		SetupSettle: 100 * time.Millisecond,
		Sensors:     oi.StreamSensors,
	}
}

// Dock wake timing that keeps a charging 650 from sleeping.
const (
	dockCleanDelay = 10 * time.Millisecond
	dockSeekDelay  = 150 * time.Millisecond
)

// Link drives the vacuum over a Connection. A reader goroutine moves
// incoming bytes into a channel; Poll drains it without blocking.
type Link struct {
	conn   Connection
	wake   WakeLine
	opts   Options
	parser *oi.StreamParser
	chunks chan []byte

	readErr   error
	closedErr error
	readErrMu sync.Mutex

	stopChan chan struct{}
	stopped  bool
	stopMu   sync.Mutex
}

// NewLink starts reading from conn. wake may be nil when the transport
// has no wake line.
func NewLink(conn Connection, wake WakeLine, opts Options) *Link {
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if len(opts.Sensors) == 0 {
		opts.Sensors = oi.StreamSensors
	}

	l := &Link{
		conn:     conn,
		wake:     wake,
		opts:     opts,
		parser:   oi.NewStreamParser(),
		chunks:   make(chan []byte, 64),
		stopChan: make(chan struct{}),
	}
	go l.readLoop()
	return l
}

// Init defines the locate songs and starts the sensor stream. It refuses
// a sensor list the decoder could not parse.
func (l *Link) Init() error {
	for _, id := range l.opts.Sensors {
		if _, ok := oi.SensorWidth(id); !ok {
			return fmt.Errorf("stream sensor %d: %w", id, oi.ErrUnknownPacketID)
		}
	}

	if err := l.write(oi.Safe()); err != nil {
		return fmt.Errorf("safe mode: %w", err)
	}
	for i, notes := range oi.LocateSongs {
		cmd, err := oi.Song(byte(i), notes)
		if err != nil {
			return err
		}
		if err := l.write(cmd); err != nil {
			return fmt.Errorf("define song %d: %w", i, err)
		}
	}

	if err := l.write(oi.Start()); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	l.opts.Sleep(l.opts.SetupSettle)
	if err := l.ResetStream(); err != nil {
		return err
	}
	l.opts.Sleep(l.opts.SetupSettle)
	if err := l.RequestStream(); err != nil {
		return err
	}

	log.Info().Hex("sensors", l.opts.Sensors).Msg("Vacuum link initialized")
	return nil
}

// Wake pulses the wake line low, releases it, settles and sends Start.
func (l *Link) Wake() error {
	if l.wake != nil {
		if err := l.wake.SetWake(true); err != nil {
			return err
		}
		l.opts.Sleep(l.opts.WakePulse)
		if err := l.wake.SetWake(false); err != nil {
			return err
		}
	}
	l.opts.Sleep(l.opts.WakeSettle)
	return l.write(oi.Start())
}

// WakeOnDock wakes the vacuum, then briefly starts a clean and sends it
// back to the dock, which keeps a charging 650 from dropping into sleep.
func (l *Link) WakeOnDock() error {
	if err := l.Wake(); err != nil {
		return err
	}
	l.opts.Sleep(dockCleanDelay)
	if err := l.write(oi.Clean()); err != nil {
		return err
	}
	l.opts.Sleep(dockSeekDelay)
	return l.write(oi.SeekDock())
}

// Run writes each action and waits out its settle delay.
func (l *Link) Run(actions []vacuum.Action) error {
	for i, a := range actions {
		if err := l.write(a.Bytes); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		if a.Settle > 0 {
			l.opts.Sleep(a.Settle)
		}
	}
	return nil
}

// RequestStream asks for the configured sensor stream.
func (l *Link) RequestStream() error {
	return l.write(oi.Stream(l.opts.Sensors...))
}

// ResetStream clears the stream's sensor list.
func (l *Link) ResetStream() error {
	return l.write(oi.Stream())
}

// PauseStream stops the stream without clearing it.
func (l *Link) PauseStream() error {
	return l.write(oi.PauseStream())
}

// ResumeStream restarts a paused stream.
func (l *Link) ResumeStream() error {
	return l.write(oi.ResumeStream())
}

// Poll returns the next complete frame body, or nil if none is buffered.
// Once the connection has closed and every buffered frame has been
// returned, each call fails with an error wrapping link.ErrLinkDown.
func (l *Link) Poll() ([]byte, error) {
	// The reader stores closedErr after its last chunk, so reading it
	// before the drain means no frame is left behind.
	l.readErrMu.Lock()
	closed := l.closedErr
	l.readErrMu.Unlock()

	l.drain()

	body, err := l.parser.Next()
	if err != nil || body != nil {
		return body, err
	}
	if closed != nil {
		return nil, fmt.Errorf("%w: %v", link.ErrLinkDown, closed)
	}

	l.readErrMu.Lock()
	defer l.readErrMu.Unlock()
	if l.readErr != nil {
		err, l.readErr = l.readErr, nil
		return nil, err
	}
	return nil, nil
}

// DroppedBytes reports bytes discarded while resynchronizing the stream.
func (l *Link) DroppedBytes() int {
	return l.parser.Dropped()
}

// Close stops the reader and closes the connection.
func (l *Link) Close() error {
	l.stopMu.Lock()
	if !l.stopped {
		l.stopped = true
		close(l.stopChan)
	}
	l.stopMu.Unlock()
	return l.conn.Close()
}

func (l *Link) write(data []byte) error {
	log.Trace().Hex("tx", data).Msg("Writing to vacuum")
	n, err := l.conn.Write(data)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(data))
	}
	return nil
}

func (l *Link) drain() {
	for {
		select {
		case chunk := <-l.chunks:
			l.parser.Feed(chunk)
		default:
			return
		}
	}
}

func (l *Link) readLoop() {
	buf := make([]byte, readChunkSize)

	for {
		select {
		case <-l.stopChan:
			return
		default:
		}

		n, err := l.conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case l.chunks <- chunk:
			default:
				log.Warn().Int("bytes", n).Msg("Read buffer full, dropping bytes")
			}
		}
		if err == nil {
			continue
		}

		l.stopMu.Lock()
		stopped := l.stopped
		l.stopMu.Unlock()
		if stopped {
			return
		}

		if errors.Is(err, io.EOF) || errors.Is(err, ErrConnectionClosed) {
			log.Error().Err(err).Msg("Vacuum connection closed")
			l.readErrMu.Lock()
			l.closedErr = err
			l.readErrMu.Unlock()
			return
		}
		log.Error().Err(err).Msg("Vacuum read error")
		l.setReadErr(err)
		time.Sleep(100 * time.Millisecond)
	}
}

func (l *Link) setReadErr(err error) {
	l.readErrMu.Lock()
	l.readErr = err
	l.readErrMu.Unlock()
}
