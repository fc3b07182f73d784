package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"

	"github.com/vancomm/minesweeper-remote/internal/mines"
)

// IR codes sent by the remote, one per line:
//
//	     VOL+
//	|<<  >||  >>|
//	 v   VOL-  ^
//
// map to up / left down right / dig flag restart.
const (
	CodeUp      = 0xFF629D
	CodeLeft    = 0xFF22DD
	CodeDown    = 0xFF02FD
	CodeRight   = 0xFFC23D
	CodeDig     = 0xFFE01F
	CodeFlag    = 0xFFA857
	CodeRestart = 0xFF906F
	CodeRepeat  = 0xFFFFFF
)

var remoteCodes = map[int64]mines.Action{
	CodeUp:      mines.Up,
	CodeLeft:    mines.Left,
	CodeDown:    mines.Down,
	CodeRight:   mines.Right,
	CodeDig:     mines.Dig,
	CodeFlag:    mines.Flag,
	CodeRestart: mines.Restart,
	CodeRepeat:  mines.NoAction,
}

const (
	DefaultBaudRate   = 9600
	DefaultRetryDelay = 2 * time.Second
)

// ParseRemoteLine translates one line from the remote into an action.
// Unknown codes and garbage yield NoAction.
func ParseRemoteLine(line string) mines.Action {
	code, err := strconv.ParseInt(strings.TrimSpace(line), 0, 64)
	if err != nil {
		return mines.NoAction
	}
	return remoteCodes[code]
}

// ReadActions forwards every action read from r to out until r is
// exhausted or ctx is done. It returns io.EOF when r ends cleanly.
func ReadActions(ctx context.Context, r io.Reader, out chan<- mines.Action) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		a := ParseRemoteLine(scanner.Text())
		if a == mines.NoAction {
			continue
		}
		select {
		case out <- a:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return io.EOF
}

type OpenFunc func(name string, mode *serial.Mode) (io.ReadCloser, error)

func openSerial(name string, mode *serial.Mode) (io.ReadCloser, error) {
	return serial.Open(name, mode)
}

// Remote reads actions from an IR receiver attached to a serial port.
type Remote struct {
	Port       string /* empty means the first port found */
	BaudRate   int
	RetryDelay time.Duration
	Log        *logrus.Logger
	Open       OpenFunc
}

func NewRemote(port string, baudRate int, log *logrus.Logger) *Remote {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	return &Remote{
		Port:       port,
		BaudRate:   baudRate,
		RetryDelay: DefaultRetryDelay,
		Log:        log,
		Open:       openSerial,
	}
}

// Run keeps the remote connected until ctx is done, reopening the port
// whenever it fails.
func (r *Remote) Run(ctx context.Context, out chan<- mines.Action) error {
	for {
		err := r.connect(ctx, out)
		if ctx.Err() != nil {
			return nil
		}
		r.Log.WithError(err).WithField("port", r.Port).Warn("remote disconnected")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.RetryDelay):
		}
	}
}

func (r *Remote) connect(ctx context.Context, out chan<- mines.Action) error {
	name, err := r.portName()
	if err != nil {
		return err
	}
	port, err := r.Open(name, &serial.Mode{
		BaudRate: r.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", name, err)
	}
	r.Log.WithFields(logrus.Fields{
		"port":      name,
		"baud_rate": r.BaudRate,
	}).Info("remote connected")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		port.Close()
	}()

	return ReadActions(ctx, port, out)
}

func (r *Remote) portName() (string, error) {
	if r.Port != "" {
		return r.Port, nil
	}
	ports, err := serial.GetPortsList()
	if err != nil {
		return "", fmt.Errorf("unable to list serial ports: %w", err)
	}
	if len(ports) == 0 {
		return "", errors.New("no serial ports found")
	}
	return ports[0], nil
}
