package programmer

import (
	"context"
	"errors"

	"github.com/arloliu/go-hveprom/engine"
	"github.com/arloliu/go-hveprom/family"
	"github.com/arloliu/go-hveprom/hw"
	"github.com/arloliu/go-hveprom/internal/pool"
	"github.com/arloliu/go-hveprom/logger"
	"github.com/arloliu/go-hveprom/protocol"
)

// Programmer dispatches host commands to the installed shield.
type Programmer struct {
	cfg     *Config
	board   hw.Board
	drv     family.Driver
	eng     *engine.Engine
	t       protocol.Transport
	frames  *protocol.FrameReader
	session *engine.Session
	metrics *Metrics
	logger  logger.Logger
}

// New creates a programmer for the shield of family f wired to board, and
// drives the shield to its idle state.
func New(board hw.Board, f family.Family, t protocol.Transport, opts ...Option) (*Programmer, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	drv, err := family.NewDriver(f, board)
	if err != nil {
		return nil, err
	}

	p := &Programmer{
		cfg:     cfg,
		board:   board,
		drv:     drv,
		t:       t,
		frames:  protocol.NewFrameReader(t, board, cfg.syncAttempts, cfg.syncDelay),
		metrics: newMetrics(),
		logger:  cfg.logger.With("family", f.String()),
	}
	p.eng = engine.New(drv, engine.WithLogger(p.logger), engine.WithObserver(p.metrics))

	drv.Init()
	p.checkBoard()

	return p, nil
}

// Family returns the family of the installed shield.
func (p *Programmer) Family() family.Family { return p.drv.Family() }

// Session returns the active session, or nil.
func (p *Programmer) Session() *engine.Session { return p.session }

// Metrics returns the programmer metrics.
func (p *Programmer) Metrics() *Metrics { return p.metrics }

// Config returns the programmer configuration.
func (p *Programmer) Config() *Config { return p.cfg }

// Run serves commands until ctx is done or the transport fails. The shield is
// reset before Run returns.
func (p *Programmer) Run(ctx context.Context) error {
	defer p.reset()

	p.logger.Info("programmer started")
	for {
		op, ok, err := p.NextCommand(ctx)
		if err != nil {
			return err
		}
		if !ok {
			if err := pool.Sleep(ctx, p.cfg.pollInterval); err != nil {
				return err
			}
			continue
		}
		if err := p.Dispatch(ctx, op); err != nil {
			return err
		}
	}
}

// NextCommand returns the next well-framed command.
//
// ok is false when no command is waiting or the frame was dropped; err is only
// set when ctx is done or the transport failed.
func (p *Programmer) NextCommand(ctx context.Context) (protocol.Opcode, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	op, err := p.frames.Next()
	switch {
	case err == nil:
		p.metrics.incFrameCount()
		return op, true, nil
	case errors.Is(err, protocol.ErrNoFrame):
		return 0, false, nil
	case protocol.IsFramingError(err):
		p.metrics.incFramingErrCount()
		p.logger.Debug("frame dropped", "error", err)
		return 0, false, nil
	default:
		return 0, false, err
	}
}

// Dispatch runs op, reading its payload from the transport and writing the
// response. It returns an error only when the transport fails or ctx is done.
func (p *Programmer) Dispatch(ctx context.Context, op protocol.Opcode) error {
	p.metrics.incCommand(op)
	p.logger.Debug("dispatch", "op", op.String())

	var err error
	switch op {
	case protocol.OpStartWrite:
		err = p.startWrite(ctx)
	case protocol.OpWriteChunk:
		err = p.writeChunk(ctx)
	case protocol.OpStartRead:
		err = p.startSession(ctx, op, engine.ModeRead)
	case protocol.OpReadChunk:
		err = p.readChunk()
	case protocol.OpStartBlankCheck:
		err = p.startSession(ctx, op, engine.ModeBlankCheck)
	case protocol.OpBlankCheck:
		err = p.blankCheck()
	case protocol.OpDeviceReset:
		err = p.deviceReset()
	case protocol.OpMeasureSupply:
		err = p.measureSupply()
	case protocol.OpTest:
		err = p.test(ctx)
	case protocol.OpTestRead:
		err = p.testRead(ctx)
	default:
		p.logger.Debug("unknown opcode ignored", "op", op.String())
	}
	p.checkBoard()

	return err
}

func (p *Programmer) respond(resp *protocol.Response) error {
	p.logger.Debug("respond", "op", resp.Opcode().String(), "status", resp.Status().String())
	return p.t.Write(resp.Encode())
}

func (p *Programmer) status(op protocol.Opcode, st protocol.Status) error {
	return p.respond(protocol.NewResponse(op, st))
}

// checkBoard logs a hardware error recorded during the last operation and
// drives the shield to its safe state.
func (p *Programmer) checkBoard() {
	err := p.board.Err()
	if err == nil {
		return
	}

	p.metrics.incBoardErrCount()
	p.logger.Error("board error, resetting shield", "error", err)
	p.board.ClearErr()
	p.reset()
	if err := p.board.Err(); err != nil {
		p.logger.Error("board error during reset", "error", err)
		p.board.ClearErr()
	}
}

// reset drives the shield to its disabled state and drops the session.
func (p *Programmer) reset() {
	p.drv.Reset()
	p.session = nil
}

// idle lets the driver drop enables held across a chunk.
func (p *Programmer) idle() {
	if i, ok := p.drv.(family.Idler); ok {
		i.Idle()
	}
}
