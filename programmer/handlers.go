package programmer

import (
	"context"
	"errors"

	"github.com/arloliu/go-hveprom/engine"
	"github.com/arloliu/go-hveprom/family"
	"github.com/arloliu/go-hveprom/hw"
	"github.com/arloliu/go-hveprom/protocol"
)

// readDevice reads the device-type byte of a setup command and validates it
// against the installed shield.
func (p *Programmer) readDevice(ctx context.Context) (*family.Device, protocol.Status, error) {
	b, err := p.t.ReadByte(ctx)
	if err != nil {
		return nil, 0, err
	}

	dev, st := p.validateDevice(family.Code(b))

	return dev, st, nil
}

func (p *Programmer) validateDevice(code family.Code) (*family.Device, protocol.Status) {
	dev, ok := family.Lookup(code)
	switch {
	case !ok:
		p.logger.Debug("device not supported", "code", byte(code))
		return nil, protocol.StatusNotSupported
	case dev.Family != p.drv.Family():
		p.logger.Debug("device needs another shield", "device", dev.Name, "shield", p.drv.Family().String())
		return nil, protocol.StatusIncorrectHW
	case !p.drv.SwitchMatches(dev):
		p.logger.Debug("switch in wrong position", "device", dev.Name)
		return nil, protocol.StatusIncorrectSwitchPos
	}

	return dev, protocol.StatusOK
}

// begin returns the shield to idle before the new session, whatever a bench
// test or an earlier session left asserted.
func (p *Programmer) begin(s *engine.Session) {
	s.ChunkSize = protocol.ChunkSize
	p.drv.Reset()
	p.drv.Select(s.Device)
	p.session = s
	p.logger.Info("session started", "device", s.Device.Name, "mode", s.Mode.String())
}

func (p *Programmer) end() {
	s := p.session
	p.reset()
	if s != nil {
		p.logger.Info("session finished", "device", s.Device.Name, "mode", s.Mode.String(),
			"max_per_byte", s.MaxPerByte, "total_attempts", s.TotalAttempts)
	}
}

func (p *Programmer) startWrite(ctx context.Context) error {
	const op = protocol.OpStartWrite

	dev, st, err := p.readDevice(ctx)
	if err != nil {
		return err
	}
	if st != protocol.StatusOK {
		return p.status(op, st)
	}

	var params [2]byte
	if err := protocol.ReadFull(ctx, p.t, params[:]); err != nil {
		return err
	}
	if !dev.Writable {
		return p.status(op, protocol.StatusInvalidCmd)
	}

	p.begin(engine.NewWriteSession(dev, params[0] != 0, int(params[1])))

	return p.status(op, protocol.StatusOK)
}

func (p *Programmer) startSession(ctx context.Context, op protocol.Opcode, mode engine.Mode) error {
	dev, st, err := p.readDevice(ctx)
	if err != nil {
		return err
	}
	if st != protocol.StatusOK {
		return p.status(op, st)
	}
	if mode == engine.ModeBlankCheck && !dev.Writable {
		return p.status(op, protocol.StatusInvalidCmd)
	}

	p.begin(engine.NewSession(dev, mode))

	return p.status(op, protocol.StatusOK)
}

// chunkSession returns the session for a chunk command. ok is false when the
// command must be ignored without a response.
func (p *Programmer) chunkSession(op protocol.Opcode, mode engine.Mode) (*engine.Session, bool, error) {
	s := p.session
	if s == nil {
		p.logger.Debug("no active session", "op", op.String())
		return nil, false, nil
	}
	if s.Mode != mode {
		return nil, false, p.status(op, protocol.StatusInvalidCmd)
	}

	return s, true, nil
}

func (p *Programmer) writeChunk(ctx context.Context) error {
	const op = protocol.OpWriteChunk

	s, ok, err := p.chunkSession(op, engine.ModeWrite)
	if !ok {
		return err
	}

	data := make([]byte, s.NextChunk())
	if err := protocol.ReadFull(ctx, p.t, data); err != nil {
		return err
	}

	err = p.eng.WriteChunk(s, data)
	p.idle()
	p.metrics.incChunkCount()

	switch {
	case errors.Is(err, engine.ErrMaxRetries):
		p.metrics.incMaxRetriesCount()
		p.logger.Debug("write chunk failed", "error", err)
		return p.status(op, protocol.StatusMaxRetries)
	case err != nil:
		p.logger.Warn("write chunk rejected", "error", err)
		return p.status(op, protocol.StatusInvalidCmd)
	case s.Complete():
		p.end()
		return p.respond(protocol.NewResponse(op, protocol.StatusComplete).
			Byte(byte(min(s.MaxPerByte, 0xFF))).
			Uint32(s.TotalAttempts))
	default:
		return p.status(op, protocol.StatusOK)
	}
}

func (p *Programmer) readChunk() error {
	const op = protocol.OpReadChunk

	s, ok, err := p.chunkSession(op, engine.ModeRead)
	if !ok {
		return err
	}

	data, err := p.eng.ReadChunk(s)
	p.idle()
	if err != nil {
		p.logger.Warn("read chunk rejected", "error", err)
		return p.status(op, protocol.StatusInvalidCmd)
	}
	p.metrics.incChunkCount()

	st := protocol.StatusOK
	if s.Complete() {
		st = protocol.StatusComplete
		p.end()
	}

	return p.respond(protocol.NewResponse(op, st).Bytes(data))
}

func (p *Programmer) blankCheck() error {
	const op = protocol.OpBlankCheck

	s, ok, err := p.chunkSession(op, engine.ModeBlankCheck)
	if !ok {
		return err
	}

	f, found, err := p.eng.BlankCheck(s)
	p.end()
	if err != nil {
		p.logger.Warn("blank check rejected", "error", err)
		return p.status(op, protocol.StatusInvalidCmd)
	}
	if found {
		return p.respond(protocol.NewResponse(op, protocol.StatusNotBlank).Uint16(f.Offset).Byte(f.Value))
	}

	return p.status(op, protocol.StatusComplete)
}

func (p *Programmer) deviceReset() error {
	p.reset()
	p.logger.Info("device reset")

	return p.status(protocol.OpDeviceReset, protocol.StatusOK)
}

func (p *Programmer) measureSupply() error {
	const op = protocol.OpMeasureSupply

	if p.cfg.supply == nil {
		return p.status(op, protocol.StatusNotSupported)
	}

	v, err := p.cfg.supply.ReadSupply()
	if err != nil {
		p.logger.Error("supply measurement failed", "error", err)
		return p.status(op, protocol.StatusNotSupported)
	}
	p.logger.Debug("supply measured", "voltage", v.String())

	return p.respond(protocol.NewResponse(op, protocol.StatusOK).Uint16(hw.Centivolts(v)))
}

// test puts the shield into a bench test state. Any active session is dropped.
func (p *Programmer) test(ctx context.Context) error {
	const op = protocol.OpTest

	var payload [2]byte
	if err := protocol.ReadFull(ctx, p.t, payload[:]); err != nil {
		return err
	}

	dev, st := p.validateDevice(family.Code(payload[0]))
	if st != protocol.StatusOK {
		return p.status(op, st)
	}

	p.reset()
	p.drv.Select(dev)
	if !p.drv.BenchTest(payload[1]) {
		p.drv.Reset()
		return p.status(op, protocol.StatusInvalidCmd)
	}
	p.logger.Info("bench test", "device", dev.Name, "test", payload[1])

	return p.status(op, protocol.StatusOK)
}

// testRead samples the data bus for the bench test in progress.
func (p *Programmer) testRead(ctx context.Context) error {
	const op = protocol.OpTestRead

	dev, st, err := p.readDevice(ctx)
	if err != nil {
		return err
	}
	if st != protocol.StatusOK {
		return p.status(op, st)
	}

	p.drv.Select(dev)
	p.board.DriveData(false)

	return p.respond(protocol.NewResponse(op, protocol.StatusOK).Byte(p.board.Data()))
}
