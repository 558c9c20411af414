// Package memory implements sized and bulk target memory transfers over a debug unit.
package memory

import (
	"log/slog"

	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/or1k/du"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

// Maximum number of words moved by a single bulk transaction
const MaxBulkWords = 1024

type Access struct {
	unit   du.DebugUnit
	logger *slog.Logger
}

func New(unit du.DebugUnit, logger *slog.Logger) *Access {
	if logger == nil {
		logger = slog.Default()
	}

	return &Access{
		unit:   unit,
		logger: logger,
	}
}

func validate(address uint32, size int, count int, buffer []byte) error {
	switch size {
	case 1, 2, 4:
	default:
		return utils.MakeError(or1k.ErrInvalidArgument, "element size must be 1, 2 or 4 bytes, got %v", size)
	}

	if count <= 0 {
		return utils.MakeError(or1k.ErrInvalidArgument, "element count must be positive, got %v", count)
	}

	if buffer == nil {
		return utils.MakeError(or1k.ErrInvalidArgument, "missing buffer")
	}

	if len(buffer) < size*count {
		return utils.MakeError(or1k.ErrInvalidArgument, "buffer of %v bytes can't hold %v elements of %v bytes", len(buffer), count, size)
	}

	if address%uint32(size) != 0 {
		return utils.MakeError(or1k.ErrUnalignedAccess, "address 0x%08x is not aligned to %v bytes", address, size)
	}

	return nil
}

func checkLength(data []byte, expected int, address uint32) error {
	if len(data) != expected {
		return utils.MakeError(or1k.ErrCommunication, "short read at 0x%08x: expected %v bytes, got %v", address, expected, len(data))
	}

	return nil
}

// Reads count elements of size bytes starting at address into buffer.
// Word reads of more than one element are split in rounds of at most MaxBulkWords words.
func (a *Access) Read(address uint32, size int, count int, buffer []byte) error {
	a.logger.Debug("read memory", "address", utils.FormatUintHex(uint64(address), 8), "size", size, "count", count)

	if err := validate(address, size, count, buffer); err != nil {
		return err
	}

	if size == 4 && count > 1 {
		return a.bulkRead(address, count, buffer)
	}

	var read func(uint32, int) ([]byte, error)

	switch size {
	case 1:
		read = a.unit.ReadMemory8
	case 2:
		read = a.unit.ReadMemory16
	default:
		read = a.unit.ReadMemory32
	}

	data, err := read(address, count)
	if err != nil {
		return utils.WithContext(err, "reading %v bytes at 0x%08x", size*count, address)
	}

	if err := checkLength(data, size*count, address); err != nil {
		return err
	}

	copy(buffer, data)
	return nil
}

func (a *Access) bulkRead(address uint32, count int, buffer []byte) error {
	for done := 0; done < count; {
		round := utils.Min(count-done, MaxBulkWords)

		data, err := a.unit.ReadMemory32(address, round)
		if err != nil {
			a.logger.Error("bulk read failed", "from", utils.FormatUintHex(uint64(address), 8), "words", round)
			return utils.WithContext(err, "reading words [0x%08x, 0x%08x)", address, uint64(address)+4*uint64(round))
		}

		if err := checkLength(data, 4*round, address); err != nil {
			return err
		}

		copy(buffer[4*done:], data)
		address += 4 * uint32(round)
		done += round
	}

	return nil
}

// Writes count elements of size bytes from buffer starting at address.
// Word writes of more than one element are split in rounds of at most MaxBulkWords words.
func (a *Access) Write(address uint32, size int, count int, buffer []byte) error {
	a.logger.Debug("write memory", "address", utils.FormatUintHex(uint64(address), 8), "size", size, "count", count)

	if err := validate(address, size, count, buffer); err != nil {
		return err
	}

	if size == 4 && count > 1 {
		return a.bulkWrite(address, count, buffer)
	}

	var write func(uint32, []byte) error

	switch size {
	case 1:
		write = a.unit.WriteMemory8
	case 2:
		write = a.unit.WriteMemory16
	default:
		write = a.unit.WriteMemory32
	}

	if err := write(address, buffer[:size*count]); err != nil {
		return utils.WithContext(err, "writing %v bytes at 0x%08x", size*count, address)
	}

	return nil
}

func (a *Access) bulkWrite(address uint32, count int, buffer []byte) error {
	for done := 0; done < count; {
		round := utils.Min(count-done, MaxBulkWords)

		if err := a.unit.WriteMemory32(address, buffer[4*done:4*(done+round)]); err != nil {
			a.logger.Error("bulk write failed", "from", utils.FormatUintHex(uint64(address), 8), "words", round)
			return utils.WithContext(err, "writing words [0x%08x, 0x%08x)", address, uint64(address)+4*uint64(round))
		}

		address += 4 * uint32(round)
		done += round
	}

	return nil
}
