package du

import (
	"fmt"
	"log/slog"
	"strings"
)

// Trace records one debug unit transaction
type Trace struct {
	Operation string
	Operands  []Operand
	Result    string
	Error     error
}

type Operand struct {
	Name  string
	Value string
}

func (t *Trace) resultString() string {
	if t.Error != nil {
		return fmt.Sprintf("error: %v", t.Error.Error())
	} else if len(t.Result) > 0 {
		return fmt.Sprintf("result: %v", t.Result)
	} else {
		return ""
	}
}

func (t *Trace) joinOperands() string {
	fields := make([]string, 0, len(t.Operands))

	for _, operand := range t.Operands {
		fields = append(fields, fmt.Sprintf("%v: %v", operand.Name, operand.Value))
	}

	return strings.Join(fields, ", ")
}

func (t *Trace) String() string {
	return strings.TrimSpace(fmt.Sprintf("%v(%v) %s", t.Operation, t.joinOperands(), t.resultString()))
}

type Tracer interface {
	SaveTrace(t *Trace)
}

// Tracer writing every transaction to a structured logger at debug level
type SlogTracer struct {
	Logger *slog.Logger
}

func (t SlogTracer) SaveTrace(trace *Trace) {
	attrs := make([]any, 0, 2*len(trace.Operands)+4)
	attrs = append(attrs, "op", trace.Operation)

	for _, operand := range trace.Operands {
		attrs = append(attrs, operand.Name, operand.Value)
	}

	if trace.Error != nil {
		attrs = append(attrs, "error", trace.Error)
	} else if len(trace.Result) > 0 {
		attrs = append(attrs, "result", trace.Result)
	}

	t.Logger.Debug("du transaction", attrs...)
}

type traced struct {
	impl   DebugUnit
	tracer Tracer
}

// Wraps a debug unit so every transaction is reported to the tracer
func Traced(impl DebugUnit, tracer Tracer) DebugUnit {
	return &traced{
		impl:   impl,
		tracer: tracer,
	}
}

func hex(value uint32) string {
	return fmt.Sprintf("0x%08x", value)
}

func words(values []uint32) string {
	return fmt.Sprintf("%08x", values)
}

func (t *traced) save(operation string, err error, result string, operands ...Operand) {
	t.tracer.SaveTrace(&Trace{
		Operation: operation,
		Operands:  operands,
		Result:    result,
		Error:     err,
	})
}

func (t *traced) ReadCPU(address uint32, count int) ([]uint32, error) {
	values, err := t.impl.ReadCPU(address, count)
	t.save("ReadCPU", err, words(values), Operand{"address", hex(address)}, Operand{"count", fmt.Sprint(count)})
	return values, err
}

func (t *traced) WriteCPU(address uint32, values []uint32) error {
	err := t.impl.WriteCPU(address, values)
	t.save("WriteCPU", err, "", Operand{"address", hex(address)}, Operand{"values", words(values)})
	return err
}

func (t *traced) readMemory(operation string, read func(uint32, int) ([]byte, error), address uint32, count int) ([]byte, error) {
	data, err := read(address, count)
	t.save(operation, err, fmt.Sprintf("%d bytes", len(data)), Operand{"address", hex(address)}, Operand{"count", fmt.Sprint(count)})
	return data, err
}

func (t *traced) writeMemory(operation string, write func(uint32, []byte) error, address uint32, data []byte) error {
	err := write(address, data)
	t.save(operation, err, "", Operand{"address", hex(address)}, Operand{"bytes", fmt.Sprint(len(data))})
	return err
}

func (t *traced) ReadMemory8(address uint32, count int) ([]byte, error) {
	return t.readMemory("ReadMemory8", t.impl.ReadMemory8, address, count)
}

func (t *traced) ReadMemory16(address uint32, count int) ([]byte, error) {
	return t.readMemory("ReadMemory16", t.impl.ReadMemory16, address, count)
}

func (t *traced) ReadMemory32(address uint32, count int) ([]byte, error) {
	return t.readMemory("ReadMemory32", t.impl.ReadMemory32, address, count)
}

func (t *traced) WriteMemory8(address uint32, data []byte) error {
	return t.writeMemory("WriteMemory8", t.impl.WriteMemory8, address, data)
}

func (t *traced) WriteMemory16(address uint32, data []byte) error {
	return t.writeMemory("WriteMemory16", t.impl.WriteMemory16, address, data)
}

func (t *traced) WriteMemory32(address uint32, data []byte) error {
	return t.writeMemory("WriteMemory32", t.impl.WriteMemory32, address, data)
}

func (t *traced) control(operation string, do func() error) error {
	err := do()
	t.save(operation, err, "")
	return err
}

func (t *traced) Stall() error         { return t.control("Stall", t.impl.Stall) }
func (t *traced) Unstall() error       { return t.control("Unstall", t.impl.Unstall) }
func (t *traced) AssertReset() error   { return t.control("AssertReset", t.impl.AssertReset) }
func (t *traced) DeassertReset() error { return t.control("DeassertReset", t.impl.DeassertReset) }
func (t *traced) Reinitialize() error  { return t.control("Reinitialize", t.impl.Reinitialize) }

func (t *traced) IsRunning() (bool, error) {
	running, err := t.impl.IsRunning()
	t.save("IsRunning", err, fmt.Sprint(running))
	return running, err
}
